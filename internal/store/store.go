// Package store persists vacancy records incrementally to a CSV file, a
// SQLite database or a PostgreSQL database.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/types"
)

// Error is returned for any sink failure.
type Error struct {
	Target  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error for %s: %s: %v", e.Target, e.Message, e.Cause)
	}
	return fmt.Sprintf("store error for %s: %s", e.Target, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Sink receives accepted records. Write is called once per accepted record
// and must make it durable before returning; Finalize runs once after the
// crawl with the run's final records, salary buckets included.
type Sink interface {
	// Known returns identifiers already persisted, with their scrape times.
	Known(ctx context.Context) (map[int64]time.Time, error)
	Write(ctx context.Context, rec *types.VacancyRecord) error
	Finalize(ctx context.Context, recs []*types.VacancyRecord) error
	Close() error
}

// Kind is the storage backend selected for a target.
type Kind string

const (
	KindCSV      Kind = "csv"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// TableName is the table used by the database sinks.
const TableName = "vacancies"

// KindOf classifies an output target: PostgreSQL URLs, SQLite files by
// extension, anything else is a CSV path.
func KindOf(target string) Kind {
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return KindPostgres
	}
	switch filepath.Ext(lower) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	return KindCSV
}

// Open creates the sink for target with the given column schema.
func Open(ctx context.Context, target string, columns []features.Column) (Sink, error) {
	if target == "" {
		return nil, &Error{Target: target, Message: "empty output target"}
	}
	var (
		sink Sink
		err  error
	)
	switch KindOf(target) {
	case KindPostgres:
		sink, err = OpenPostgres(ctx, target, columns)
	case KindSQLite:
		sink, err = OpenSQLite(ctx, target, columns)
	default:
		sink, err = OpenCSV(target, columns)
	}
	if err != nil {
		return nil, err
	}
	return sink, nil
}

// Describe returns target with any password removed, for logs and summaries.
func Describe(target string) string {
	if KindOf(target) != KindPostgres {
		return target
	}
	scheme, rest, _ := strings.Cut(target, "://")
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return target
	}
	user, _, _ := strings.Cut(rest[:at], ":")
	return scheme + "://" + user + rest[at:]
}
