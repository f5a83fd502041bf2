package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/types"
)

// SQLiteSink upserts records into a local SQLite file.
type SQLiteSink struct {
	path    string
	db      *sql.DB
	columns []features.Column
	upsert  string
}

// OpenSQLite opens or creates the database at path and ensures the table exists.
func OpenSQLite(ctx context.Context, path string, columns []features.Column) (*SQLiteSink, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &Error{Target: path, Message: "open database", Cause: err}
	}
	// one writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &Error{Target: path, Message: "ping database", Cause: err}
	}
	if _, err := db.ExecContext(ctx, sqliteDialect.createTable(columns)); err != nil {
		_ = db.Close()
		return nil, &Error{Target: path, Message: "create table", Cause: err}
	}
	return &SQLiteSink{path: path, db: db, columns: columns, upsert: sqliteDialect.upsert(columns)}, nil
}

// Known returns every stored identifier with its scrape time.
func (s *SQLiteSink) Known(ctx context.Context) (map[int64]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT vacancy_id, scraped_at FROM %s", TableName))
	if err != nil {
		return nil, &Error{Target: s.path, Message: "query known ids", Cause: err}
	}
	defer rows.Close()

	known := make(map[int64]time.Time)
	for rows.Next() {
		var id int64
		var raw sql.NullString
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, &Error{Target: s.path, Message: "scan known id", Cause: err}
		}
		ts, err := time.Parse(time.RFC3339, raw.String)
		if err != nil {
			continue
		}
		known[id] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Target: s.path, Message: "read known ids", Cause: err}
	}
	return known, nil
}

// Write upserts rec; a stored row with a later scrape time is kept.
func (s *SQLiteSink) Write(ctx context.Context, rec *types.VacancyRecord) error {
	if _, err := s.db.ExecContext(ctx, s.upsert, sqliteDialect.args(s.columns, rec)...); err != nil {
		return &Error{Target: s.path, Message: fmt.Sprintf("upsert vacancy %d", rec.VacancyID), Cause: err}
	}
	return nil
}

// Finalize stores the salary buckets of the run's records in one transaction.
func (s *SQLiteSink) Finalize(ctx context.Context, recs []*types.VacancyRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &Error{Target: s.path, Message: "begin finalize", Cause: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteDialect.updateBucket())
	if err != nil {
		return &Error{Target: s.path, Message: "prepare bucket update", Cause: err}
	}
	defer stmt.Close()

	for _, rec := range recs {
		var bucket any
		if rec.SalaryBucket != nil {
			bucket = *rec.SalaryBucket
		}
		if _, err := stmt.ExecContext(ctx, bucket, rec.VacancyID); err != nil {
			return &Error{Target: s.path, Message: fmt.Sprintf("update bucket of %d", rec.VacancyID), Cause: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &Error{Target: s.path, Message: "commit finalize", Cause: err}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
