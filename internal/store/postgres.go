package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/types"
)

// PostgresSink upserts records into a PostgreSQL table through a pgx pool.
type PostgresSink struct {
	target  string
	pool    *pgxpool.Pool
	columns []features.Column
	upsert  string
}

// OpenPostgres connects to databaseURL and ensures the table exists.
func OpenPostgres(ctx context.Context, databaseURL string, columns []features.Column) (*PostgresSink, error) {
	target := Describe(databaseURL)
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &Error{Target: target, Message: "connect to database", Cause: err}
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &Error{Target: target, Message: "ping database", Cause: err}
	}
	if _, err := pool.Exec(ctx, postgresDialect.createTable(columns)); err != nil {
		pool.Close()
		return nil, &Error{Target: target, Message: "create table", Cause: err}
	}
	return &PostgresSink{target: target, pool: pool, columns: columns, upsert: postgresDialect.upsert(columns)}, nil
}

// Known returns every stored identifier with its scrape time.
func (s *PostgresSink) Known(ctx context.Context) (map[int64]time.Time, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT vacancy_id, scraped_at FROM %s WHERE scraped_at IS NOT NULL", TableName))
	if err != nil {
		return nil, &Error{Target: s.target, Message: "query known ids", Cause: err}
	}
	defer rows.Close()

	known := make(map[int64]time.Time)
	for rows.Next() {
		var id int64
		var ts time.Time
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, &Error{Target: s.target, Message: "scan known id", Cause: err}
		}
		known[id] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Target: s.target, Message: "read known ids", Cause: err}
	}
	return known, nil
}

// Write upserts rec; a stored row with a later scrape time is kept.
func (s *PostgresSink) Write(ctx context.Context, rec *types.VacancyRecord) error {
	if _, err := s.pool.Exec(ctx, s.upsert, postgresDialect.args(s.columns, rec)...); err != nil {
		return &Error{Target: s.target, Message: fmt.Sprintf("upsert vacancy %d", rec.VacancyID), Cause: err}
	}
	return nil
}

// Finalize stores the salary buckets of the run's records in one batch.
func (s *PostgresSink) Finalize(ctx context.Context, recs []*types.VacancyRecord) error {
	if len(recs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := postgresDialect.updateBucket()
	for _, rec := range recs {
		batch.Queue(query, rec.SalaryBucket, rec.VacancyID)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for _, rec := range recs {
		if _, err := results.Exec(); err != nil {
			return &Error{Target: s.target, Message: fmt.Sprintf("update bucket of %d", rec.VacancyID), Cause: err}
		}
	}
	return nil
}

// Close closes the pool.
func (s *PostgresSink) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
