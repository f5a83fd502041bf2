package store

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/types"
)

// CSVSink appends one row per accepted record and flushes it immediately,
// so a crash loses at most the record being written. An exclusive lock file
// next to the output keeps two runs from interleaving rows.
type CSVSink struct {
	path    string
	columns []features.Column
	lock    *flock.Flock

	mu        sync.Mutex
	file      *os.File
	writer    *csv.Writer
	finalized bool
}

// OpenCSV opens path for appending, creating it with a header row when it
// does not exist or is empty. An existing file must have the same header.
func OpenCSV(path string, columns []features.Column) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &Error{Target: path, Message: "create output directory", Cause: err}
		}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, &Error{Target: path, Message: "lock output", Cause: err}
	}
	if !locked {
		return nil, &Error{Target: path, Message: "output is locked by another run"}
	}

	s := &CSVSink{path: path, columns: columns, lock: lock}
	if err := s.open(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return s, nil
}

func (s *CSVSink) open() error {
	header := features.ColumnNames(s.columns)

	existing, err := readHeader(s.path)
	if err != nil {
		return err
	}
	if existing != nil && !slices.Equal(existing, header) {
		return &Error{Target: s.path, Message: "existing file has a different header"}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &Error{Target: s.path, Message: "open output", Cause: err}
	}
	s.file = f
	s.writer = csv.NewWriter(f)

	if existing == nil {
		if err := s.writeRow(header); err != nil {
			_ = f.Close()
			return err
		}
	}
	return nil
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Target: path, Message: "read output", Cause: err}
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Target: path, Message: "read header", Cause: err}
	}
	return header, nil
}

// Known reads the identifiers and scrape times of rows already in the file.
func (s *CSVSink) Known(_ context.Context) (map[int64]time.Time, error) {
	known := make(map[int64]time.Time)
	rows, header, err := s.readRows()
	if err != nil {
		return nil, err
	}
	idCol, tsCol := slices.Index(header, "vacancy_id"), slices.Index(header, "scraped_at")
	if idCol < 0 || tsCol < 0 {
		return known, nil
	}
	for _, row := range rows {
		id, err := strconv.ParseInt(row[idCol], 10, 64)
		if err != nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339, row[tsCol])
		if err != nil {
			continue
		}
		if prev, ok := known[id]; !ok || ts.After(prev) {
			known[id] = ts
		}
	}
	return known, nil
}

func (s *CSVSink) readRows() ([][]string, []string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, &Error{Target: s.path, Message: "read output", Cause: err}
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, &Error{Target: s.path, Message: "parse output", Cause: err}
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[1:], records[0], nil
}

// Write appends rec and flushes it to disk.
func (s *CSVSink) Write(_ context.Context, rec *types.VacancyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return &Error{Target: s.path, Message: "write after finalize"}
	}
	return s.writeRow(s.format(rec))
}

func (s *CSVSink) writeRow(row []string) error {
	if err := s.writer.Write(row); err != nil {
		return &Error{Target: s.path, Message: "write row", Cause: err}
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return &Error{Target: s.path, Message: "flush row", Cause: err}
	}
	return nil
}

func (s *CSVSink) format(rec *types.VacancyRecord) []string {
	row := make([]string, len(s.columns))
	for i, c := range s.columns {
		row[i] = c.Format(c.Get(rec))
	}
	return row
}

// Finalize rewrites the file with exactly one row per identifier: the
// run's final record where there is one, otherwise the last row already in
// the file. The rewrite goes through a temporary file and a rename.
func (s *CSVSink) Finalize(_ context.Context, recs []*types.VacancyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return nil
	}
	s.finalized = true

	s.writer.Flush()
	if err := s.file.Close(); err != nil {
		return &Error{Target: s.path, Message: "close output", Cause: err}
	}

	rows, header, err := s.readRows()
	if err != nil {
		return err
	}
	idCol := slices.Index(header, "vacancy_id")

	final := make(map[string][]string, len(recs))
	for _, rec := range recs {
		final[strconv.FormatInt(rec.VacancyID, 10)] = s.format(rec)
	}

	var order []string
	latest := make(map[string][]string)
	for _, row := range rows {
		id := row[idCol]
		if _, ok := latest[id]; !ok {
			order = append(order, id)
		}
		latest[id] = row
	}
	for _, rec := range recs {
		id := strconv.FormatInt(rec.VacancyID, 10)
		if _, ok := latest[id]; !ok {
			order = append(order, id)
			latest[id] = nil
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &Error{Target: s.path, Message: "create temp file", Cause: err}
	}
	defer os.Remove(tmp.Name())
	_ = tmp.Chmod(0o644)

	w := csv.NewWriter(tmp)
	if err := w.Write(features.ColumnNames(s.columns)); err != nil {
		_ = tmp.Close()
		return &Error{Target: s.path, Message: "write header", Cause: err}
	}
	for _, id := range order {
		row, ok := final[id]
		if !ok {
			row = latest[id]
		}
		if err := w.Write(row); err != nil {
			_ = tmp.Close()
			return &Error{Target: s.path, Message: "write row", Cause: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return &Error{Target: s.path, Message: "flush rewrite", Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &Error{Target: s.path, Message: "sync rewrite", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &Error{Target: s.path, Message: "close rewrite", Cause: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &Error{Target: s.path, Message: "replace output", Cause: err}
	}
	return nil
}

// Close releases the file and the lock.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	if !s.finalized && s.file != nil {
		s.writer.Flush()
		errs = append(errs, s.file.Close())
		s.finalized = true
	}
	errs = append(errs, s.lock.Unlock())
	if err := errors.Join(errs...); err != nil {
		return &Error{Target: s.path, Message: "close", Cause: err}
	}
	return nil
}
