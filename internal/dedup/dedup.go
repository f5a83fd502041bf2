// Package dedup keeps one record per vacancy identifier, preferring the most
// recent scrape, and forwards every accepted record to the sink.
package dedup

import (
	"context"
	"sync"
	"time"

	"github.com/skillra/hh-harvester/internal/types"
)

// Writer persists an accepted record.
type Writer interface {
	Write(ctx context.Context, rec *types.VacancyRecord) error
}

// Deduplicator is safe for concurrent use; Accept calls are serialized.
type Deduplicator struct {
	mu      sync.Mutex
	sink    Writer
	latest  map[int64]time.Time
	claimed map[int64]struct{}
	index   map[int64]int
	records []*types.VacancyRecord
}

// New creates a deduplicator in front of sink. known holds identifiers and
// scrape times persisted by earlier runs; a record only replaces one of them
// when it was scraped later.
func New(sink Writer, known map[int64]time.Time) *Deduplicator {
	latest := make(map[int64]time.Time, len(known))
	for id, ts := range known {
		latest[id] = ts
	}
	return &Deduplicator{
		sink:    sink,
		latest:  latest,
		claimed: make(map[int64]struct{}),
		index:   make(map[int64]int),
	}
}

// Accept persists rec when its identifier is new or rec is newer than the
// stored one. It returns false for a discarded record. A sink failure leaves
// the previous state untouched.
func (d *Deduplicator) Accept(ctx context.Context, rec *types.VacancyRecord) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.latest[rec.VacancyID]; ok && !rec.ScrapedAt.After(prev) {
		return false, nil
	}
	if err := d.sink.Write(ctx, rec); err != nil {
		return false, err
	}

	d.latest[rec.VacancyID] = rec.ScrapedAt
	if i, ok := d.index[rec.VacancyID]; ok {
		d.records[i] = rec
	} else {
		d.index[rec.VacancyID] = len(d.records)
		d.records = append(d.records, rec)
	}
	return true, nil
}

// Claim marks id as being fetched in this run. It returns false when the id
// was already claimed, so a posting listed in several shards is fetched once.
func (d *Deduplicator) Claim(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.claimed[id]; ok {
		return false
	}
	d.claimed[id] = struct{}{}
	return true
}

// Records returns the records accepted in this run, one per identifier, in
// order of first acceptance.
func (d *Deduplicator) Records() []*types.VacancyRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*types.VacancyRecord(nil), d.records...)
}
