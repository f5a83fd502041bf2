package crawling

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/skillra/hh-harvester/internal/fetch"
	"github.com/skillra/hh-harvester/internal/types"
)

// DefaultMaxShardFailures retires a shard after this many consecutive
// transient failures.
const DefaultMaxShardFailures = 3

// Limits caps the amount of paging. Zero means unlimited.
type Limits struct {
	MaxPagesPerShard int
	MaxTotalPages    int
	// MaxFailures defaults to DefaultMaxShardFailures.
	MaxFailures int
}

// Outcome reports the result of fetching one shard page.
type Outcome struct {
	Listings    int
	HasNextPage bool
	TotalPages  int
	Err         error
}

// Retirement reasons.
const (
	RetiredLastPage  = "no next page"
	RetiredEmpty     = "empty page"
	RetiredTotal     = "past last known page"
	RetiredPageCap   = "page cap reached"
	RetiredPermanent = "permanent error"
	RetiredFailures  = "too many transient failures"
)

type shardState struct {
	areaID   int
	bucket   types.ExperienceBucket
	next     int
	total    int
	failures int
	inFlight bool
	retired  string
}

type areaState struct {
	shards []*shardState
	cursor int
}

// SchedulerStats summarizes paging progress.
type SchedulerStats struct {
	Shards     int
	Retired    int
	Dispatched int
}

// Scheduler hands out search pages across (area, experience bucket) shards.
// Areas are served in the given order; within the lowest area that still has
// an idle live shard, buckets take turns. A shard never has more than one
// page in flight, so its pages are fetched in increasing order.
type Scheduler struct {
	limits Limits

	mu         sync.Mutex
	areas      []*areaState
	index      map[string]*shardState
	dispatched int
	stopped    bool
	wake       chan struct{}
}

// NewScheduler creates one shard per area and bucket, each starting at page 0.
func NewScheduler(areas []int, buckets []types.ExperienceBucket, limits Limits) *Scheduler {
	if limits.MaxFailures <= 0 {
		limits.MaxFailures = DefaultMaxShardFailures
	}
	s := &Scheduler{
		limits: limits,
		index:  make(map[string]*shardState),
		wake:   make(chan struct{}),
	}
	for _, areaID := range areas {
		a := &areaState{}
		for _, b := range buckets {
			st := &shardState{areaID: areaID, bucket: b}
			key := types.SearchShard{AreaID: areaID, Bucket: b}.Key()
			if _, dup := s.index[key]; dup {
				continue
			}
			s.index[key] = st
			a.shards = append(a.shards, st)
		}
		if len(a.shards) > 0 {
			s.areas = append(s.areas, a)
		}
	}
	return s
}

// Next returns the next page to fetch. It blocks while every live shard has
// a page in flight and returns false once all shards are retired, the global
// page budget is spent, Stop was called or ctx is done.
func (s *Scheduler) Next(ctx context.Context) (*types.SearchShard, bool) {
	for {
		s.mu.Lock()
		if s.stopped || ctx.Err() != nil || s.budgetSpentLocked() {
			s.mu.Unlock()
			return nil, false
		}
		shard, live := s.pickLocked()
		if shard != nil {
			s.mu.Unlock()
			return shard, true
		}
		if !live {
			s.mu.Unlock()
			return nil, false
		}
		wake := s.wake
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, false
		case <-wake:
		}
	}
}

func (s *Scheduler) budgetSpentLocked() bool {
	return s.limits.MaxTotalPages > 0 && s.dispatched >= s.limits.MaxTotalPages
}

// pickLocked dispatches an idle live shard. live reports whether any shard
// is still live, busy or not.
func (s *Scheduler) pickLocked() (shard *types.SearchShard, live bool) {
	for _, a := range s.areas {
		n := len(a.shards)
		for k := 0; k < n; k++ {
			i := (a.cursor + k) % n
			st := a.shards[i]
			if st.retired != "" {
				continue
			}
			live = true
			if st.inFlight {
				continue
			}
			st.inFlight = true
			a.cursor = (i + 1) % n
			s.dispatched++
			return &types.SearchShard{AreaID: st.areaID, Bucket: st.bucket, Page: st.next}, true
		}
	}
	return nil, live
}

// Complete records the outcome of a page handed out by Next. It returns an
// error wrapping ErrShardExhausted when the shard was retired by this outcome.
// A cancelled fetch leaves the shard as it was so the page can be retried.
func (s *Scheduler) Complete(shard types.SearchShard, out Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.broadcastLocked()

	st, ok := s.index[shard.Key()]
	if !ok || !st.inFlight || st.next != shard.Page {
		return nil
	}
	st.inFlight = false

	if out.Err != nil {
		if errors.Is(out.Err, context.Canceled) || errors.Is(out.Err, context.DeadlineExceeded) {
			return nil
		}
		if !fetch.IsTransient(out.Err) {
			return s.retireLocked(st, RetiredPermanent)
		}
		st.failures++
		if st.failures >= s.limits.MaxFailures {
			return s.retireLocked(st, RetiredFailures)
		}
		// skip the page and keep paging
		return s.advanceLocked(st)
	}

	st.failures = 0
	if out.TotalPages > 0 {
		st.total = out.TotalPages
	}
	switch {
	case out.Listings == 0:
		return s.retireLocked(st, RetiredEmpty)
	case !out.HasNextPage:
		return s.retireLocked(st, RetiredLastPage)
	}
	return s.advanceLocked(st)
}

func (s *Scheduler) advanceLocked(st *shardState) error {
	st.next++
	if st.total > 0 && st.next >= st.total {
		return s.retireLocked(st, RetiredTotal)
	}
	if s.limits.MaxPagesPerShard > 0 && st.next >= s.limits.MaxPagesPerShard {
		return s.retireLocked(st, RetiredPageCap)
	}
	return nil
}

func (s *Scheduler) retireLocked(st *shardState, reason string) error {
	st.retired = reason
	return fmt.Errorf("%w: area=%d exp=%s after %d pages: %s", ErrShardExhausted, st.areaID, st.bucket, st.next, reason)
}

func (s *Scheduler) broadcastLocked() {
	close(s.wake)
	s.wake = make(chan struct{})
}

// Stop makes every current and future Next call return false.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		s.broadcastLocked()
	}
}

// Stats returns a snapshot of paging progress.
func (s *Scheduler) Stats() SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := SchedulerStats{Shards: len(s.index), Dispatched: s.dispatched}
	for _, st := range s.index {
		if st.retired != "" {
			stats.Retired++
		}
	}
	return stats
}
