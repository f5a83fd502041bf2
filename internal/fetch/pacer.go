package fetch

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// DefaultJitter is the fraction of the base delay that is randomized.
const DefaultJitter = 0.5

// Pacer enforces the politeness delay across every worker of a run.
// Callers are admitted one at a time. The gap after the previous admission is
// the floor (base*(1-jitter)) plus a random extra in [0, 2*jitter*base), so
// gaps average base and never drop below the floor. The limiter admits last
// and holds the floor on its own.
type Pacer struct {
	limiter *rate.Limiter
	floor   time.Duration
	spread  time.Duration
	turn    chan struct{}
	last    time.Time // guarded by turn
}

// NewPacer creates a pacer. A non-positive base disables pacing.
func NewPacer(base time.Duration, jitter float64) *Pacer {
	if base <= 0 {
		return &Pacer{}
	}
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}

	floor := time.Duration(float64(base) * (1 - jitter))
	limit := rate.Inf
	if floor > 0 {
		limit = rate.Every(floor)
	}
	return &Pacer{
		limiter: rate.NewLimiter(limit, 1),
		floor:   floor,
		spread:  time.Duration(float64(base) * 2 * jitter),
		turn:    make(chan struct{}, 1),
	}
}

// Wait blocks until the caller may issue its request or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return ctx.Err()
	}

	select {
	case p.turn <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.turn }()

	if !p.last.IsZero() {
		gap := p.floor
		if p.spread > 0 {
			gap += time.Duration(rand.Int64N(int64(p.spread)))
		}
		if err := sleep(ctx, time.Until(p.last.Add(gap))); err != nil {
			return err
		}
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	p.last = time.Now()
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
