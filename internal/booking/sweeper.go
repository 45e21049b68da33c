package booking

import (
	"context"
	"log"
	"time"
)

// DefaultSweepInterval is how often the sweeper wakes up.
const DefaultSweepInterval = time.Minute

// Sweeper periodically reclaims abandoned holds so seats return to
// availability without anyone having to release them.  Hold and confirm
// additionally purge expired locks lazily inside their own transactions,
// so the sweeper only bounds how long a dead lock can linger.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
}

// NewSweeper builds a Sweeper over the engine.  A non-positive interval
// falls back to DefaultSweepInterval.
func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{engine: engine, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.  Sweep
// failures are logged and the loop keeps going; a missed pass only delays
// reclamation until the next tick or the next lazy purge.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("sweeper: reclaiming expired seat locks every %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper: stopped")
			return
		case <-ticker.C:
			n, err := s.engine.SweepExpiredLocks(ctx)
			if err != nil {
				log.Printf("sweeper: sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweeper: released %d expired seat lock(s)", n)
			}
		}
	}
}
