package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/aquavo/authcore/internal/logging"
)

// Cleaner is the slice of Store the scheduler drives.
type Cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// Scheduler periodically invokes session cleanup on its own timer. It is
// the primary reclamation mechanism; the store's opportunistic sweeps are
// the fallback when no scheduler runs.
type Scheduler struct {
	store  Cleaner
	logger logging.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewScheduler(store Cleaner, logger logging.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		logger: logger.With("component", "session-cleanup"),
	}
}

// Start launches the recurring cleanup timer. Calling Start while the
// scheduler is already running is a no-op, so duplicate timers cannot
// accumulate.
func (s *Scheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	schedulerRunning.Set(1)

	go s.run(interval, s.stop, s.done)
}

// Stop cancels the timer and waits for an in-flight sweep to finish.
// Stopping a scheduler that is not running is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == nil {
		return
	}

	close(s.stop)
	<-s.done
	s.stop = nil
	s.done = nil
	schedulerRunning.Set(0)
}

func (s *Scheduler) run(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx := context.Background()
			n, err := s.store.Cleanup(ctx)
			if err != nil {
				// A failed sweep must not kill the timer; expired rows
				// stay invalid and the next tick retries.
				s.logger.Error(ctx, "scheduled session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info(ctx, "scheduled session cleanup finished", "deleted", n)
			}
		}
	}
}
