package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"parent-portal/errors"
)

const restartDelay = 200 * time.Millisecond

// Worker is a long-running loop driven by a context. Returning nil means
// done; returning an error (or panicking) asks for a restart.
type Worker interface {
	Run(ctx context.Context) error
}

func workerName(w Worker) string { return fmt.Sprintf("%T", w) }

// Supervisor runs each worker in its own goroutine, recovers panics,
// restarts crashed workers after a short delay and stops everything when
// the parent context is canceled. One crashing worker never takes down
// the others.
type Supervisor struct {
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     *slog.Logger
	workers []Worker
}

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{log: log}
}

func (s *Supervisor) Add(workers ...Worker) *Supervisor {
	s.workers = append(s.workers, workers...)
	return s
}

// Run blocks until every supervised worker has finished.
func (s *Supervisor) Run(ctx context.Context) {
	supervised, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	for _, worker := range s.workers {
		s.start(supervised, worker)
	}
	s.wg.Wait()
}

// Stop cancels the supervised context. Run keeps waiting until the
// workers notice and return.
func (s *Supervisor) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Supervisor) start(ctx context.Context, worker Worker) {
	s.wg.Add(1)
	name := workerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info("worker stopping", "name", name)
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info("worker finished", "name", name)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("worker stopped, context canceled", "name", name)
				return
			}

			s.log.Warn("worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(restartDelay):
			}
		}
	}()
}
