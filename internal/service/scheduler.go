package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/CharlesIC/fourth-wall/internal/metrics"
)

// Refresher runs the two kinds of aggregation cycle.
type Refresher interface {
	RefreshRepos(ctx context.Context) error
	RefreshStatus(ctx context.Context) error
}

// Scheduler drives periodic repository list and status refreshes.
// A cycle that is still running when its next tick fires makes that tick a no-op.
type Scheduler struct {
	refresher      Refresher
	repoInterval   time.Duration
	statusInterval time.Duration
	logger         *zap.Logger

	reposBusy  atomic.Bool
	statusBusy atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler. Intervals must be positive.
func NewScheduler(refresher Refresher, repoInterval, statusInterval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		refresher:      refresher,
		repoInterval:   repoInterval,
		statusInterval: statusInterval,
		logger:         logger.Named("scheduler"),
	}
}

// Start runs an initial refresh and then both periodic loops.
// Non-blocking - launches goroutines and returns immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting",
		zap.Duration("repoInterval", s.repoInterval),
		zap.Duration("statusInterval", s.statusInterval))

	s.wg.Add(2)
	go s.repoLoop(s.ctx)
	go s.statusLoop(s.ctx)
}

// Stop cancels in-flight cycles and waits for the loops to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.logger.Info("stopping")
	s.wg.Wait()
	s.logger.Info("stopped")
}

// Errors returned by Trigger.
var (
	ErrNotRunning  = errors.New("scheduler is not running")
	ErrRefreshBusy = errors.New("repository refresh already running")
)

// Trigger starts an out-of-band refresh of both kinds in the background.
// It fails with ErrRefreshBusy when a repository refresh is in progress, since that
// cycle already refreshes status when it completes.
func (s *Scheduler) Trigger() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ErrNotRunning
	}
	if !s.reposBusy.CompareAndSwap(false, true) {
		metrics.CyclesTotal.WithLabelValues(metrics.KindRepos, metrics.ResultSkipped).Inc()
		return ErrRefreshBusy
	}

	s.wg.Add(1)
	go func(ctx context.Context) {
		defer s.wg.Done()
		s.runReposClaimed(ctx)
	}(s.ctx)
	return nil
}

// RunRepos refreshes the repository list and, when that succeeds, the status of the
// new set. It returns false when a repository refresh was already running.
func (s *Scheduler) RunRepos(ctx context.Context) bool {
	if !s.reposBusy.CompareAndSwap(false, true) {
		metrics.CyclesTotal.WithLabelValues(metrics.KindRepos, metrics.ResultSkipped).Inc()
		s.logger.Debug("repository refresh still running, skipping")
		return false
	}
	s.runReposClaimed(ctx)
	return true
}

// runReposClaimed runs a repository cycle; the caller must have set reposBusy.
func (s *Scheduler) runReposClaimed(ctx context.Context) {
	err := s.refresher.RefreshRepos(ctx)
	s.reposBusy.Store(false)
	if err != nil {
		return
	}
	s.RunStatus(ctx)
}

// RunStatus refreshes status unless a status refresh is already running.
func (s *Scheduler) RunStatus(ctx context.Context) bool {
	if !s.statusBusy.CompareAndSwap(false, true) {
		metrics.CyclesTotal.WithLabelValues(metrics.KindStatus, metrics.ResultSkipped).Inc()
		s.logger.Debug("status refresh still running, skipping")
		return false
	}
	defer s.statusBusy.Store(false)

	// Failures are logged and counted by the refresher; the next tick retries.
	_ = s.refresher.RefreshStatus(ctx)
	return true
}

func (s *Scheduler) repoLoop(ctx context.Context) {
	defer s.wg.Done()

	s.RunRepos(ctx)

	ticker := time.NewTicker(s.repoInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.RunRepos(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) statusLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.RunStatus(ctx)
		case <-ctx.Done():
			return
		}
	}
}
