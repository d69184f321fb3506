// Package scheduler runs the sync engine in the background: a periodic full
// sync plus a faster outbox push loop.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/logging"
	syncpkg "github.com/dmoreira/rentdesk/internal/sync"
)

// Engine is the sync surface the scheduler drives.
type Engine interface {
	TestConnection(ctx context.Context) bool
	PushPending(ctx context.Context, maxBatch int) (*syncpkg.PushResult, error)
	FullSync(ctx context.Context) (*syncpkg.SyncResult, error)
	Status() syncpkg.Status
	Connected() bool
	LastSync() *time.Time
}

// PendingCounter reports how many outbox entries await replication.
type PendingCounter interface {
	PendingCount() (int, error)
}

// Config holds scheduler timing.
type Config struct {
	SyncInterval time.Duration // full sync period (default: 5 minutes)
	PushInterval time.Duration // outbox push period (default: 1 minute)
	PushBatch    int           // max entries per push cycle
}

// DefaultConfig returns the default scheduler timing.
func DefaultConfig() *Config {
	return &Config{
		SyncInterval: 5 * time.Minute,
		PushInterval: 1 * time.Minute,
		PushBatch:    100,
	}
}

// Scheduler owns the background sync goroutines. Start and Stop are
// idempotent; Stop blocks until both loops have exited.
type Scheduler struct {
	engine  Engine
	pending PendingCounter
	config  *Config
	log     *logrus.Entry

	stopCh  chan struct{}
	trigger chan struct{}
	wg      sync.WaitGroup

	mu        sync.RWMutex
	isRunning bool
}

// Snapshot is a point-in-time view of sync state for status endpoints.
type Snapshot struct {
	Running      bool       `json:"running"`
	Connected    bool       `json:"connected"`
	Status       string     `json:"status"`
	LastSync     *time.Time `json:"last_sync,omitempty"`
	PendingCount int        `json:"pending_count"`
}

// New creates a Scheduler. A nil config uses DefaultConfig.
func New(engine Engine, pending PendingCounter, config *Config) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scheduler{
		engine:  engine,
		pending: pending,
		config:  config,
		log:     logging.WithComponent("scheduler"),
		stopCh:  make(chan struct{}),
		trigger: make(chan struct{}, 1),
	}
}

// Start launches the background loops.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.wg.Add(2)
	go s.fullSyncLoop(ctx)
	go s.pushLoop(ctx)

	s.log.Info("background sync scheduler started")
}

// Stop signals the loops and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	s.log.Info("background sync scheduler stopped")
}

// IsRunning reports whether the loops are active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// TriggerSync asks the full-sync loop to run a cycle now. Non-blocking; a
// trigger while one is already queued is a no-op.
func (s *Scheduler) TriggerSync() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// SyncNow runs a full sync synchronously, outside the loop schedule.
func (s *Scheduler) SyncNow(ctx context.Context) (*syncpkg.SyncResult, error) {
	return s.engine.FullSync(ctx)
}

// Status returns a snapshot for the status endpoint.
func (s *Scheduler) Status() Snapshot {
	count, err := s.pending.PendingCount()
	if err != nil {
		s.log.WithError(err).Warn("failed to count pending outbox entries")
	}
	return Snapshot{
		Running:      s.IsRunning(),
		Connected:    s.engine.Connected(),
		Status:       string(s.engine.Status()),
		LastSync:     s.engine.LastSync(),
		PendingCount: count,
	}
}

// fullSyncLoop runs a full sync every SyncInterval or on demand.
func (s *Scheduler) fullSyncLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runFullSync(ctx)
		case <-s.trigger:
			s.runFullSync(ctx)
		}
	}
}

// pushLoop flushes outbox entries more often than the full sync so local
// changes reach the remote quickly.
func (s *Scheduler) pushLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runPush(ctx)
		}
	}
}

func (s *Scheduler) runFullSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	result, err := s.engine.FullSync(syncCtx)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSyncInProgress) {
			s.log.Debug("sync already in progress, skipping cycle")
			return
		}
		s.log.WithError(err).Warn("periodic full sync failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"pushed": result.Push.Succeeded,
		"pulled": result.Pulled,
	}).Info("periodic full sync completed")
}

func (s *Scheduler) runPush(ctx context.Context) {
	count, err := s.pending.PendingCount()
	if err != nil || count == 0 {
		return
	}
	if s.engine.Status() == syncpkg.StatusSyncing {
		return
	}

	pushCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	result, err := s.engine.PushPending(pushCtx, s.config.PushBatch)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSyncDisconnected) {
			s.log.Debug("remote unreachable, outbox push deferred")
			return
		}
		s.log.WithError(err).Warn("outbox push failed")
		return
	}
	if result.Succeeded > 0 || result.Failed > 0 {
		s.log.WithFields(logrus.Fields{
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
		}).Info("outbox push completed")
	}
}
