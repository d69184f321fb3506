package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	syncpkg "github.com/dmoreira/rentdesk/internal/sync"
)

type fakeEngine struct {
	mu        sync.Mutex
	fullSyncs int
	pushes    int
	syncDone  chan struct{}
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{syncDone: make(chan struct{}, 16)}
}

func (f *fakeEngine) TestConnection(ctx context.Context) bool { return true }

func (f *fakeEngine) PushPending(ctx context.Context, maxBatch int) (*syncpkg.PushResult, error) {
	f.mu.Lock()
	f.pushes++
	f.mu.Unlock()
	return &syncpkg.PushResult{}, nil
}

func (f *fakeEngine) FullSync(ctx context.Context) (*syncpkg.SyncResult, error) {
	f.mu.Lock()
	f.fullSyncs++
	f.mu.Unlock()
	f.syncDone <- struct{}{}
	return &syncpkg.SyncResult{Push: &syncpkg.PushResult{}, Pulled: map[string]int{}}, nil
}

func (f *fakeEngine) Status() syncpkg.Status { return syncpkg.StatusIdle }
func (f *fakeEngine) Connected() bool        { return true }
func (f *fakeEngine) LastSync() *time.Time   { return nil }

func (f *fakeEngine) fullSyncCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fullSyncs
}

type fakeCounter struct {
	count int
}

func (f *fakeCounter) PendingCount() (int, error) { return f.count, nil }

func TestStartStopIdempotent(t *testing.T) {
	engine := newFakeEngine()
	s := New(engine, &fakeCounter{}, nil)

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx) // second start is a no-op
	if !s.IsRunning() {
		t.Fatal("scheduler should be running")
	}

	s.Stop()
	s.Stop() // second stop is a no-op
	if s.IsRunning() {
		t.Fatal("scheduler should be stopped")
	}
}

func TestTriggerSyncRunsCycle(t *testing.T) {
	engine := newFakeEngine()
	s := New(engine, &fakeCounter{}, &Config{
		SyncInterval: time.Hour, // tickers must not fire during the test
		PushInterval: time.Hour,
		PushBatch:    10,
	})

	s.Start(context.Background())
	defer s.Stop()

	s.TriggerSync()

	select {
	case <-engine.syncDone:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered sync never ran")
	}
	if engine.fullSyncCount() != 1 {
		t.Errorf("expected 1 full sync, got %d", engine.fullSyncCount())
	}
}

func TestPushLoopFlushesPendingEntries(t *testing.T) {
	engine := newFakeEngine()
	s := New(engine, &fakeCounter{count: 3}, &Config{
		SyncInterval: time.Hour,
		PushInterval: 20 * time.Millisecond,
		PushBatch:    10,
	})

	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		engine.mu.Lock()
		pushes := engine.pushes
		engine.mu.Unlock()
		if pushes > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("push loop never flushed pending entries")
}

func TestPushLoopSkipsWhenNothingPending(t *testing.T) {
	engine := newFakeEngine()
	s := New(engine, &fakeCounter{count: 0}, &Config{
		SyncInterval: time.Hour,
		PushInterval: 10 * time.Millisecond,
		PushBatch:    10,
	})

	s.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.pushes != 0 {
		t.Errorf("push should be skipped with empty outbox, ran %d times", engine.pushes)
	}
}

func TestSyncNowBypassesSchedule(t *testing.T) {
	engine := newFakeEngine()
	s := New(engine, &fakeCounter{}, nil)

	result, err := s.SyncNow(context.Background())
	if err != nil {
		t.Fatalf("sync now failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
	if engine.fullSyncCount() != 1 {
		t.Errorf("expected 1 full sync, got %d", engine.fullSyncCount())
	}
}

func TestStatusSnapshot(t *testing.T) {
	engine := newFakeEngine()
	s := New(engine, &fakeCounter{count: 5}, nil)

	snap := s.Status()
	if snap.Running {
		t.Error("scheduler not started yet")
	}
	if !snap.Connected {
		t.Error("expected connected from engine")
	}
	if snap.PendingCount != 5 {
		t.Errorf("expected 5 pending, got %d", snap.PendingCount)
	}
	if snap.Status != string(syncpkg.StatusIdle) {
		t.Errorf("unexpected status %q", snap.Status)
	}
}
