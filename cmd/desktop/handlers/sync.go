package handlers

import (
	"net/http"
	"time"

	"github.com/dmoreira/rentdesk/internal/sync"
	"github.com/dmoreira/rentdesk/internal/sync/scheduler"
)

// SyncBroadcaster pushes sync lifecycle events to connected UI clients.
type SyncBroadcaster interface {
	BroadcastSyncStarted()
	BroadcastSyncCompleted(pushed int, pulled map[string]int, elapsed time.Duration)
	BroadcastSyncFailed(errMsg string)
}

// SyncHandler exposes sync status and manual sync control.
type SyncHandler struct {
	engine    *sync.Engine
	scheduler *scheduler.Scheduler
	hub       SyncBroadcaster
}

// NewSyncHandler creates the handler for /sync.
func NewSyncHandler(engine *sync.Engine, sched *scheduler.Scheduler) *SyncHandler {
	return &SyncHandler{engine: engine, scheduler: sched}
}

// SetBroadcaster wires the WebSocket hub for sync events.
func (h *SyncHandler) SetBroadcaster(hub SyncBroadcaster) {
	h.hub = hub
}

// Status handles GET /sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.Status())
}

// Test handles POST /sync/test: a one-off connection probe.
func (h *SyncHandler) Test(w http.ResponseWriter, r *http.Request) {
	ok := h.engine.TestConnection(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"connected": ok})
}

// Push handles POST /sync/push: flush pending outbox entries now.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.PushPending(r.Context(), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Run handles POST /sync/run: a full synchronous sync cycle.
func (h *SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.hub != nil {
		h.hub.BroadcastSyncStarted()
	}
	result, err := h.scheduler.SyncNow(r.Context())
	if err != nil {
		if h.hub != nil {
			h.hub.BroadcastSyncFailed(err.Error())
		}
		writeError(w, err)
		return
	}
	if h.hub != nil {
		h.hub.BroadcastSyncCompleted(result.Push.Succeeded, result.Pulled, result.Elapsed)
	}
	writeJSON(w, http.StatusOK, result)
}

// Trigger handles POST /sync/trigger: ask the background scheduler for a
// cycle without waiting for it.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	h.scheduler.TriggerSync()
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"triggered": true})
}
