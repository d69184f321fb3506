package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dmoreira/rentdesk/internal/db"
	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/logging"
	"github.com/dmoreira/rentdesk/internal/models"
)

// Status represents the current engine state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusFailed  Status = "failed"
)

// PushResult summarizes a push cycle.
type PushResult struct {
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	FailedIDs []int64 `json:"failed_ids,omitempty"`
}

// SyncResult summarizes a full sync cycle.
type SyncResult struct {
	Push    *PushResult    `json:"push"`
	Pulled  map[string]int `json:"pulled"`
	Started time.Time      `json:"started"`
	Elapsed time.Duration  `json:"elapsed"`
}

// Engine pushes outbox entries to the remote and pulls remote tables back.
// Only one sync cycle runs at a time; concurrent callers get
// ErrSyncInProgress.
type Engine struct {
	store  *db.Store
	remote Remote
	log    *logrus.Entry

	mu        sync.Mutex
	status    Status
	connected bool
	lastSync  *time.Time
	lastErr   error
}

// NewEngine creates an Engine over the store and remote endpoint.
func NewEngine(store *db.Store, remote Remote) *Engine {
	return &Engine{
		store:  store,
		remote: remote,
		log:    logging.WithComponent("sync"),
		status: StatusIdle,
	}
}

// Status returns the current engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Connected reports the result of the last connection probe.
func (e *Engine) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}

// LastSync returns the completion time of the last successful full sync.
func (e *Engine) LastSync() *time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSync
}

// LastError returns the error that ended the last failed cycle.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// TestConnection probes the remote and records the result. The probe runs
// fresh every cycle; a past success is never trusted.
func (e *Engine) TestConnection(ctx context.Context) bool {
	err := e.remote.Ping(ctx)

	e.mu.Lock()
	e.connected = err == nil
	e.mu.Unlock()

	if err != nil {
		e.log.WithError(err).Warn("remote connection probe failed")
		return false
	}
	return true
}

// PushPending replicates up to maxBatch pending outbox entries, oldest
// first. A failed entry is skipped and left pending; later entries still
// run. maxBatch <= 0 means no limit.
func (e *Engine) PushPending(ctx context.Context, maxBatch int) (*PushResult, error) {
	if !e.TestConnection(ctx) {
		return nil, apperrors.New(apperrors.ErrSyncDisconnected, "remote is unreachable")
	}

	entries, err := e.store.Outbox().Pending(maxBatch)
	if err != nil {
		return nil, err
	}

	result := &PushResult{}
	batch := uuid.NewString()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := e.pushEntry(ctx, entry); err != nil {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, entry.ID)
			e.log.WithFields(logrus.Fields{
				"batch":     batch,
				"outbox_id": entry.ID,
				"table":     entry.TableName,
				"record_id": entry.RecordID,
				"operation": entry.Operation,
			}).WithError(err).Warn("push failed, entry stays pending")
			continue
		}
		if err := e.store.Outbox().MarkProcessed(entry.ID); err != nil {
			return result, err
		}
		result.Succeeded++
	}

	if len(entries) > 0 {
		e.log.WithFields(logrus.Fields{
			"batch":     batch,
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
		}).Info("push cycle done")
	}
	return result, nil
}

// pushEntry replicates a single outbox entry. An insert or update whose row
// has since been deleted locally is treated as done; the delete entry behind
// it carries the truth.
func (e *Engine) pushEntry(ctx context.Context, entry models.OutboxEntry) error {
	if entry.Operation == models.OpDelete {
		return e.remote.DeleteByID(ctx, entry.TableName, entry.RecordID)
	}

	rec, err := e.store.GetByID(entry.TableName, entry.RecordID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return e.remote.Upsert(ctx, entry.TableName, models.StripLocalOnly(rec))
}

// PullTable downloads a remote table and upserts its rows locally, returning
// how many rows were applied. Remote rows win, except rows with a pending
// outbox entry: those carry unpushed local changes and are skipped so the
// pull cannot silently undo them.
func (e *Engine) PullTable(ctx context.Context, table string) (int, error) {
	if !models.Pulled(table) {
		return 0, apperrors.New(apperrors.ErrBadTable, fmt.Sprintf("table %q is not pulled", table))
	}

	rows, err := e.remote.Select(ctx, table)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrRemote, fmt.Sprintf("failed to pull %s", table), err)
	}

	applied := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		id := row.Int64("id")
		pending, err := e.store.Outbox().HasPending(table, id)
		if err != nil {
			return applied, err
		}
		if pending {
			e.log.WithFields(logrus.Fields{
				"table":     table,
				"record_id": id,
			}).Debug("skipping pull, local changes pending")
			continue
		}
		rec := row.Clone()
		rec["modified"] = 0
		rec["last_sync_at"] = time.Now().UTC().Format(time.RFC3339)
		if err := e.store.ApplyRemote(table, rec); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// FullSync runs one complete cycle: connection probe, push of all pending
// entries, then a pull of every replicated table in dependency order so
// parent rows land before their children.
func (e *Engine) FullSync(ctx context.Context) (*SyncResult, error) {
	e.mu.Lock()
	if e.status == StatusSyncing {
		e.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrSyncInProgress, "sync already running")
	}
	e.status = StatusSyncing
	e.mu.Unlock()

	started := time.Now()
	result, err := e.fullSync(ctx, started)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = err
	if err != nil {
		e.status = StatusFailed
		return result, err
	}
	e.status = StatusIdle
	now := time.Now()
	e.lastSync = &now
	return result, nil
}

func (e *Engine) fullSync(ctx context.Context, started time.Time) (*SyncResult, error) {
	if !e.TestConnection(ctx) {
		return nil, apperrors.New(apperrors.ErrSyncDisconnected, "remote is unreachable")
	}

	push, err := e.PushPending(ctx, 0)
	if err != nil {
		return nil, err
	}

	// A pull failure on one table does not abort the rest; the cycle ends
	// mixed and reports it rather than rolling anything back.
	pulled := make(map[string]int, len(models.SyncTables))
	var pullErrs []error
	for _, table := range models.SyncTables {
		if err := ctx.Err(); err != nil {
			pullErrs = append(pullErrs, err)
			break
		}
		n, err := e.PullTable(ctx, table)
		pulled[table] = n
		if err != nil {
			pullErrs = append(pullErrs, err)
			e.log.WithField("table", table).WithError(err).Warn("pull failed, continuing with next table")
		}
	}

	result := &SyncResult{
		Push:    push,
		Pulled:  pulled,
		Started: started,
		Elapsed: time.Since(started),
	}
	if len(pullErrs) > 0 {
		return result, apperrors.Wrap(apperrors.ErrRemote,
			fmt.Sprintf("%d of %d tables failed to pull", len(pullErrs), len(models.SyncTables)),
			errors.Join(pullErrs...))
	}
	e.log.WithFields(logrus.Fields{
		"pushed":  push.Succeeded,
		"failed":  push.Failed,
		"pulled":  pulled,
		"elapsed": result.Elapsed.String(),
	}).Info("full sync done")
	return result, nil
}
