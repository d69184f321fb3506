// Package outbox provides the durable change log that feeds replication.
//
// Every local mutation appends one entry; the sync engine drains entries in
// FIFO order and flips the processed flag. Entries are never deleted, so the
// table doubles as a change history.
package outbox

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dmoreira/rentdesk/internal/models"
)

// timestampLayout keeps entry ordering stable at sub-second resolution.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Outbox records and serves pending change entries.
type Outbox struct {
	db *sql.DB
}

// New creates an Outbox over the given database.
func New(db *sql.DB) *Outbox {
	return &Outbox{db: db}
}

// Record appends an unprocessed entry describing one mutation.
func (o *Outbox) Record(table string, recordID int64, operation string) error {
	switch operation {
	case models.OpInsert, models.OpUpdate, models.OpDelete:
	default:
		return fmt.Errorf("unknown outbox operation %q", operation)
	}

	_, err := o.db.Exec(`
		INSERT INTO sync_outbox (table_name, record_id, operation, timestamp, processed)
		VALUES (?, ?, ?, ?, 0)`,
		table, recordID, operation, time.Now().UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("failed to record outbox entry: %w", err)
	}
	return nil
}

// Pending returns up to limit unprocessed entries, oldest first; limit <= 0
// means all of them. The order guarantees replication matches mutation order
// per table and record.
func (o *Outbox) Pending(limit int) ([]models.OutboxEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: LIMIT -1 disables the limit
	}
	rows, err := o.db.Query(`
		SELECT id, table_name, record_id, operation, timestamp, processed
		FROM sync_outbox
		WHERE processed = 0
		ORDER BY timestamp ASC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending entries: %w", err)
	}
	defer rows.Close()

	var entries []models.OutboxEntry
	for rows.Next() {
		var e models.OutboxEntry
		var processed int64
		if err := rows.Scan(&e.ID, &e.TableName, &e.RecordID, &e.Operation, &e.Timestamp, &processed); err != nil {
			return nil, fmt.Errorf("failed to scan outbox entry: %w", err)
		}
		e.Processed = processed != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkProcessed sets the processed flag on an entry. Idempotent: marking an
// already processed or unknown entry is not an error.
func (o *Outbox) MarkProcessed(entryID int64) error {
	_, err := o.db.Exec(`UPDATE sync_outbox SET processed = 1 WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("failed to mark outbox entry %d processed: %w", entryID, err)
	}
	return nil
}

// PendingCount returns the number of unprocessed entries.
func (o *Outbox) PendingCount() (int, error) {
	var n int
	err := o.db.QueryRow(`SELECT COUNT(*) FROM sync_outbox WHERE processed = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending entries: %w", err)
	}
	return n, nil
}

// HasPending reports whether a record still has unprocessed entries. The
// sync engine consults this before letting a pull overwrite local state.
func (o *Outbox) HasPending(table string, recordID int64) (bool, error) {
	var n int
	err := o.db.QueryRow(`
		SELECT COUNT(*) FROM sync_outbox
		WHERE processed = 0 AND table_name = ? AND record_id = ?`,
		table, recordID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check pending entries: %w", err)
	}
	return n > 0, nil
}
