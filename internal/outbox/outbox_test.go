package outbox_test

import (
	"testing"

	"github.com/dmoreira/rentdesk/internal/db"
	"github.com/dmoreira/rentdesk/internal/models"
	"github.com/dmoreira/rentdesk/internal/outbox"
)

func newTestOutbox(t *testing.T) *outbox.Outbox {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return outbox.New(database.DB)
}

func TestRecordAndPendingOrder(t *testing.T) {
	ob := newTestOutbox(t)

	if err := ob.Record(models.TableOwners, 1, models.OpInsert); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := ob.Record(models.TableOwners, 1, models.OpUpdate); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := ob.Record(models.TableTenants, 7, models.OpDelete); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	entries, err := ob.Pending(0)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 pending entries, got %d", len(entries))
	}
	// Oldest first
	if entries[0].Operation != models.OpInsert || entries[1].Operation != models.OpUpdate ||
		entries[2].Operation != models.OpDelete {
		t.Errorf("entries out of order: %+v", entries)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].ID <= entries[i-1].ID {
			t.Errorf("ids not ascending: %d then %d", entries[i-1].ID, entries[i].ID)
		}
	}
}

func TestRecordRejectsUnknownOperation(t *testing.T) {
	ob := newTestOutbox(t)
	if err := ob.Record(models.TableOwners, 1, "UPSERT"); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestMarkProcessedIsIdempotent(t *testing.T) {
	ob := newTestOutbox(t)
	if err := ob.Record(models.TableOwners, 1, models.OpInsert); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	entries, _ := ob.Pending(0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	for i := 0; i < 3; i++ {
		if err := ob.MarkProcessed(entries[0].ID); err != nil {
			t.Fatalf("mark processed attempt %d failed: %v", i, err)
		}
	}

	remaining, _ := ob.Pending(0)
	if len(remaining) != 0 {
		t.Errorf("expected no pending entries, got %d", len(remaining))
	}
	// Processed rows stay in the table.
	count, err := ob.PendingCount()
	if err != nil {
		t.Fatalf("pending count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected pending count 0, got %d", count)
	}
}

func TestPendingLimit(t *testing.T) {
	ob := newTestOutbox(t)
	for i := int64(1); i <= 5; i++ {
		if err := ob.Record(models.TableOwners, i, models.OpInsert); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	entries, err := ob.Pending(2)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries with limit, got %d", len(entries))
	}
	if entries[0].RecordID != 1 || entries[1].RecordID != 2 {
		t.Errorf("limit did not keep oldest entries: %+v", entries)
	}
}

func TestHasPending(t *testing.T) {
	ob := newTestOutbox(t)
	if err := ob.Record(models.TableLeases, 3, models.OpUpdate); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	pending, err := ob.HasPending(models.TableLeases, 3)
	if err != nil {
		t.Fatalf("has pending failed: %v", err)
	}
	if !pending {
		t.Error("expected pending entry for leases/3")
	}

	pending, _ = ob.HasPending(models.TableLeases, 4)
	if pending {
		t.Error("did not expect pending entry for leases/4")
	}

	entries, _ := ob.Pending(0)
	if err := ob.MarkProcessed(entries[0].ID); err != nil {
		t.Fatalf("mark processed failed: %v", err)
	}
	pending, _ = ob.HasPending(models.TableLeases, 3)
	if pending {
		t.Error("processed entry should not count as pending")
	}
}
