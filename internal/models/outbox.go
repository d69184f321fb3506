package models

// Outbox operations.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// OutboxEntry records one local mutation awaiting replication. Entries are
// created synchronously with the mutation and consumed by the sync engine by
// flipping Processed; they are never deleted or reordered.
type OutboxEntry struct {
	ID        int64  `db:"id" json:"id"`
	TableName string `db:"table_name" json:"table_name"`
	RecordID  int64  `db:"record_id" json:"record_id"`
	Operation string `db:"operation" json:"operation"`
	Timestamp string `db:"timestamp" json:"timestamp"`
	Processed bool   `db:"processed" json:"processed"`
}
