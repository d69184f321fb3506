package db

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/logging"
	"github.com/dmoreira/rentdesk/internal/models"
	"github.com/dmoreira/rentdesk/internal/outbox"
)

// Store provides generic row access over the fixed table set. Every
// insert/update/delete also records one outbox entry for replication.
//
// The outbox write happens after the mutation commits; there is no atomicity
// between the two. A failed outbox write is logged and the mutation stands;
// the row simply misses one replication cycle until it is touched again.
type Store struct {
	db     *sql.DB
	outbox *outbox.Outbox
	log    *logrus.Entry
}

// NewStore creates a Store over an initialized database.
func NewStore(database *DB, ob *outbox.Outbox) *Store {
	return &Store{
		db:     database.DB,
		outbox: ob,
		log:    logging.WithComponent("store"),
	}
}

// Outbox exposes the change outbox backing this store.
func (s *Store) Outbox() *outbox.Outbox {
	return s.outbox
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkTable(table string) error {
	if !models.KnownTable(table) {
		return apperrors.New(apperrors.ErrBadTable, fmt.Sprintf("unknown table %q", table))
	}
	return nil
}

func checkColumns(fields models.Record) ([]string, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !identPattern.MatchString(col) {
			return nil, apperrors.New(apperrors.ErrValidation, fmt.Sprintf("invalid column name %q", col))
		}
		cols = append(cols, col)
	}
	// Deterministic statement text keeps the SQLite prepared-statement
	// cache effective.
	sort.Strings(cols)
	return cols, nil
}

// Insert creates a row and returns its assigned id.
func (s *Store) Insert(table string, fields models.Record) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	cols, err := checkColumns(fields)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, apperrors.New(apperrors.ErrValidation, "insert with no columns")
	}

	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		args = append(args, fields[col])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, storeError(table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStore, "failed to read inserted id", err)
	}

	s.recordChange(table, id, models.OpInsert)
	return id, nil
}

// Update modifies a row by id and flags it as locally modified.
func (s *Store) Update(table string, id int64, fields models.Record) error {
	if err := checkTable(table); err != nil {
		return err
	}
	updated := fields.Clone()
	if models.Replicated(table) {
		updated["modified"] = 1
	}
	cols, err := checkColumns(updated)
	if err != nil {
		return err
	}

	sets := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for _, col := range cols {
		sets = append(sets, col+" = ?")
		args = append(args, updated[col])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return storeError(table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("%s id %d not found", table, id))
	}

	s.recordChange(table, id, models.OpUpdate)
	return nil
}

// Delete removes a row by id.
func (s *Store) Delete(table string, id int64) error {
	if err := checkTable(table); err != nil {
		return err
	}
	res, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return storeError(table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("%s id %d not found", table, id))
	}

	s.recordChange(table, id, models.OpDelete)
	return nil
}

// GetByID returns a row by primary key.
func (s *Store) GetByID(table string, id int64) (models.Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.Query(fmt.Sprintf("SELECT * FROM %s WHERE id = ?", table), id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("%s id %d not found", table, id))
	}
	return rows[0], nil
}

// GetAll returns every row of a table, newest first.
func (s *Store) GetAll(table string) ([]models.Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	return s.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY id DESC", table))
}

// Search returns rows whose column contains needle.
func (s *Store) Search(table, column, needle string) ([]models.Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if !identPattern.MatchString(column) {
		return nil, apperrors.New(apperrors.ErrValidation, fmt.Sprintf("invalid column name %q", column))
	}
	return s.Query(
		fmt.Sprintf("SELECT * FROM %s WHERE %s LIKE ?", table, column),
		"%"+needle+"%")
}

// Query runs an arbitrary SELECT and returns generic records.
func (s *Store) Query(query string, args ...interface{}) ([]models.Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, "query failed", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, "failed to read columns", err)
	}

	var out []models.Record
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStore, "failed to scan row", err)
		}
		rec := make(models.Record, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = values[i]
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ApplyRemote upserts a row pulled from the remote, keyed by its remote id.
// No outbox entry is recorded: a pull is replication, not a local mutation,
// and echoing it back would ping-pong rows between the stores.
func (s *Store) ApplyRemote(table string, rec models.Record) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if !rec.Has("id") {
		return apperrors.New(apperrors.ErrValidation, "remote row without id")
	}
	cols, err := checkColumns(rec)
	if err != nil {
		return err
	}

	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		args = append(args, rec[col])
	}
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))
	if _, err := s.db.Exec(query, args...); err != nil {
		return storeError(table, err)
	}
	return nil
}

// recordChange appends the outbox entry for a mutation. Failures are logged
// and swallowed so a full outbox problem never blocks local CRUD.
func (s *Store) recordChange(table string, id int64, operation string) {
	if !models.Replicated(table) {
		return
	}
	if err := s.outbox.Record(table, id, operation); err != nil {
		s.log.WithFields(logrus.Fields{
			"table":     table,
			"record_id": id,
			"operation": operation,
		}).WithError(err).Error("failed to record outbox entry")
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func storeError(table string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return apperrors.Wrap(apperrors.ErrDuplicate, fmt.Sprintf("duplicate value in %s", table), err)
	}
	if strings.Contains(msg, "constraint failed") {
		return apperrors.Wrap(apperrors.ErrConstraint, fmt.Sprintf("constraint violation in %s", table), err)
	}
	return apperrors.Wrap(apperrors.ErrStore, fmt.Sprintf("store operation on %s failed", table), err)
}
