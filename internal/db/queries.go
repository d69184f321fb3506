package db

import (
	"fmt"
	"time"

	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/models"
)

// Domain queries that cut across tables. These are read paths and never
// touch the outbox.

// ActiveLeases returns active leases joined with property and tenant data,
// for listing screens.
func (s *Store) ActiveLeases() ([]models.Record, error) {
	return s.Query(`
		SELECT l.*,
			p.address AS property_address,
			t.first_name || ' ' || t.last_name AS tenant_name
		FROM leases l
		LEFT JOIN properties p ON l.property_id = p.id
		LEFT JOIN tenants t ON l.tenant_id = t.id
		WHERE l.status = ?
		ORDER BY l.end_date ASC`, models.LeaseActive)
}

// LeasesExpiringWithin returns active leases whose end date falls inside the
// next `days` days.
func (s *Store) LeasesExpiringWithin(days int) ([]models.Record, error) {
	today := time.Now().Format(models.DateLayout)
	limit := time.Now().AddDate(0, 0, days).Format(models.DateLayout)
	return s.Query(`
		SELECT l.*,
			p.address AS property_address,
			t.first_name || ' ' || t.last_name AS tenant_name,
			t.phone AS tenant_phone
		FROM leases l
		LEFT JOIN properties p ON l.property_id = p.id
		LEFT JOIN tenants t ON l.tenant_id = t.id
		WHERE l.status = ? AND l.end_date BETWEEN ? AND ?
		ORDER BY l.end_date ASC`, models.LeaseActive, today, limit)
}

// LeasesDueForAdjustment returns active leases whose next adjustment date has
// already passed.
func (s *Store) LeasesDueForAdjustment() ([]models.Record, error) {
	today := time.Now().Format(models.DateLayout)
	return s.Query(`
		SELECT l.*,
			p.address AS property_address,
			t.first_name || ' ' || t.last_name AS tenant_name
		FROM leases l
		LEFT JOIN properties p ON l.property_id = p.id
		LEFT JOIN tenants t ON l.tenant_id = t.id
		WHERE l.status = ? AND l.next_adjustment_date IS NOT NULL
			AND l.next_adjustment_date <= ?
		ORDER BY l.next_adjustment_date ASC`, models.LeaseActive, today)
}

// AvailableProperties returns properties not currently rented or sold,
// joined with their owner's name.
func (s *Store) AvailableProperties() ([]models.Record, error) {
	return s.Query(`
		SELECT p.*,
			o.first_name || ' ' || o.last_name AS owner_name
		FROM properties p
		LEFT JOIN owners o ON p.owner_id = o.id
		WHERE p.status = ?
		ORDER BY p.id DESC`, models.PropertyAvailable)
}

// PaymentsForLease returns a lease's payments, newest period first.
func (s *Store) PaymentsForLease(leaseID int64) ([]models.Record, error) {
	return s.Query(`
		SELECT * FROM payments
		WHERE lease_id = ?
		ORDER BY period_year DESC, period_month DESC, payment_date DESC`, leaseID)
}

// AdjustmentsForLease returns a lease's adjustment history, newest first.
func (s *Store) AdjustmentsForLease(leaseID int64) ([]models.Record, error) {
	return s.Query(`
		SELECT * FROM adjustments
		WHERE lease_id = ?
		ORDER BY adjustment_date DESC, id DESC`, leaseID)
}

// TaxIDExists reports whether another row of the table already carries the
// tax id. excludeID skips the row being edited; pass 0 on create.
func (s *Store) TaxIDExists(table, taxID string, excludeID int64) (bool, error) {
	if table != models.TableOwners && table != models.TableTenants {
		return false, apperrors.New(apperrors.ErrBadTable, fmt.Sprintf("table %q has no tax id", table))
	}
	rows, err := s.Query(
		fmt.Sprintf("SELECT id FROM %s WHERE tax_id = ? AND id != ?", table),
		taxID, excludeID)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// ReceiptData gathers everything a payment receipt needs: the payment, its
// lease, the tenant, the property and the property's owner.
func (s *Store) ReceiptData(paymentID int64) (models.Record, error) {
	rows, err := s.Query(`
		SELECT pay.*,
			l.start_date AS lease_start, l.end_date AS lease_end,
			l.monthly_amount AS lease_monthly_amount,
			t.first_name || ' ' || t.last_name AS tenant_name,
			t.tax_id AS tenant_tax_id,
			t.address AS tenant_address,
			p.address AS property_address,
			p.city AS property_city,
			o.first_name || ' ' || o.last_name AS owner_name,
			o.tax_id AS owner_tax_id
		FROM payments pay
		JOIN leases l ON pay.lease_id = l.id
		LEFT JOIN tenants t ON l.tenant_id = t.id
		LEFT JOIN properties p ON l.property_id = p.id
		LEFT JOIN owners o ON p.owner_id = o.id
		WHERE pay.id = ?`, paymentID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("payment id %d not found", paymentID))
	}
	return rows[0], nil
}

// DashboardStats returns the counters the main screen shows.
func (s *Store) DashboardStats() (models.Record, error) {
	stats := models.Record{}
	counts := []struct {
		key   string
		query string
		args  []interface{}
	}{
		{"owners", "SELECT COUNT(*) AS n FROM owners", nil},
		{"tenants", "SELECT COUNT(*) AS n FROM tenants", nil},
		{"properties", "SELECT COUNT(*) AS n FROM properties", nil},
		{"available_properties", "SELECT COUNT(*) AS n FROM properties WHERE status = ?",
			[]interface{}{models.PropertyAvailable}},
		{"rented_properties", "SELECT COUNT(*) AS n FROM properties WHERE status = ?",
			[]interface{}{models.PropertyRented}},
		{"active_leases", "SELECT COUNT(*) AS n FROM leases WHERE status = ?",
			[]interface{}{models.LeaseActive}},
		{"payments_this_month", "SELECT COUNT(*) AS n FROM payments WHERE period_month = ? AND period_year = ?",
			[]interface{}{int(time.Now().Month()), time.Now().Year()}},
	}
	for _, c := range counts {
		rows, err := s.Query(c.query, c.args...)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			stats[c.key] = rows[0].Int64("n")
		}
	}

	rows, err := s.Query(
		"SELECT COALESCE(SUM(total), 0) AS income FROM payments WHERE period_month = ? AND period_year = ?",
		int(time.Now().Month()), time.Now().Year())
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		stats["income_this_month"] = rows[0].Float("income")
	}

	if total := stats.Int64("properties"); total > 0 {
		stats["occupancy_pct"] = float64(stats.Int64("rented_properties")) * 100 / float64(total)
	} else {
		stats["occupancy_pct"] = 0.0
	}
	return stats, nil
}

// GetConfig reads an app_config value; returns fallback when unset.
func (s *Store) GetConfig(key, fallback string) (string, error) {
	rows, err := s.Query("SELECT value FROM app_config WHERE key = ?", key)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return fallback, nil
	}
	return rows[0].String("value"), nil
}

// SetConfig upserts an app_config value. Config is device-local and not
// replicated.
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO app_config (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStore, "failed to write config", err)
	}
	return nil
}

// UserByUsername looks up an app user for authentication.
func (s *Store) UserByUsername(username string) (models.Record, error) {
	rows, err := s.Query("SELECT * FROM app_users WHERE username = ?", username)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("user %q not found", username))
	}
	return rows[0], nil
}
