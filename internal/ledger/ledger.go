// Package ledger applies rent adjustments to leases and keeps their
// immutable history.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dmoreira/rentdesk/internal/db"
	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/logging"
	"github.com/dmoreira/rentdesk/internal/models"
)

// Ledger applies rent adjustments. Each adjustment appends an immutable
// history row first and only then updates the lease, so the history can
// never show less than the lease does.
type Ledger struct {
	store *db.Store
	log   *logrus.Entry
}

// New creates a Ledger over the store.
func New(store *db.Store) *Ledger {
	return &Ledger{
		store: store,
		log:   logging.WithComponent("ledger"),
	}
}

// ApplyAdjustment raises (or lowers) a lease's monthly amount by percentage,
// effective on dateYMD, and schedules the next adjustment per the lease's
// frequency. It returns the created history row.
func (l *Ledger) ApplyAdjustment(leaseID int64, dateYMD string, percentage float64, notes string) (*models.Adjustment, error) {
	if percentage <= 0 {
		return nil, apperrors.New(apperrors.ErrValidation, "percentage must be greater than zero")
	}
	date, err := time.Parse(models.DateLayout, dateYMD)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrValidation, fmt.Sprintf("invalid adjustment date %q", dateYMD))
	}

	rec, err := l.store.GetByID(models.TableLeases, leaseID)
	if err != nil {
		return nil, err
	}
	lease := models.LeaseFromRecord(rec)
	if lease.Status != models.LeaseActive {
		return nil, apperrors.New(apperrors.ErrValidation,
			fmt.Sprintf("lease %d is %s, only active leases can be adjusted", leaseID, lease.Status))
	}

	previous := decimal.NewFromFloat(lease.MonthlyAmount)
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(percentage).Div(decimal.NewFromInt(100)))
	newAmount := previous.Mul(factor).Round(2)

	frequency := int(lease.AdjustmentFrequency)
	if frequency <= 0 {
		frequency = 4
	}
	nextDate := addMonthsClamped(date, frequency)

	adj := &models.Adjustment{
		LeaseID:        leaseID,
		AdjustmentDate: dateYMD,
		PreviousAmount: previous.InexactFloat64(),
		NewAmount:      newAmount.InexactFloat64(),
		Percentage:     percentage,
		IndexType:      lease.AdjustmentType,
		Notes:          notes,
	}

	// History first. If the append fails the lease stays untouched.
	adjID, err := l.store.Insert(models.TableAdjustments, adj.Fields())
	if err != nil {
		return nil, err
	}
	adj.ID = adjID

	err = l.store.Update(models.TableLeases, leaseID, models.Record{
		"monthly_amount":       adj.NewAmount,
		"last_adjustment_date": dateYMD,
		"next_adjustment_date": nextDate.Format(models.DateLayout),
	})
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"lease_id":   leaseID,
		"percentage": percentage,
		"previous":   adj.PreviousAmount,
		"new":        adj.NewAmount,
		"next":       nextDate.Format(models.DateLayout),
	}).Info("rent adjustment applied")
	return adj, nil
}

// History returns a lease's adjustments, newest first.
func (l *Ledger) History(leaseID int64) ([]models.Record, error) {
	if _, err := l.store.GetByID(models.TableLeases, leaseID); err != nil {
		return nil, err
	}
	return l.store.AdjustmentsForLease(leaseID)
}

// addMonthsClamped adds months keeping the day of month, clamping to the
// last day when the target month is shorter. Jan 31 plus one month is
// Feb 28 (or 29), not Mar 2.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) + months
	year += (m - 1) / 12
	m = (m-1)%12 + 1
	if m <= 0 {
		m += 12
		year--
	}
	if last := daysIn(year, time.Month(m)); day > last {
		day = last
	}
	return time.Date(year, time.Month(m), day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
