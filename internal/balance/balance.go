// Package balance computes per-lease rent balances from payment history.
package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmoreira/rentdesk/internal/db"
	"github.com/dmoreira/rentdesk/internal/models"
)

// Balance classifications.
const (
	StatusCredit  = "credit"
	StatusCurrent = "current"
	StatusDebt    = "debt"
)

// Statement is one lease's computed balance.
type Statement struct {
	LeaseID         int64   `json:"lease_id"`
	TenantName      string  `json:"tenant_name,omitempty"`
	PropertyAddress string  `json:"property_address,omitempty"`
	MonthlyAmount   float64 `json:"monthly_amount"`
	MonthsElapsed   int64   `json:"months_elapsed"`
	Expected        float64 `json:"expected"`
	Paid            float64 `json:"paid"`
	Balance         float64 `json:"balance"`
	Status          string  `json:"status"`
}

// Calculator derives balances from the store.
type Calculator struct {
	store *db.Store
	now   func() time.Time
}

// New creates a Calculator. The clock is injectable for tests.
func New(store *db.Store) *Calculator {
	return &Calculator{store: store, now: time.Now}
}

// ComputeLease computes the balance of a single lease.
func (c *Calculator) ComputeLease(leaseID int64) (*Statement, error) {
	rec, err := c.store.GetByID(models.TableLeases, leaseID)
	if err != nil {
		return nil, err
	}
	payments, err := c.store.PaymentsForLease(leaseID)
	if err != nil {
		return nil, err
	}
	return c.build(rec, payments), nil
}

// ComputeActive computes balances for every active lease, enriched with
// tenant and property names for listing.
func (c *Calculator) ComputeActive() ([]*Statement, error) {
	leases, err := c.store.ActiveLeases()
	if err != nil {
		return nil, err
	}
	out := make([]*Statement, 0, len(leases))
	for _, rec := range leases {
		payments, err := c.store.PaymentsForLease(rec.Int64("id"))
		if err != nil {
			return nil, err
		}
		st := c.build(rec, payments)
		st.TenantName = rec.String("tenant_name")
		st.PropertyAddress = rec.String("property_address")
		out = append(out, st)
	}
	return out, nil
}

// build derives the statement. Months elapsed are counted as whole 30-day
// blocks since the lease start, never less than one, so the first month's
// rent is owed from day one.
func (c *Calculator) build(lease models.Record, payments []models.Record) *Statement {
	monthly := decimal.NewFromFloat(lease.Float("monthly_amount"))

	months := int64(1)
	if start, err := time.Parse(models.DateLayout, lease.String("start_date")); err == nil {
		days := int64(c.now().Sub(start).Hours() / 24)
		if m := days / 30; m > months {
			months = m
		}
	}

	expected := monthly.Mul(decimal.NewFromInt(months))
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(decimal.NewFromFloat(p.Float("total")))
	}
	balance := paid.Sub(expected)

	return &Statement{
		LeaseID:       lease.Int64("id"),
		MonthlyAmount: monthly.InexactFloat64(),
		MonthsElapsed: months,
		Expected:      expected.InexactFloat64(),
		Paid:          paid.InexactFloat64(),
		Balance:       balance.InexactFloat64(),
		Status:        classify(balance, monthly),
	}
}

// classify buckets a balance against the monthly amount. Credit needs more
// than a 10% surplus; debt needs strictly more than one month owed. A
// balance of exactly minus one month is still current.
func classify(balance, monthly decimal.Decimal) string {
	creditFloor := monthly.Mul(decimal.NewFromFloat(0.10))
	debtCeil := monthly.Neg()
	switch {
	case balance.GreaterThan(creditFloor):
		return StatusCredit
	case balance.LessThan(debtCeil):
		return StatusDebt
	default:
		return StatusCurrent
	}
}
