package balance

import (
	"math"
	"testing"
	"time"

	"github.com/dmoreira/rentdesk/internal/db"
	"github.com/dmoreira/rentdesk/internal/models"
	"github.com/dmoreira/rentdesk/internal/outbox"
)

func newTestCalculator(t *testing.T) (*Calculator, *db.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	store := db.NewStore(database, outbox.New(database.DB))
	calc := New(store)
	calc.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return calc, store
}

func insertLease(t *testing.T, store *db.Store, startDate string, monthly float64) int64 {
	t.Helper()
	ownerID, err := store.Insert(models.TableOwners, models.Record{
		"first_name": "Ana", "last_name": "Gomez", "tax_id": "20123456786",
		"phone": "1", "address": "a",
	})
	if err != nil {
		t.Fatalf("insert owner failed: %v", err)
	}
	tenantID, err := store.Insert(models.TableTenants, models.Record{
		"first_name": "Juan", "last_name": "Perez", "tax_id": "27000000006",
		"phone": "2", "address": "b",
	})
	if err != nil {
		t.Fatalf("insert tenant failed: %v", err)
	}
	propertyID, err := store.Insert(models.TableProperties, models.Record{
		"owner_id": ownerID, "type": "apartment", "address": "Av. Mitre 100",
		"city": "Posadas", "province": "Misiones",
	})
	if err != nil {
		t.Fatalf("insert property failed: %v", err)
	}
	lease := &models.Lease{
		PropertyID:    propertyID,
		TenantID:      tenantID,
		StartDate:     startDate,
		EndDate:       "2026-01-01",
		MonthlyAmount: monthly,
	}
	id, err := store.Insert(models.TableLeases, lease.Fields())
	if err != nil {
		t.Fatalf("insert lease failed: %v", err)
	}
	return id
}

func insertPayment(t *testing.T, store *db.Store, leaseID int64, total float64) {
	t.Helper()
	payment := &models.Payment{
		LeaseID:     leaseID,
		PaymentDate: "2024-02-01",
		PeriodMonth: 2,
		PeriodYear:  2024,
		RentAmount:  total,
		Total:       total,
	}
	if _, err := store.Insert(models.TablePayments, payment.Fields()); err != nil {
		t.Fatalf("insert payment failed: %v", err)
	}
}

func TestFirstMonthOwedFromDayOne(t *testing.T) {
	calc, store := newTestCalculator(t)
	// Lease started 10 days before the fixed clock.
	leaseID := insertLease(t, store, "2024-02-20", 1000)

	st, err := calc.ComputeLease(leaseID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if st.MonthsElapsed != 1 {
		t.Errorf("expected 1 month elapsed, got %d", st.MonthsElapsed)
	}
	if st.Expected != 1000 {
		t.Errorf("expected 1000 owed, got %v", st.Expected)
	}
}

func TestExactlyOneMonthBehindIsCurrent(t *testing.T) {
	calc, store := newTestCalculator(t)
	// 45 days elapsed: one full 30-day block, nothing paid.
	leaseID := insertLease(t, store, "2024-01-16", 1000)

	st, err := calc.ComputeLease(leaseID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if st.MonthsElapsed != 1 {
		t.Errorf("expected 1 month elapsed, got %d", st.MonthsElapsed)
	}
	if st.Balance != -1000 {
		t.Errorf("expected balance -1000, got %v", st.Balance)
	}
	// Owing exactly one month is the boundary, still current.
	if st.Status != StatusCurrent {
		t.Errorf("expected current, got %s", st.Status)
	}
}

func TestMoreThanOneMonthBehindIsDebt(t *testing.T) {
	calc, store := newTestCalculator(t)
	// 61 days elapsed: two 30-day blocks owed, nothing paid.
	leaseID := insertLease(t, store, "2023-12-31", 1000)

	st, err := calc.ComputeLease(leaseID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if st.MonthsElapsed != 2 {
		t.Errorf("expected 2 months elapsed, got %d", st.MonthsElapsed)
	}
	if st.Status != StatusDebt {
		t.Errorf("expected debt, got %s", st.Status)
	}
}

func TestSurplusAboveTenPercentIsCredit(t *testing.T) {
	calc, store := newTestCalculator(t)
	leaseID := insertLease(t, store, "2024-02-20", 1000)
	insertPayment(t, store, leaseID, 1000)
	insertPayment(t, store, leaseID, 200)

	st, err := calc.ComputeLease(leaseID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if math.Abs(st.Balance-200) > 0.001 {
		t.Errorf("expected balance 200, got %v", st.Balance)
	}
	if st.Status != StatusCredit {
		t.Errorf("expected credit, got %s", st.Status)
	}
}

func TestSmallSurplusIsStillCurrent(t *testing.T) {
	calc, store := newTestCalculator(t)
	leaseID := insertLease(t, store, "2024-02-20", 1000)
	insertPayment(t, store, leaseID, 1000)
	insertPayment(t, store, leaseID, 100)

	st, err := calc.ComputeLease(leaseID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	// A surplus of exactly 10% does not cross the credit threshold.
	if st.Status != StatusCurrent {
		t.Errorf("expected current at the 10%% boundary, got %s", st.Status)
	}
}

func TestPaidInFullIsCurrent(t *testing.T) {
	calc, store := newTestCalculator(t)
	leaseID := insertLease(t, store, "2023-12-31", 1000)
	insertPayment(t, store, leaseID, 1000)
	insertPayment(t, store, leaseID, 1000)

	st, err := calc.ComputeLease(leaseID)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if st.Balance != 0 {
		t.Errorf("expected zero balance, got %v", st.Balance)
	}
	if st.Status != StatusCurrent {
		t.Errorf("expected current, got %s", st.Status)
	}
}

func TestComputeActiveEnrichesNames(t *testing.T) {
	calc, store := newTestCalculator(t)
	insertLease(t, store, "2024-02-20", 1000)

	statements, err := calc.ComputeActive()
	if err != nil {
		t.Fatalf("compute active failed: %v", err)
	}
	if len(statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(statements))
	}
	st := statements[0]
	if st.TenantName != "Juan Perez" {
		t.Errorf("tenant name: %q", st.TenantName)
	}
	if st.PropertyAddress != "Av. Mitre 100" {
		t.Errorf("property address: %q", st.PropertyAddress)
	}
}
