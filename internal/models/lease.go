package models

// Lease statuses.
const (
	LeaseActive     = "active"
	LeaseEnded      = "ended"
	LeaseTerminated = "terminated"
	LeaseRenewed    = "renewed"
)

// DateLayout is the calendar date format used across the store.
const DateLayout = "2006-01-02"

// Lease is a rental agreement between a tenant and a property.
//
// Invariant: NextAdjustmentDate = LastAdjustmentDate (or StartDate) plus
// AdjustmentFrequency months.
type Lease struct {
	ID                  int64   `db:"id" json:"id"`
	PropertyID          int64   `db:"property_id" json:"property_id"`
	TenantID            int64   `db:"tenant_id" json:"tenant_id"`
	StartDate           string  `db:"start_date" json:"start_date"`
	EndDate             string  `db:"end_date" json:"end_date"`
	MonthlyAmount       float64 `db:"monthly_amount" json:"monthly_amount"`
	Deposit             float64 `db:"deposit" json:"deposit,omitempty"`
	CommonCharges       float64 `db:"common_charges" json:"common_charges,omitempty"`
	AdjustmentType      string  `db:"adjustment_type" json:"adjustment_type"`           // inflation index name, e.g. IPC, ICL
	AdjustmentFrequency int64   `db:"adjustment_frequency" json:"adjustment_frequency"` // months
	LastAdjustmentDate  string  `db:"last_adjustment_date" json:"last_adjustment_date,omitempty"`
	NextAdjustmentDate  string  `db:"next_adjustment_date" json:"next_adjustment_date,omitempty"`
	Status              string  `db:"status" json:"status"`
	Notes               string  `db:"notes" json:"notes,omitempty"`
	CreatedAt           string  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Lease.
func (Lease) TableName() string {
	return TableLeases
}

// Fields returns the insertable columns of the lease.
func (l *Lease) Fields() Record {
	status := l.Status
	if status == "" {
		status = LeaseActive
	}
	adjType := l.AdjustmentType
	if adjType == "" {
		adjType = "IPC"
	}
	freq := l.AdjustmentFrequency
	if freq == 0 {
		freq = 4
	}
	return Record{
		"property_id":          l.PropertyID,
		"tenant_id":            l.TenantID,
		"start_date":           l.StartDate,
		"end_date":             l.EndDate,
		"monthly_amount":       l.MonthlyAmount,
		"deposit":              l.Deposit,
		"common_charges":       l.CommonCharges,
		"adjustment_type":      adjType,
		"adjustment_frequency": freq,
		"last_adjustment_date": l.LastAdjustmentDate,
		"next_adjustment_date": l.NextAdjustmentDate,
		"status":               status,
		"notes":                l.Notes,
	}
}

// LeaseFromRecord hydrates a Lease from a store record.
func LeaseFromRecord(r Record) *Lease {
	return &Lease{
		ID:                  r.Int64("id"),
		PropertyID:          r.Int64("property_id"),
		TenantID:            r.Int64("tenant_id"),
		StartDate:           r.String("start_date"),
		EndDate:             r.String("end_date"),
		MonthlyAmount:       r.Float("monthly_amount"),
		Deposit:             r.Float("deposit"),
		CommonCharges:       r.Float("common_charges"),
		AdjustmentType:      r.String("adjustment_type"),
		AdjustmentFrequency: r.Int64("adjustment_frequency"),
		LastAdjustmentDate:  r.String("last_adjustment_date"),
		NextAdjustmentDate:  r.String("next_adjustment_date"),
		Status:              r.String("status"),
		Notes:               r.String("notes"),
		CreatedAt:           r.String("created_at"),
	}
}
