package models

// Adjustment is an immutable historical record of one rent increase. Rows
// are only ever appended by the adjustment ledger; there is no update or
// delete path.
//
// Invariant: NewAmount = PreviousAmount * (1 + Percentage/100).
type Adjustment struct {
	ID             int64   `db:"id" json:"id"`
	LeaseID        int64   `db:"lease_id" json:"lease_id"`
	AdjustmentDate string  `db:"adjustment_date" json:"adjustment_date"`
	PreviousAmount float64 `db:"previous_amount" json:"previous_amount"`
	NewAmount      float64 `db:"new_amount" json:"new_amount"`
	Percentage     float64 `db:"percentage" json:"percentage"`
	IndexType      string  `db:"index_type" json:"index_type"`
	IndexValue     float64 `db:"index_value" json:"index_value,omitempty"`
	Notes          string  `db:"notes" json:"notes,omitempty"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Adjustment.
func (Adjustment) TableName() string {
	return TableAdjustments
}

// Fields returns the insertable columns of the adjustment.
func (a *Adjustment) Fields() Record {
	return Record{
		"lease_id":        a.LeaseID,
		"adjustment_date": a.AdjustmentDate,
		"previous_amount": a.PreviousAmount,
		"new_amount":      a.NewAmount,
		"percentage":      a.Percentage,
		"index_type":      a.IndexType,
		"index_value":     a.IndexValue,
		"notes":           a.Notes,
	}
}

// AdjustmentFromRecord hydrates an Adjustment from a store record.
func AdjustmentFromRecord(r Record) *Adjustment {
	return &Adjustment{
		ID:             r.Int64("id"),
		LeaseID:        r.Int64("lease_id"),
		AdjustmentDate: r.String("adjustment_date"),
		PreviousAmount: r.Float("previous_amount"),
		NewAmount:      r.Float("new_amount"),
		Percentage:     r.Float("percentage"),
		IndexType:      r.String("index_type"),
		IndexValue:     r.Float("index_value"),
		Notes:          r.String("notes"),
		CreatedAt:      r.String("created_at"),
	}
}
