package models

// Payment is one collected payment against a lease. Amounts are split into
// the components printed on the receipt; Total must equal their sum at write
// time.
type Payment struct {
	ID            int64   `db:"id" json:"id"`
	LeaseID       int64   `db:"lease_id" json:"lease_id"`
	PaymentDate   string  `db:"payment_date" json:"payment_date"`
	PeriodMonth   int64   `db:"period_month" json:"period_month"` // 1..12
	PeriodYear    int64   `db:"period_year" json:"period_year"`
	RentAmount    float64 `db:"rent_amount" json:"rent_amount"`
	CommonCharges float64 `db:"common_charges" json:"common_charges,omitempty"`
	ElectricityAmount float64 `db:"electricity_amount" json:"electricity_amount,omitempty"`
	WaterAmount   float64 `db:"water_amount" json:"water_amount,omitempty"`
	OtherAmount   float64 `db:"other_amount" json:"other_amount,omitempty"`
	Total         float64 `db:"total" json:"total"`
	Concept       string  `db:"concept" json:"concept,omitempty"`
	Method        string  `db:"method" json:"method,omitempty"`
	ReceiptNumber string  `db:"receipt_number" json:"receipt_number,omitempty"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Payment.
func (Payment) TableName() string {
	return TablePayments
}

// ComponentSum returns the sum of the component amounts.
func (p *Payment) ComponentSum() float64 {
	return p.RentAmount + p.CommonCharges + p.ElectricityAmount + p.WaterAmount + p.OtherAmount
}

// Fields returns the insertable columns of the payment.
func (p *Payment) Fields() Record {
	return Record{
		"lease_id":           p.LeaseID,
		"payment_date":       p.PaymentDate,
		"period_month":       p.PeriodMonth,
		"period_year":        p.PeriodYear,
		"rent_amount":        p.RentAmount,
		"common_charges":     p.CommonCharges,
		"electricity_amount": p.ElectricityAmount,
		"water_amount":       p.WaterAmount,
		"other_amount":       p.OtherAmount,
		"total":              p.Total,
		"concept":            p.Concept,
		"method":             p.Method,
		"receipt_number":     p.ReceiptNumber,
	}
}
