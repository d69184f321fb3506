package models

// Owner is a property owner.
type Owner struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	TaxID     string `db:"tax_id" json:"tax_id"` // CUIT or DNI, unique
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email,omitempty"`
	Address   string `db:"address" json:"address"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Owner.
func (Owner) TableName() string {
	return TableOwners
}

// Fields returns the insertable columns of the owner.
func (o *Owner) Fields() Record {
	return Record{
		"first_name": o.FirstName,
		"last_name":  o.LastName,
		"tax_id":     o.TaxID,
		"phone":      o.Phone,
		"email":      o.Email,
		"address":    o.Address,
	}
}

// Tenant is a renter bound to leases.
type Tenant struct {
	ID         int64  `db:"id" json:"id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	TaxID      string `db:"tax_id" json:"tax_id"` // CUIT or DNI, unique
	Phone      string `db:"phone" json:"phone"`
	Email      string `db:"email" json:"email,omitempty"`
	Address    string `db:"address" json:"address"`
	BirthDate  string `db:"birth_date" json:"birth_date,omitempty"`
	Occupation string `db:"occupation" json:"occupation,omitempty"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Tenant.
func (Tenant) TableName() string {
	return TableTenants
}

// Fields returns the insertable columns of the tenant.
func (t *Tenant) Fields() Record {
	return Record{
		"first_name": t.FirstName,
		"last_name":  t.LastName,
		"tax_id":     t.TaxID,
		"phone":      t.Phone,
		"email":      t.Email,
		"address":    t.Address,
		"birth_date": t.BirthDate,
		"occupation": t.Occupation,
	}
}
