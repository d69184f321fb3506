package models

// Property statuses.
const (
	PropertyAvailable = "available"
	PropertyRented    = "rented"
	PropertySold      = "sold"
)

// Property is a real-estate unit owned by an Owner.
type Property struct {
	ID            int64   `db:"id" json:"id"`
	OwnerID       int64   `db:"owner_id" json:"owner_id"`
	Type          string  `db:"type" json:"type"` // house, apartment, lot, commercial
	Address       string  `db:"address" json:"address"`
	City          string  `db:"city" json:"city"`
	Province      string  `db:"province" json:"province"`
	PostalCode    string  `db:"postal_code" json:"postal_code,omitempty"`
	SurfaceM2     float64 `db:"surface_m2" json:"surface_m2,omitempty"`
	Rooms         int64   `db:"rooms" json:"rooms,omitempty"`
	Bathrooms     int64   `db:"bathrooms" json:"bathrooms,omitempty"`
	SalePrice     float64 `db:"sale_price" json:"sale_price,omitempty"`
	RentPrice     float64 `db:"rent_price" json:"rent_price,omitempty"`
	CadastralID   string  `db:"cadastral_id" json:"cadastral_id,omitempty"`
	ElectricMeter string  `db:"electric_meter" json:"electric_meter,omitempty"`
	WaterMeter    string  `db:"water_meter" json:"water_meter,omitempty"`
	Status        string  `db:"status" json:"status"`
	Description   string  `db:"description" json:"description,omitempty"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Property.
func (Property) TableName() string {
	return TableProperties
}

// Fields returns the insertable columns of the property.
func (p *Property) Fields() Record {
	status := p.Status
	if status == "" {
		status = PropertyAvailable
	}
	return Record{
		"owner_id":       p.OwnerID,
		"type":           p.Type,
		"address":        p.Address,
		"city":           p.City,
		"province":       p.Province,
		"postal_code":    p.PostalCode,
		"surface_m2":     p.SurfaceM2,
		"rooms":          p.Rooms,
		"bathrooms":      p.Bathrooms,
		"sale_price":     p.SalePrice,
		"rent_price":     p.RentPrice,
		"cadastral_id":   p.CadastralID,
		"electric_meter": p.ElectricMeter,
		"water_meter":    p.WaterMeter,
		"status":         status,
		"description":    p.Description,
	}
}
