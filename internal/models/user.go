package models

// User is a local application login. Password hashes never sync; the users
// table is local-only.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	FullName     string `db:"full_name" json:"full_name"`
	Email        string `db:"email" json:"email,omitempty"`
	Role         string `db:"role" json:"role"`
	Active       bool   `db:"active" json:"active"`
	CreatedAt    string `db:"created_at" json:"created_at"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return TableUsers
}

// ConfigEntry is a key/value application setting (company name, receipt
// footer, and similar data the document generator reads).
type ConfigEntry struct {
	Key       string `db:"key" json:"key"`
	Value     string `db:"value" json:"value"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for ConfigEntry.
func (ConfigEntry) TableName() string {
	return TableConfig
}
