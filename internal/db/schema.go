package db

import "fmt"

// schemaStatements creates the fixed table set. There is no versioned
// migration system; schema evolution happens through additive nullable
// columns so existing deployments keep working.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS app_users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT,
		role TEXT DEFAULT 'user',
		active INTEGER DEFAULT 1,
		created_at TEXT DEFAULT (datetime('now'))
	)`,

	`CREATE TABLE IF NOT EXISTS owners (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		tax_id TEXT UNIQUE NOT NULL,
		phone TEXT NOT NULL,
		email TEXT,
		address TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now')),
		modified INTEGER DEFAULT 0,
		last_sync_at TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS tenants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		tax_id TEXT UNIQUE NOT NULL,
		phone TEXT NOT NULL,
		email TEXT,
		address TEXT NOT NULL,
		birth_date TEXT,
		occupation TEXT,
		created_at TEXT DEFAULT (datetime('now')),
		modified INTEGER DEFAULT 0,
		last_sync_at TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER,
		type TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT DEFAULT 'Posadas',
		province TEXT DEFAULT 'Misiones',
		postal_code TEXT,
		surface_m2 REAL,
		rooms INTEGER,
		bathrooms INTEGER,
		sale_price REAL,
		rent_price REAL,
		cadastral_id TEXT,
		electric_meter TEXT,
		water_meter TEXT,
		status TEXT DEFAULT 'available',
		description TEXT,
		created_at TEXT DEFAULT (datetime('now')),
		modified INTEGER DEFAULT 0,
		last_sync_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES owners(id)
	)`,

	`CREATE TABLE IF NOT EXISTS leases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER,
		tenant_id INTEGER,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		monthly_amount REAL NOT NULL,
		deposit REAL,
		common_charges REAL DEFAULT 0,
		adjustment_type TEXT DEFAULT 'IPC',
		adjustment_frequency INTEGER DEFAULT 4,
		last_adjustment_date TEXT,
		next_adjustment_date TEXT,
		status TEXT DEFAULT 'active',
		notes TEXT,
		created_at TEXT DEFAULT (datetime('now')),
		modified INTEGER DEFAULT 0,
		last_sync_at TEXT,
		FOREIGN KEY (property_id) REFERENCES properties(id),
		FOREIGN KEY (tenant_id) REFERENCES tenants(id)
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lease_id INTEGER,
		payment_date TEXT NOT NULL,
		period_month INTEGER NOT NULL,
		period_year INTEGER NOT NULL,
		rent_amount REAL NOT NULL,
		common_charges REAL DEFAULT 0,
		electricity_amount REAL DEFAULT 0,
		water_amount REAL DEFAULT 0,
		other_amount REAL DEFAULT 0,
		total REAL NOT NULL,
		concept TEXT,
		method TEXT,
		receipt_number TEXT,
		created_at TEXT DEFAULT (datetime('now')),
		modified INTEGER DEFAULT 0,
		last_sync_at TEXT,
		FOREIGN KEY (lease_id) REFERENCES leases(id)
	)`,

	`CREATE TABLE IF NOT EXISTS adjustments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lease_id INTEGER,
		adjustment_date TEXT NOT NULL,
		previous_amount REAL NOT NULL,
		new_amount REAL NOT NULL,
		percentage REAL,
		index_type TEXT,
		index_value REAL,
		notes TEXT,
		created_at TEXT DEFAULT (datetime('now')),
		modified INTEGER DEFAULT 0,
		last_sync_at TEXT,
		FOREIGN KEY (lease_id) REFERENCES leases(id)
	)`,

	`CREATE TABLE IF NOT EXISTS app_config (
		key TEXT PRIMARY KEY,
		value TEXT,
		updated_at TEXT DEFAULT (datetime('now'))
	)`,

	`CREATE TABLE IF NOT EXISTS sync_outbox (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		table_name TEXT NOT NULL,
		record_id INTEGER NOT NULL,
		operation TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		processed INTEGER DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sync_outbox_pending
		ON sync_outbox(processed, timestamp)`,
}

// InitSchema creates all tables if they do not exist.
func (db *DB) InitSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
