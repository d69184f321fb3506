package models

// Domain table names. The schema is a fixed set; new columns must be added
// as nullable so older deployments keep working.
const (
	TableOwners      = "owners"
	TableTenants     = "tenants"
	TableProperties  = "properties"
	TableLeases      = "leases"
	TablePayments    = "payments"
	TableAdjustments = "adjustments"
	TableUsers       = "app_users"
	TableConfig      = "app_config"
)

// SyncTables lists the tables replicated to the remote, in the fixed order
// full sync pulls them. Parents come before children so foreign keys resolve.
var SyncTables = []string{
	TableOwners,
	TableTenants,
	TableProperties,
	TableLeases,
	TablePayments,
}

// replicatedTables lists the tables whose mutations enter the outbox.
// Adjustments upload like everything else but are never pulled back, so
// the table is push-eligible without joining the pull order.
var replicatedTables = map[string]bool{
	TableOwners:      true,
	TableTenants:     true,
	TableProperties:  true,
	TableLeases:      true,
	TablePayments:    true,
	TableAdjustments: true,
}

// Replicated reports whether mutations to name are recorded for upload.
func Replicated(name string) bool {
	return replicatedTables[name]
}

// Pulled reports whether name is part of the fixed pull order.
func Pulled(name string) bool {
	for _, t := range SyncTables {
		if t == name {
			return true
		}
	}
	return false
}

// knownTables is the whitelist the generic store accepts.
var knownTables = map[string]bool{
	TableOwners:      true,
	TableTenants:     true,
	TableProperties:  true,
	TableLeases:      true,
	TablePayments:    true,
	TableAdjustments: true,
	TableUsers:       true,
	TableConfig:      true,
}

// KnownTable reports whether name is one of the fixed domain tables.
func KnownTable(name string) bool {
	return knownTables[name]
}

// LocalOnlyColumns are bookkeeping columns that never leave the local store.
// They are stripped from rows before upload.
var LocalOnlyColumns = []string{"modified", "last_sync_at"}

// StripLocalOnly returns a copy of the record without local bookkeeping
// columns.
func StripLocalOnly(r Record) Record {
	out := r.Clone()
	for _, col := range LocalOnlyColumns {
		delete(out, col)
	}
	return out
}
