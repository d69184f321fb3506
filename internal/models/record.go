// Package models provides data model definitions for the RentDesk core.
package models

// Record is one row of one domain table as a column-to-value mapping. The
// generic store and the sync engine move rows around in this shape; typed
// structs exist for code that needs to do arithmetic on specific columns.
type Record map[string]interface{}

// Int64 returns the named column as int64 (0 when absent or not numeric).
func (r Record) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns the named column as float64 (0 when absent or not numeric).
func (r Record) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// String returns the named column as string ("" when absent or NULL).
func (r Record) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// Has reports whether the column is present and non-nil.
func (r Record) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
