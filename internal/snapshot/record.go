package snapshot

import (
	"time"
)

// TimeFormat is the fixed textual encoding for timestamp values in snapshots.
const TimeFormat = "2006-01-02 15:04:05"

// Record represents one table row as an ordered column-name-to-value mapping.
// Keys are case-sensitive and unique within a record; iteration order is the
// insertion order, which reflects the source table's column order at backup
// time. Values are restricted to a closed scalar union: nil, bool, int64,
// float64, string and time.Time.
type Record struct {
	keys   []string
	values map[string]interface{}
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{
		values: make(map[string]interface{}),
	}
}

// Set stores a value under the given column name, appending the column to the
// key order if it is new.
func (r *Record) Set(key string, value interface{}) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for the given column name
func (r *Record) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Delete removes a column from the record, preserving the order of the rest
func (r *Record) Delete(key string) {
	if _, exists := r.values[key]; !exists {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the column names in insertion order
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Values returns the values in key order
func (r *Record) Values() []interface{} {
	values := make([]interface{}, 0, len(r.keys))
	for _, k := range r.keys {
		values = append(values, r.values[k])
	}
	return values
}

// Len returns the number of columns in the record
func (r *Record) Len() int {
	return len(r.keys)
}

// Normalize maps a value scanned from a database row into the record's scalar
// union. The MySQL driver hands back []byte for text and decimal columns and
// time.Time for temporal columns when parseTime is enabled.
func Normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v
	default:
		return v
	}
}
