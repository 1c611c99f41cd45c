package models

import (
	"encoding/json"
	"fmt"
)

// Record is one JSON object from a store file. Numbers are kept as json.Number
// so ids and scores survive a load/save cycle unchanged.
type Record map[string]any

// RecordSet is the ordered content of one store file.
type RecordSet []Record

// Has reports whether field is present with a non-null value
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String returns the field as a string. Numbers and booleans are rendered in
// their JSON form; missing or null fields return "".
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool, float64, float32, int, int64, int32:
		return fmt.Sprint(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// Float returns the field as a float64. ok is false when the field is missing
// or not a JSON number.
func (r Record) Float(field string) (float64, bool) {
	switch val := r[field].(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

// KeyText returns the canonical JSON encoding of the field value, used to
// compare key values across records. ok is false for missing or null fields.
func (r Record) KeyText(field string) (string, bool) {
	return CanonicalKey(r[field])
}

// CanonicalKey is the JSON text of v. The string "7" and the number 7 give
// different keys. ok is false for nil.
func CanonicalKey(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v), true
	}
	return string(b), true
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Clone returns a copy of the set; records are cloned shallowly.
func (rs RecordSet) Clone() RecordSet {
	out := make(RecordSet, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Clone())
	}
	return out
}
