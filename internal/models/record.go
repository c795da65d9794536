package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Resource is a generic API object as decoded from JSON.
type Resource map[string]interface{}

// Clone returns a shallow copy of the resource.
func (r Resource) Clone() Resource {
	out := make(Resource, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Record is a resource together with its resolved identity.
type Record struct {
	ID     string   `json:"id"`
	Fields Resource `json:"fields"`
}

// NewRecord resolves the identity of res for kind.
func NewRecord(kind *Kind, res Resource) (Record, error) {
	id, err := kind.IdentityOf(res)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, Fields: res}, nil
}

// Display formats a field for listing: numbers with two decimals, absent or
// empty values as "N/A".
func (r Record) Display(f Field) string {
	v, ok := r.Fields[f.Key]
	if !ok || v == nil {
		return "N/A"
	}
	if f.Input.Numeric() {
		if n, ok := ToFloat(v); ok {
			return strconv.FormatFloat(n, 'f', 2, 64)
		}
	}
	s := StringField(r.Fields, f.Key)
	if s == "" {
		if _, isString := v.(string); !isString {
			return fmt.Sprint(v)
		}
		return "N/A"
	}
	return s
}

// StringField safely extracts a string field, returning "" if absent.
func StringField(obj map[string]interface{}, field string) string {
	if v, ok := obj[field].(string); ok {
		return v
	}
	return ""
}

// ToFloat converts numeric values, and strings holding a number, to float64.
// NaN and infinities are rejected.
func ToFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsBlank reports whether a draft value counts as empty for required checks.
func IsBlank(v interface{}) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	}
	return false
}
