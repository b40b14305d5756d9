// Package units coerces loosely-typed provider values into optional floats.
// Upstream JSON frequently mixes numbers, strings and nulls for the same
// field across responses; everything funnels through Float so a malformed
// value degrades to "missing" instead of aborting a build.
package units

import (
	"encoding/json"
	"strconv"
)

// Float attempts numeric coercion of an arbitrary decoded JSON value.
// Returns nil on null, absent or unparseable input, never an error.
func Float(v any) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return &x
	case float32:
		f := float64(x)
		return &f
	case int:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil
		}
		return &f
	case *float64:
		return x
	default:
		return nil
	}
}

// Ptr returns a pointer to v. Convenience for building records in tests
// and ingest mappers.
func Ptr(v float64) *float64 { return &v }

// Value dereferences p, substituting fallback when p is nil.
func Value(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
