package integration

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Inbound payloads arrive as untyped key-value trees (decoded JSON). The
// helpers below are the only place the untyped form is touched; mappers
// convert to the strict canonical model immediately and the untyped tree
// never escapes this package except as the audit snapshot.

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringFieldDefault(m map[string]any, key, fallback string) string {
	if s := stringField(m, key); s != "" {
		return s
	}
	return fallback
}

func mapField(m map[string]any, key string) (map[string]any, bool) {
	sub, ok := m[key].(map[string]any)
	return sub, ok
}

// toDecimal coerces a loosely-typed numeric value to a decimal. Missing or
// malformed values coerce to zero rather than failing; this is the deliberate
// leniency boundary for partial upstream data.
func toDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// toInt coerces a loosely-typed value to an int, falling back when absent
// or malformed.
func toInt(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return fallback
}

// toIntPtr coerces an optional numeric value, returning nil when absent.
func toIntPtr(v any) *int {
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case int:
		return &n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			out := int(i)
			return &out
		}
	}
	return nil
}

// toStrings extracts a string slice from a loosely-typed array, dropping
// non-string elements.
func toStrings(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
