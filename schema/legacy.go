package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LegacyPayload is a form's captured data under the old per-form schema:
// an untyped nested key-value structure as decoded from JSON. It is
// read-only input to the mapper and is never mutated.
type LegacyPayload map[string]any

// DecodeLegacy parses a JSON document into a LegacyPayload.
// A JSON null or empty input decodes to an empty payload.
func DecodeLegacy(data []byte) (LegacyPayload, error) {
	if len(data) == 0 {
		return LegacyPayload{}, nil
	}
	var p LegacyPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode legacy payload: %w", err)
	}
	if p == nil {
		p = LegacyPayload{}
	}
	return p, nil
}

// String returns the value at key coerced to a string, or the empty
// string when the key is absent or holds a value with no sensible
// string form (maps, lists).
func (p LegacyPayload) String(key string) string {
	return coerceString(p[key])
}

// StringOr returns the value at any of the given keys, first match
// wins. Legacy exports renamed several fields over time, so canonical
// fields often have more than one legacy source key.
func (p LegacyPayload) StringOr(keys ...string) string {
	for _, key := range keys {
		if v, ok := p[key]; ok {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// Bool returns the value at key coerced to a bool. Strings "true",
// "yes" and "1" count as true; everything unrecognized is false.
func (p LegacyPayload) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		}
	case float64:
		return v != 0
	}
	return false
}

// Int returns the value at key coerced to an int, or 0.
func (p LegacyPayload) Int(key string) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// StringList returns the value at key coerced to a list of strings.
// Scalar values become a single-element list; malformed elements are
// coerced best-effort and empty results are dropped.
func (p LegacyPayload) StringList(key string) []string {
	out := []string{}
	switch v := p[key].(type) {
	case []any:
		for _, elem := range v {
			if s := coerceString(elem); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
	case string:
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// StringMap returns the value at key coerced to a flat string map.
func (p LegacyPayload) StringMap(key string) map[string]string {
	out := map[string]string{}
	if m, ok := p[key].(map[string]any); ok {
		for k, v := range m {
			out[k] = coerceString(v)
		}
	}
	return out
}

// RecordList returns the value at key as a list of nested payloads.
// A malformed element yields an empty payload in its place so the
// element count and order survive, with the record defaulting instead
// of aborting the list.
func (p LegacyPayload) RecordList(key string) []LegacyPayload {
	out := []LegacyPayload{}
	list, ok := p[key].([]any)
	if !ok {
		return out
	}
	for _, elem := range list {
		if m, ok := elem.(map[string]any); ok {
			out = append(out, LegacyPayload(m))
		} else {
			out = append(out, LegacyPayload{})
		}
	}
	return out
}

// coerceString converts a scalar JSON value to its string form.
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; render integers without
		// a fractional part.
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
