package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// JSON DOCUMENT EXTRACTION UTILITIES
// =============================================================================
//
// Untyped responses (Response.Value, ChatReply.Data, dashboard sub-documents)
// decode to map[string]any, []any, string, float64, bool and nil. These
// helpers read them without bare type assertions that panic on mismatch.

// ExtractString returns a display string for a decoded JSON value.
func ExtractString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ExtractInt returns v as an int. Floats are truncated; numeric strings are
// parsed.
func ExtractInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case int64:
		return int(val), true
	case json.Number:
		i, err := val.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		return i, err == nil
	default:
		return 0, false
	}
}

// ExtractFloat64 returns v as a float64.
func ExtractFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ExtractBool returns v as a bool. Accepts "true"/"false" strings.
func ExtractBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return b, err == nil
	default:
		return false, false
	}
}

// ExtractTime parses v as a backend date or datetime string.
func ExtractTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	if ts, err := ParseTimestamp(s); err == nil {
		return ts.Time, true
	}
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// Field walks a dotted path through nested objects, e.g.
// Field(doc, "summary.total_trains"). Returns nil when any step is missing.
func Field(doc any, path string) any {
	cur := doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = obj[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// FieldString is ExtractString(Field(doc, path)).
func FieldString(doc any, path string) string {
	return ExtractString(Field(doc, path))
}

// FieldInt is ExtractInt(Field(doc, path)).
func FieldInt(doc any, path string) (int, bool) {
	return ExtractInt(Field(doc, path))
}

// FieldFloat64 is ExtractFloat64(Field(doc, path)).
func FieldFloat64(doc any, path string) (float64, bool) {
	return ExtractFloat64(Field(doc, path))
}

// Items returns v as a list, or nil.
func Items(v any) []any {
	list, _ := v.([]any)
	return list
}
