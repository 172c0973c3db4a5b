// Package records defines the loosely-typed row representation shared by the
// sheet parser, the normalizer, and the storage layer. A Record is one source
// row keyed by (trimmed) header text; values are whatever scalar the parser
// produced for the cell.
package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is a single row of source data.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// AsString converts common scalar types to their string form without going
// through fmt.Sprint on the hot path. NaN floats collapse to "" so that
// spreadsheet "missing cell" sentinels read as empty.
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// IsBlank reports whether a cell value carries no information: nil, an empty
// or whitespace-only string, a NaN float, or a spreadsheet NaN sentinel
// exported as text.
func IsBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return true
		}
		switch strings.ToLower(s) {
		case "nan", "n/a", "#n/a", "null", "none":
			return true
		}
	}
	return false
}
