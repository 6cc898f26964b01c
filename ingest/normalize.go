package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forestwatch-org/forestwatch/engine"
)

// ============================================================================
// ROW NORMALIZER — RawRow + FieldMap → Canonical Record
// ============================================================================
// Never fails: every row yields a record, possibly with an empty region and
// zeroed numerics. Invalid records are not this layer's problem — the
// cleaner drops them. Unresolved fields degrade to positional/type-based
// fallbacks over the remaining row values; unparseable values degrade to
// zero. Best-effort parsing is the design point, so row-level issues are
// absorbed silently.
// ============================================================================

// Normalize converts one raw row into a canonical record using the
// resolver's field mapping. referenceYear bounds the unresolved-year
// fallback search.
func Normalize(row RawRow, fields FieldMap, referenceYear int) engine.Record {
	rec := engine.Record{ID: uuid.NewString()}

	// Region: resolved value, else the first string value that does not
	// parse as a number.
	if fields.Region.OK {
		v, _ := row.Get(fields.Region.Key)
		rec.Region = strings.TrimSpace(asString(v))
	} else {
		rec.Region = fallbackRegion(row)
	}

	// Year: resolved value through the permissive parser, else the first
	// numeric value that looks like a plausible calendar year. The key the
	// year came from is claimed so the amount fallbacks skip it.
	yearKey := ""
	if fields.Year.OK {
		v, _ := row.Get(fields.Year.Key)
		rec.Year = ParseYear(v)
		yearKey = fields.Year.Key
	} else {
		rec.Year, yearKey = fallbackYear(row, referenceYear)
	}

	// Loss/Gain: resolved values parsed as floats (zero on failure), else
	// the first and second remaining numeric values not claimed by year.
	remaining := numericKeys(row, yearKey)
	rec.Loss = amountValue(row, fields.Loss, remaining, 0)
	rec.Gain = amountValue(row, fields.Gain, remaining, 1)

	rec.NetChange = rec.Gain - rec.Loss
	return rec
}

// amountValue reads a resolved amount field, or falls back to the numeric
// row value at the given position.
func amountValue(row RawRow, res Resolution, remaining []string, position int) float64 {
	if res.OK {
		v, _ := row.Get(res.Key)
		f, _ := asFloat(v)
		return f
	}
	if position < len(remaining) {
		v, _ := row.Get(remaining[position])
		f, _ := asFloat(v)
		return f
	}
	return 0
}

// fallbackRegion returns the first row value that is a string and not
// numeric-parseable.
func fallbackRegion(row RawRow) string {
	for _, key := range row.Keys() {
		v, _ := row.Get(key)
		s, isString := v.(string)
		if !isString {
			continue
		}
		if _, numeric := asFloat(s); numeric {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// fallbackYear returns the first numeric row value within
// [1900, referenceYear], and the key it came from.
func fallbackYear(row RawRow, referenceYear int) (int, string) {
	for _, key := range row.Keys() {
		v, _ := row.Get(key)
		f, ok := asFloat(v)
		if !ok {
			continue
		}
		y := int(math.Floor(f))
		if y >= 1900 && y <= referenceYear {
			return y, key
		}
	}
	return 0, ""
}

// numericKeys returns the row's numeric-valued keys in order, excluding
// the key claimed by the year.
func numericKeys(row RawRow, yearKey string) []string {
	var keys []string
	for _, key := range row.Keys() {
		if key == yearKey {
			continue
		}
		v, _ := row.Get(key)
		if _, ok := asFloat(v); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// ============================================================================
// PERMISSIVE PARSERS
// ============================================================================

// yearLayouts are tried in order when a year value is a full date string.
var yearLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// yearToken matches a standalone 4-digit year starting with 19 or 20.
var yearToken = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)

// ParseYear extracts a calendar year from a raw scalar. In order: numeric
// values are floored; date-like strings are parsed and their year taken;
// otherwise the string is scanned for a 4-digit 19xx/20xx token. Anything
// else yields 0.
func ParseYear(v any) int {
	if f, ok := asFloat(v); ok {
		return int(math.Floor(f))
	}

	s, ok := v.(string)
	if !ok {
		return 0
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	for _, layout := range yearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year()
		}
	}

	if m := yearToken.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y
	}
	return 0
}

// asFloat coerces a raw scalar to a float64. String values tolerate
// thousands separators and surrounding whitespace.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asString renders a raw scalar as a display string.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return ""
	}
}
