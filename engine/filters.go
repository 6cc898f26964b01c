package engine

// ============================================================================
// FILTER ENGINE — User-Selected Predicates
// ============================================================================
// A record is retained iff it satisfies ALL set criteria. Pure function:
// the input slice is never mutated. With no criteria set the input is
// returned as-is, order included, so an unfiltered dashboard render is a
// no-op.
// ============================================================================

// Apply returns the subset of records satisfying every set criterion.
func Apply(records []Record, c Criteria) []Record {
	if c.IsEmpty() {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

// matches checks a single record against all set criteria.
// Region comparison is case-sensitive equality — region names come out of
// the same normalization pass, so casing is already consistent.
func matches(r Record, c Criteria) bool {
	if c.Region != "" && r.Region != c.Region {
		return false
	}
	if c.Year != nil && r.Year != *c.Year {
		return false
	}
	if c.YearRange != nil && (r.Year < c.YearRange.Min || r.Year > c.YearRange.Max) {
		return false
	}
	return true
}
