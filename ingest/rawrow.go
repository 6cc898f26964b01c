package ingest

// ============================================================================
// RAW ROW — Ordered Key/Value Mapping From a File Decoder
// ============================================================================
// A RawRow is the decoder's loosely-typed output for one file row: string
// keys mapped to scalar values (string, number, bool, or nil). It preserves
// key insertion order because every downstream heuristic — "first matching
// key wins", positional numeric fallbacks — is defined over the file's
// column order, which Go map iteration would scramble.
// Ephemeral: exists only while one file is ingested.
// ============================================================================

// RawRow is one untyped decoded row with stable key order.
type RawRow struct {
	keys   []string
	values map[string]any
}

// NewRawRow returns an empty row ready for Set calls.
func NewRawRow() RawRow {
	return RawRow{values: make(map[string]any)}
}

// Set stores a value under key, appending the key on first sight.
// Setting an existing key overwrites the value and keeps its position.
func (r *RawRow) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Keys returns the row's keys in insertion order.
func (r RawRow) Keys() []string { return r.keys }

// Get returns the value stored under key.
func (r RawRow) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of keys in the row.
func (r RawRow) Len() int { return len(r.keys) }
