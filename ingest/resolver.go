package ingest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// COLUMN RESOLVER — Heuristic Header Mapping
// ============================================================================
// Maps arbitrary, inconsistently-named input columns to the four canonical
// fields (region, year, loss, gain). Keys are lowercased and matched by
// substring containment against prioritized candidate lists, so prefixed
// and suffixed variants ("Forest_Loss_Ha", "STATE") still resolve. The
// first matching key in row order wins. Containment deliberately overfits:
// a false positive on an unrelated column is the accepted price of reading
// arbitrary third-party spreadsheets without a header contract.
//
// Each field resolves to an explicit Resolution rather than a sentinel
// value — the normalizer's fallback heuristics key off Resolution.OK, not
// off empty strings or zeroes.
// ============================================================================

// Rules are the per-field candidate column names, scanned in order.
// Lists are data so deployments can extend the synonyms via a YAML file.
type Rules struct {
	Region []string `yaml:"region"`
	Year   []string `yaml:"year"`
	Loss   []string `yaml:"loss"`
	Gain   []string `yaml:"gain"`
}

// DefaultRules returns the built-in candidate lists.
func DefaultRules() Rules {
	return Rules{
		Region: []string{"state", "region", "area", "province", "district", "location", "territory"},
		Year:   []string{"year", "date", "period", "time", "yr"},
		Loss:   []string{"deforestation", "forest_loss", "treeloss", "tree_loss", "loss", "forest_decrease", "logging"},
		Gain:   []string{"reforestation", "forest_gain", "treegain", "tree_gain", "gain", "forest_increase", "planting"},
	}
}

// LoadRules parses a YAML rules document. Fields left empty in the YAML
// keep the built-in candidate lists.
func LoadRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if len(override.Region) > 0 {
		rules.Region = override.Region
	}
	if len(override.Year) > 0 {
		rules.Year = override.Year
	}
	if len(override.Loss) > 0 {
		rules.Loss = override.Loss
	}
	if len(override.Gain) > 0 {
		rules.Gain = override.Gain
	}
	return rules, nil
}

// Resolution is the outcome of resolving one canonical field: the matched
// row key, or OK=false when no key matched and positional fallbacks apply.
type Resolution struct {
	Key string
	OK  bool
}

// FieldMap holds the per-field resolutions for one row.
type FieldMap struct {
	Region Resolution
	Year   Resolution
	Loss   Resolution
	Gain   Resolution
}

// Resolve maps one row's keys to the four canonical fields.
func (rules Rules) Resolve(row RawRow) FieldMap {
	return FieldMap{
		Region: resolveField(row, rules.Region),
		Year:   resolveField(row, rules.Year),
		Loss:   resolveField(row, rules.Loss),
		Gain:   resolveField(row, rules.Gain),
	}
}

// resolveField returns the first row key (in insertion order) whose
// lowercased form contains any candidate.
func resolveField(row RawRow, candidates []string) Resolution {
	for _, key := range row.Keys() {
		lower := strings.ToLower(key)
		for _, candidate := range candidates {
			if strings.Contains(lower, candidate) {
				return Resolution{Key: key, OK: true}
			}
		}
	}
	return Resolution{}
}
