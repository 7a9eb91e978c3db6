package boundcheck

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultOverlapTolerancePct tolerates sliver overlaps up to this
	// share of the smaller boundary's area.
	DefaultOverlapTolerancePct = 0.001
	// DefaultGapTolerancePct tolerates uncovered parent area up to this
	// share for tiling layers.
	DefaultGapTolerancePct = 0.5
)

// IdentifierRule constrains entity identifiers per layer type.
// Length 0 accepts any non-empty identifier.
type IdentifierRule struct {
	Length       int  `yaml:"length"`
	Alphanumeric bool `yaml:"alphanumeric"`
}

func (r IdentifierRule) Validate(id string) error {
	if len(id) == 0 {
		return fmt.Errorf("boundcheck/refdata: empty identifier")
	}
	if r.Length > 0 && len(id) != r.Length {
		return fmt.Errorf("boundcheck/refdata: identifier %q has length %d, want %d", id, len(id), r.Length)
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9':
		case r.Alphanumeric && (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'):
		default:
			return fmt.Errorf("boundcheck/refdata: identifier %q has invalid character %q", id, c)
		}
	}
	return nil
}

// LayerRule is the per-layer-type validation policy.
type LayerRule struct {
	Identifier          IdentifierRule `yaml:"identifier"`
	MustTileParent      bool           `yaml:"must_tile_parent"`
	OverlapTolerancePct float64        `yaml:"overlap_tolerance_pct"`
	GapTolerancePct     float64        `yaml:"gap_tolerance_pct"`
}

func (r LayerRule) overlapTolerance() float64 {
	if r.OverlapTolerancePct > 0 {
		return r.OverlapTolerancePct
	}
	return DefaultOverlapTolerancePct
}

func (r LayerRule) gapTolerance() float64 {
	if r.GapTolerancePct > 0 {
		return r.GapTolerancePct
	}
	return DefaultGapTolerancePct
}

// ReferenceData holds the authoritative expected-count and layer-rule
// tables. Loaded once, read-only thereafter.
type ReferenceData struct {
	counts map[string]map[string]int
	layers map[string]LayerRule
}

type referenceFile struct {
	Layers map[string]LayerRule      `yaml:"layers"`
	Counts map[string]map[string]int `yaml:"counts"`
}

func ReferenceDataFromBytes(data []byte) (*ReferenceData, error) {
	var file referenceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("boundcheck/refdata: %w", err)
	}
	rd := DefaultReferenceData()
	for layer, rule := range file.Layers {
		rd.layers[layer] = rule
	}
	for layer, regions := range file.Counts {
		if rd.counts[layer] == nil {
			rd.counts[layer] = make(map[string]int)
		}
		for region, n := range regions {
			rd.counts[layer][region] = n
		}
	}
	return rd, nil
}

func ReferenceDataFromFile(filename string) (*ReferenceData, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ReferenceDataFromBytes(raw)
}

// ExpectedCount reports the authoritative entity count for a layer in
// a region. ok is false when no reference exists; absence of a
// reference is never a failure.
func (rd *ReferenceData) ExpectedCount(layerType, regionKey string) (int, bool) {
	regions, ok := rd.counts[layerType]
	if !ok {
		return 0, false
	}
	n, ok := regions[regionKey]
	return n, ok
}

func (rd *ReferenceData) LayerRule(layerType string) (LayerRule, bool) {
	rule, ok := rd.layers[layerType]
	return rule, ok
}

// DefaultReferenceData ships census-derived county counts for a set of
// states plus the standard GEOID format rules. Callers extend or
// override it with ReferenceDataFromFile.
func DefaultReferenceData() *ReferenceData {
	return &ReferenceData{
		layers: map[string]LayerRule{
			"state":            {Identifier: IdentifierRule{Length: 2}},
			"county":           {Identifier: IdentifierRule{Length: 5}, MustTileParent: true},
			"tract":            {Identifier: IdentifierRule{Length: 11}, MustTileParent: true},
			"place":            {Identifier: IdentifierRule{Length: 7}},
			"council_district": {Identifier: IdentifierRule{Alphanumeric: true}},
		},
		counts: map[string]map[string]int{
			"state": {
				"US": 50,
			},
			"county": {
				"AL": 67, "AK": 29, "AZ": 15, "AR": 75, "CA": 58,
				"CO": 64, "CT": 8, "DE": 3, "FL": 67, "GA": 159,
				"HI": 5, "ID": 44, "IL": 102, "IN": 92, "IA": 99,
				"KS": 105, "KY": 120, "LA": 64, "ME": 16, "MD": 23,
				"MA": 14, "MI": 83, "MN": 87, "MS": 82, "MO": 114,
				"MT": 56, "NE": 93, "NV": 17, "NH": 10, "NJ": 21,
				"NM": 33, "NY": 62, "NC": 100, "ND": 53, "OH": 88,
				"OK": 77, "OR": 36, "PA": 67, "RI": 5, "SC": 46,
				"SD": 66, "TN": 95, "TX": 254, "UT": 29, "VT": 14,
				"VA": 133, "WA": 39, "WV": 55, "WI": 72, "WY": 23,
			},
		},
	}
}
