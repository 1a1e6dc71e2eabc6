package pipeline

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TrackStreet        TrackType = "street"
	TrackSemiPermanent TrackType = "semi-permanent"
	TrackPermanent     TrackType = "permanent"
)

// TrackType is the layout class of a circuit.
type TrackType string

func (t TrackType) Valid() bool {
	return t == TrackStreet || t == TrackSemiPermanent || t == TrackPermanent
}

// CircuitID is the canonical identity of a circuit: case-folded with
// whitespace collapsed, so "Marina  Bay" and "marina bay" are the same track.
type CircuitID string

func NewCircuitID(name string) CircuitID {
	return CircuitID(strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

//go:embed tracks.yaml
var defaultTrackTable []byte

// TrackTable is the static circuit classification as configured.
type TrackTable struct {
	Default  TrackType              `yaml:"default"`
	Circuits map[TrackType][]string `yaml:"circuits"`
}

// LoadTrackTable decodes a YAML track table.
func LoadTrackTable(r io.Reader) (TrackTable, error) {
	var t TrackTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return TrackTable{}, fmt.Errorf("decode track table: %w", err)
	}
	return t, nil
}

// DefaultTrackTable returns the built-in classification.
func DefaultTrackTable() TrackTable {
	t, err := LoadTrackTable(strings.NewReader(string(defaultTrackTable)))
	if err != nil {
		panic(err)
	}
	return t
}

// TrackClassifier maps circuits to track types. Unknown circuits fall back
// to the table default.
type TrackClassifier struct {
	types    map[CircuitID]TrackType
	fallback TrackType
}

// NewTrackClassifier validates the table. An empty default means permanent.
// A circuit listed under two types is rejected.
func NewTrackClassifier(t TrackTable) (*TrackClassifier, error) {
	fallback := t.Default
	if fallback == "" {
		fallback = TrackPermanent
	}
	if !fallback.Valid() {
		return nil, fmt.Errorf("invalid default track type %q", fallback)
	}

	c := &TrackClassifier{types: make(map[CircuitID]TrackType), fallback: fallback}
	kinds := make([]string, 0, len(t.Circuits))
	for k := range t.Circuits {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		tt := TrackType(k)
		if !tt.Valid() {
			return nil, fmt.Errorf("invalid track type %q", k)
		}
		for _, name := range t.Circuits[tt] {
			id := NewCircuitID(name)
			if prev, dup := c.types[id]; dup && prev != tt {
				return nil, fmt.Errorf("circuit %q classified as both %s and %s", name, prev, tt)
			}
			c.types[id] = tt
		}
	}
	return c, nil
}

// Classify never fails: unmatched circuits get the default type.
func (c *TrackClassifier) Classify(id CircuitID) TrackType {
	if tt, ok := c.types[id]; ok {
		return tt
	}
	return c.fallback
}

// Lookup reports whether the circuit is listed in the table.
func (c *TrackClassifier) Lookup(id CircuitID) (TrackType, bool) {
	tt, ok := c.types[id]
	return tt, ok
}

func (c *TrackClassifier) Default() TrackType { return c.fallback }
