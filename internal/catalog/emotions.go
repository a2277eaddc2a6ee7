package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive [min, max] interval, serialized as a two-element
// array.
type Range [2]float64

// EmotionParams are the target valence and energy ranges for one
// emotion.
type EmotionParams struct {
	Valence Range `json:"valence" yaml:"valence"`
	Energy  Range `json:"energy" yaml:"energy"`
}

// neutralParams is the fallback for emotions not in the table.
var neutralParams = EmotionParams{
	Valence: Range{0.4, 0.6},
	Energy:  Range{0.4, 0.6},
}

// EmotionTable maps emotion names to their mood parameter ranges.
type EmotionTable struct {
	params map[string]EmotionParams
}

// DefaultEmotionTable returns the built-in emotion mapping.
func DefaultEmotionTable() *EmotionTable {
	return &EmotionTable{params: map[string]EmotionParams{
		"happy":   {Valence: Range{0.6, 1.0}, Energy: Range{0.5, 1.0}},
		"sad":     {Valence: Range{0.0, 0.4}, Energy: Range{0.0, 0.5}},
		"angry":   {Valence: Range{0.2, 0.6}, Energy: Range{0.6, 1.0}},
		"relaxed": {Valence: Range{0.5, 1.0}, Energy: Range{0.0, 0.5}},
	}}
}

// LoadEmotionTable merges a YAML override file into the built-in table.
// An empty path returns the defaults unchanged.
func LoadEmotionTable(path string) (*EmotionTable, error) {
	table := DefaultEmotionTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read emotions config: %w", err)
	}

	var overrides map[string]EmotionParams
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse emotions config: %w", err)
	}
	for name, params := range overrides {
		table.params[strings.ToLower(name)] = params
	}
	return table, nil
}

// Params returns the ranges for an emotion, case-insensitively. Unknown
// emotions map to the neutral fallback.
func (t *EmotionTable) Params(emotion string) EmotionParams {
	if params, ok := t.params[strings.ToLower(emotion)]; ok {
		return params
	}
	return neutralParams
}

// All returns the full table.
func (t *EmotionTable) All() map[string]EmotionParams {
	out := make(map[string]EmotionParams, len(t.params))
	for name, params := range t.params {
		out[name] = params
	}
	return out
}
