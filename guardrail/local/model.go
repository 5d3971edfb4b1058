// Package local implements the local-model guardrail backend: a safety
// classifier loaded once from a model file and shared read-only across
// checks.
package local

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"sync/atomic"
)

// LabelSpec is one classification head of the model: a linear scorer over
// token unigram and bigram features squashed through a logistic function.
type LabelSpec struct {
	Name      string             `json:"name"`
	Reason    string             `json:"reason"`
	Threshold float64            `json:"threshold"`
	Bias      float64            `json:"bias"`
	Weights   map[string]float64 `json:"weights"`
}

// ModelSpec is the on-disk model format
type ModelSpec struct {
	Version int         `json:"version"`
	Labels  []LabelSpec `json:"labels"`
}

// Model is a loaded safety classifier. It is immutable after construction
// and safe for concurrent scoring; Close releases it and is the exclusive
// owner's responsibility.
type Model struct {
	labels []LabelSpec
	closed atomic.Bool
}

// LoadModel reads and validates a model file
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	var spec ModelSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse model file: %w", err)
	}
	return NewModel(spec)
}

// NewModel builds a model from an in-memory spec
func NewModel(spec ModelSpec) (*Model, error) {
	if len(spec.Labels) == 0 {
		return nil, fmt.Errorf("model has no labels")
	}
	for i, l := range spec.Labels {
		if l.Name == "" {
			return nil, fmt.Errorf("label %d has no name", i)
		}
		if l.Threshold <= 0 || l.Threshold >= 1 {
			return nil, fmt.Errorf("label %q threshold must be in (0,1)", l.Name)
		}
	}
	return &Model{labels: spec.Labels}, nil
}

// Score is one label's probability for a piece of text
type Score struct {
	Label       string
	Reason      string
	Probability float64
	Threshold   float64
}

// Score computes all label probabilities for the text
func (m *Model) Score(text string) ([]Score, error) {
	if m.closed.Load() {
		return nil, fmt.Errorf("model is closed")
	}
	features := featurize(text)
	scores := make([]Score, 0, len(m.labels))
	for _, l := range m.labels {
		sum := l.Bias
		for f := range features {
			if w, ok := l.Weights[f]; ok {
				sum += w
			}
		}
		scores = append(scores, Score{
			Label:       l.Name,
			Reason:      l.Reason,
			Probability: sigmoid(sum),
			Threshold:   l.Threshold,
		})
	}
	return scores, nil
}

// Close releases the model. Subsequent scoring fails.
func (m *Model) Close() error {
	m.closed.Store(true)
	return nil
}

// featurize lowercases the text and emits unigram and adjacent-bigram token
// features as a set
func featurize(text string) map[string]struct{} {
	tokens := tokenize(text)
	features := make(map[string]struct{}, len(tokens)*2)
	for i, tok := range tokens {
		features[tok] = struct{}{}
		if i > 0 {
			features[tokens[i-1]+" "+tok] = struct{}{}
		}
	}
	return features
}

func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'' || r == '*' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
