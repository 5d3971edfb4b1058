package guardrail

import "context"

// Multi runs several validators in order against the same text, the way a
// scanner chain does: the first failing verdict wins and later validators are
// not consulted. A backend error short-circuits with that error.
type Multi struct {
	name       string
	validators []Validator
}

// NewMulti creates a composite validator from the given chain
func NewMulti(name string, validators ...Validator) *Multi {
	if name == "" {
		name = "multi"
	}
	return &Multi{name: name, validators: validators}
}

// Name implements Validator
func (m *Multi) Name() string {
	return m.name
}

// Validate implements Validator
func (m *Multi) Validate(ctx context.Context, text string) (*Verdict, error) {
	// Lowest confidence across passing scanners is reported, so a barely
	// passing chain is visible to callers.
	pass := &Verdict{Pass: true, Confidence: 1}
	for _, v := range m.validators {
		verdict, err := v.Validate(ctx, text)
		if err != nil {
			return nil, err
		}
		if !verdict.Pass {
			return verdict, nil
		}
		if verdict.Confidence > 0 && verdict.Confidence < pass.Confidence {
			pass.Confidence = verdict.Confidence
		}
		pass.Labels = append(pass.Labels, verdict.Labels...)
	}
	return pass, nil
}

var _ Validator = (*Multi)(nil)
