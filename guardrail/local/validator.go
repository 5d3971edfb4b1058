package local

import (
	"context"

	"github.com/gatewright/go-guardrails/guardrail"
)

const backendName = "local"

// Validator scores text with a loaded Model and fails when any label's
// probability reaches its threshold. The model is constructed and torn down
// by the caller; the validator itself is stateless across calls.
type Validator struct {
	model *Model
}

// NewValidator wraps a loaded model
func NewValidator(model *Model) *Validator {
	return &Validator{model: model}
}

// Name implements guardrail.Validator
func (v *Validator) Name() string {
	return backendName
}

// Validate implements guardrail.Validator
func (v *Validator) Validate(ctx context.Context, text string) (*guardrail.Verdict, error) {
	scores, err := v.model.Score(text)
	if err != nil {
		return nil, guardrail.NewUnavailableError(backendName, "model scoring failed", err)
	}

	var worst *Score
	maxProb := 0.0
	for i := range scores {
		s := &scores[i]
		if s.Probability > maxProb {
			maxProb = s.Probability
		}
		if s.Probability >= s.Threshold {
			if worst == nil || s.Probability > worst.Probability {
				worst = s
			}
		}
	}

	if worst != nil {
		return &guardrail.Verdict{
			Pass:       false,
			Reason:     worst.Reason,
			Confidence: worst.Probability,
			Labels:     []string{worst.Label},
		}, nil
	}

	return &guardrail.Verdict{Pass: true, Confidence: 1 - maxProb}, nil
}

var _ guardrail.Validator = (*Validator)(nil)
