package bedrock

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/gatewright/go-guardrails/guardrail"
)

type fakeAPI struct {
	out  *bedrockruntime.ApplyGuardrailOutput
	err  error
	last *bedrockruntime.ApplyGuardrailInput
}

func (f *fakeAPI) ApplyGuardrail(ctx context.Context, params *bedrockruntime.ApplyGuardrailInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ApplyGuardrailOutput, error) {
	f.last = params
	return f.out, f.err
}

func newValidator(t *testing.T, f *fakeAPI) *Validator {
	t.Helper()
	v, err := NewWithClient(f, Config{GuardrailID: "gr-123", GuardrailVersion: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func TestValidatePass(t *testing.T) {
	f := &fakeAPI{out: &bedrockruntime.ApplyGuardrailOutput{Action: types.GuardrailActionNone}}
	v := newValidator(t, f)

	verdict, err := v.Validate(context.Background(), "Hello! How can I help you today?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.Pass {
		t.Fatalf("expected pass, got %q", verdict.Reason)
	}

	if got := aws.ToString(f.last.GuardrailIdentifier); got != "gr-123" {
		t.Fatalf("expected guardrail id sent, got %q", got)
	}
	block, ok := f.last.Content[0].(*types.GuardrailContentBlockMemberText)
	if !ok {
		t.Fatalf("expected text content block, got %T", f.last.Content[0])
	}
	if aws.ToString(block.Value.Text) != "Hello! How can I help you today?" {
		t.Fatalf("unexpected text sent: %q", aws.ToString(block.Value.Text))
	}
}

func TestValidateIntervened(t *testing.T) {
	f := &fakeAPI{out: &bedrockruntime.ApplyGuardrailOutput{
		Action: types.GuardrailActionGuardrailIntervened,
		Assessments: []types.GuardrailAssessment{{
			ContentPolicy: &types.GuardrailContentPolicyAssessment{
				Filters: []types.GuardrailContentFilter{{
					Type:       types.GuardrailContentFilterTypeInsults,
					Confidence: types.GuardrailContentFilterConfidenceHigh,
					Action:     types.GuardrailContentPolicyActionBlocked,
				}},
			},
			TopicPolicy: &types.GuardrailTopicPolicyAssessment{
				Topics: []types.GuardrailTopic{{
					Name:   aws.String("FinancialAdvice"),
					Action: types.GuardrailTopicPolicyActionBlocked,
				}},
			},
		}},
	}}
	v := newValidator(t, f)

	verdict, err := v.Validate(context.Background(), "some offending text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Pass {
		t.Fatalf("expected fail")
	}
	if !strings.Contains(verdict.Reason, "FinancialAdvice") || !strings.Contains(verdict.Reason, "INSULTS") {
		t.Fatalf("expected assessment details in reason, got %q", verdict.Reason)
	}
	if verdict.Confidence != 0.99 {
		t.Fatalf("expected high confidence mapping, got %v", verdict.Confidence)
	}
}

func TestValidateServiceError(t *testing.T) {
	f := &fakeAPI{err: errors.New("operation error Bedrock Runtime: ApplyGuardrail, request canceled")}
	v := newValidator(t, f)

	_, err := v.Validate(context.Background(), "hello")
	if !guardrail.IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestNewWithClientDefaults(t *testing.T) {
	v, err := NewWithClient(&fakeAPI{}, Config{GuardrailID: "gr-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.config.GuardrailVersion != "DRAFT" {
		t.Fatalf("expected DRAFT default version, got %q", v.config.GuardrailVersion)
	}

	if _, err := NewWithClient(&fakeAPI{}, Config{}); err == nil {
		t.Fatalf("expected error for missing guardrail id")
	}
}
