// Package bedrock implements the remote-classification guardrail backend on
// top of the AWS Bedrock ApplyGuardrail API.
package bedrock

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/gatewright/go-guardrails/guardrail"
)

const backendName = "bedrock"

// api is the slice of the Bedrock runtime client this backend uses
type api interface {
	ApplyGuardrail(ctx context.Context, params *bedrockruntime.ApplyGuardrailInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ApplyGuardrailOutput, error)
}

// Config holds Bedrock guardrail configuration
type Config struct {
	Region           string
	GuardrailID      string
	GuardrailVersion string
	// Source is "INPUT" or "OUTPUT"; defaults to "INPUT"
	Source string
}

// Validator checks text against a configured Bedrock guardrail
type Validator struct {
	client api
	config Config
	source types.GuardrailContentSource
}

// New creates a validator using the default AWS credential chain
func New(ctx context.Context, config Config) (*Validator, error) {
	if config.GuardrailID == "" {
		return nil, fmt.Errorf("guardrail id is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return NewWithClient(bedrockruntime.NewFromConfig(cfg), config)
}

// NewWithClient creates a validator around an existing client
func NewWithClient(client api, config Config) (*Validator, error) {
	if config.GuardrailID == "" {
		return nil, fmt.Errorf("guardrail id is required")
	}
	if config.GuardrailVersion == "" {
		config.GuardrailVersion = "DRAFT"
	}
	source := types.GuardrailContentSourceInput
	if strings.EqualFold(config.Source, "OUTPUT") {
		source = types.GuardrailContentSourceOutput
	}
	return &Validator{client: client, config: config, source: source}, nil
}

// Name implements guardrail.Validator
func (v *Validator) Name() string {
	return backendName
}

// Validate implements guardrail.Validator
func (v *Validator) Validate(ctx context.Context, text string) (*guardrail.Verdict, error) {
	out, err := v.client.ApplyGuardrail(ctx, &bedrockruntime.ApplyGuardrailInput{
		GuardrailIdentifier: aws.String(v.config.GuardrailID),
		GuardrailVersion:    aws.String(v.config.GuardrailVersion),
		Source:              v.source,
		Content: []types.GuardrailContentBlock{
			&types.GuardrailContentBlockMemberText{
				Value: types.GuardrailTextBlock{Text: aws.String(text)},
			},
		},
	})
	if err != nil {
		return nil, guardrail.NewUnavailableError(backendName, "apply guardrail request failed", err)
	}

	if out.Action != types.GuardrailActionGuardrailIntervened {
		return &guardrail.Verdict{Pass: true, Confidence: 1}, nil
	}

	reason, confidence, labels := summarizeAssessments(out.Assessments)
	if reason == "" {
		reason = "guardrail intervened"
	}
	return &guardrail.Verdict{
		Pass:       false,
		Reason:     reason,
		Confidence: confidence,
		Labels:     labels,
	}, nil
}

// summarizeAssessments flattens the service's per-policy assessments into a
// single human-readable reason plus the highest observed filter confidence.
func summarizeAssessments(assessments []types.GuardrailAssessment) (string, float64, []string) {
	var parts []string
	var labels []string
	confidence := 0.0

	for _, a := range assessments {
		if a.TopicPolicy != nil {
			for _, topic := range a.TopicPolicy.Topics {
				name := aws.ToString(topic.Name)
				parts = append(parts, fmt.Sprintf("denied topic %q", name))
				labels = append(labels, "topic:"+name)
			}
		}
		if a.ContentPolicy != nil {
			for _, filter := range a.ContentPolicy.Filters {
				parts = append(parts, fmt.Sprintf("harmful content (%s)", filter.Type))
				labels = append(labels, "content:"+string(filter.Type))
				if c := filterConfidence(filter.Confidence); c > confidence {
					confidence = c
				}
			}
		}
		if a.WordPolicy != nil {
			for _, w := range a.WordPolicy.CustomWords {
				parts = append(parts, fmt.Sprintf("blocked word %q", aws.ToString(w.Match)))
			}
			for _, w := range a.WordPolicy.ManagedWordLists {
				parts = append(parts, fmt.Sprintf("managed word match %q", aws.ToString(w.Match)))
			}
		}
		if a.SensitiveInformationPolicy != nil {
			for _, pii := range a.SensitiveInformationPolicy.PiiEntities {
				parts = append(parts, fmt.Sprintf("sensitive information (%s)", pii.Type))
				labels = append(labels, "pii:"+string(pii.Type))
			}
		}
	}

	return strings.Join(parts, "; "), confidence, labels
}

func filterConfidence(c types.GuardrailContentFilterConfidence) float64 {
	switch c {
	case types.GuardrailContentFilterConfidenceHigh:
		return 0.99
	case types.GuardrailContentFilterConfidenceMedium:
		return 0.66
	case types.GuardrailContentFilterConfidenceLow:
		return 0.33
	default:
		return 0
	}
}

var _ guardrail.Validator = (*Validator)(nil)
