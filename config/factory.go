package config

import (
	"context"
	"fmt"
	"time"

	"github.com/gatewright/go-guardrails/guardrail"
	"github.com/gatewright/go-guardrails/guardrail/bedrock"
	"github.com/gatewright/go-guardrails/guardrail/local"
	"github.com/gatewright/go-guardrails/guardrail/rules"
)

// NewValidator builds the configured guardrail backend. The returned cleanup
// releases backend resources and is always non-nil.
func NewValidator(ctx context.Context, cfg *Config) (guardrail.Validator, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Guardrail.Backend {
	case "wordlist":
		return &guardrail.Wordlist{
			DenySubstrings:  cfg.Guardrail.Wordlist.Deny,
			AllowSubstrings: cfg.Guardrail.Wordlist.Allow,
			MaxChars:        cfg.Guardrail.Wordlist.MaxChars,
		}, noop, nil

	case "local":
		model, err := local.LoadModel(cfg.Guardrail.Local.ModelPath)
		if err != nil {
			return nil, noop, fmt.Errorf("load local model: %w", err)
		}
		return local.NewValidator(model), model.Close, nil

	case "rules":
		client, err := rules.New(rules.Config{
			BaseURL:  cfg.Guardrail.Rules.BaseURL,
			ConfigID: cfg.Guardrail.Rules.ConfigID,
			Timeout:  time.Duration(cfg.Guardrail.Rules.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("create rules client: %w", err)
		}
		return client, noop, nil

	case "bedrock":
		v, err := bedrock.New(ctx, bedrock.Config{
			Region:           cfg.Guardrail.Bedrock.Region,
			GuardrailID:      cfg.Guardrail.Bedrock.GuardrailID,
			GuardrailVersion: cfg.Guardrail.Bedrock.GuardrailVersion,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("create bedrock validator: %w", err)
		}
		return v, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown guardrail backend %q", cfg.Guardrail.Backend)
}

// InterceptorOptions translates config into interceptor options
func InterceptorOptions(cfg *Config) []guardrail.Option {
	var opts []guardrail.Option
	if cfg.Guardrail.FailOpen {
		opts = append(opts, guardrail.WithFailurePolicy(guardrail.FailOpen))
	}
	if len(cfg.Guardrail.Roles) > 0 {
		opts = append(opts, guardrail.WithRoles(cfg.Guardrail.Roles...))
	}
	return opts
}
