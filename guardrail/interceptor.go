package guardrail

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatewright/go-guardrails/agent/core"
	"github.com/gatewright/go-guardrails/audit"
	obs "github.com/gatewright/go-guardrails/observability"
)

// FailurePolicy decides what happens when the backend cannot serve a check
type FailurePolicy int

const (
	// FailClosed propagates backend errors, aborting the turn (default)
	FailClosed FailurePolicy = iota
	// FailOpen logs backend errors and lets the message through
	FailOpen
)

// EmptyTextPolicy decides how whitespace-only extracted text is handled
type EmptyTextPolicy int

const (
	// EmptyValidate still invokes the validator; whether empty input passes
	// is backend-defined (default)
	EmptyValidate EmptyTextPolicy = iota
	// EmptyAllow skips validation for whitespace-only text
	EmptyAllow
)

// MalformedPolicy decides how messages with no text content at all are handled
type MalformedPolicy int

const (
	// MalformedAllow treats a message without usable text as passing, since
	// absent text cannot itself violate policy (default)
	MalformedAllow MalformedPolicy = iota
	// MalformedBlock aborts the turn with a KindMalformed error
	MalformedBlock
)

// Interceptor bridges a Validator into the conversation engine. It receives
// every message-added event, extracts the message text, invokes the validator
// once, and converts a failing verdict into a KindContentPolicy error that
// aborts the turn. It holds no per-call state and is safe for concurrent use.
type Interceptor struct {
	validator Validator
	roles     map[string]bool
	failure   FailurePolicy
	empty     EmptyTextPolicy
	malformed MalformedPolicy
	recorder  audit.Recorder
	logger    zerolog.Logger
}

// Option configures an Interceptor
type Option func(*Interceptor)

// WithRoles restricts checks to the given roles; default is all roles
func WithRoles(roles ...string) Option {
	return func(i *Interceptor) {
		i.roles = make(map[string]bool, len(roles))
		for _, r := range roles {
			i.roles[r] = true
		}
	}
}

// WithFailurePolicy sets the fail-open/fail-closed behavior for backend errors
func WithFailurePolicy(p FailurePolicy) Option {
	return func(i *Interceptor) { i.failure = p }
}

// WithEmptyTextPolicy sets handling of whitespace-only extracted text
func WithEmptyTextPolicy(p EmptyTextPolicy) Option {
	return func(i *Interceptor) { i.empty = p }
}

// WithMalformedPolicy sets handling of messages with no text content
func WithMalformedPolicy(p MalformedPolicy) Option {
	return func(i *Interceptor) { i.malformed = p }
}

// WithAuditRecorder records every decision to the given recorder
func WithAuditRecorder(r audit.Recorder) Option {
	return func(i *Interceptor) { i.recorder = r }
}

// WithLogger sets the decision logger; default discards
func WithLogger(l zerolog.Logger) Option {
	return func(i *Interceptor) { i.logger = l }
}

// NewInterceptor creates an interceptor around the given validator
func NewInterceptor(v Validator, opts ...Option) *Interceptor {
	i := &Interceptor{
		validator: v,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// OnMessageAdded implements core.Hook
func (i *Interceptor) OnMessageAdded(ctx context.Context, ev *core.MessageAddedEvent) error {
	if ev == nil || ev.Message == nil {
		return nil
	}
	msg := ev.Message
	if i.roles != nil && !i.roles[msg.Role] {
		return nil
	}

	text := msg.Text()
	if text == "" {
		return i.handleMalformed(ctx, msg.Role)
	}
	if strings.TrimSpace(text) == "" && i.empty == EmptyAllow {
		i.record(ctx, audit.Decision{
			Time:    time.Now(),
			Backend: i.validator.Name(),
			Role:    msg.Role,
			Action:  audit.ActionSkipped,
			Reason:  "whitespace-only text",
		})
		return nil
	}

	span, ctx := obs.TracerImpl.StartSpan(ctx, "guardrail.check")
	span.SetAttribute(obs.AttrGuardrailBackend, i.validator.Name())
	span.SetAttribute(obs.AttrGuardrailRole, msg.Role)
	defer span.End()

	labels := map[string]string{
		"backend": i.validator.Name(),
		"role":    msg.Role,
	}
	obs.MetricsImpl.IncrementChecks(labels)

	start := time.Now()
	verdict, err := i.validator.Validate(ctx, text)
	latency := time.Since(start)
	obs.MetricsImpl.RecordLatency(latency, labels)

	if err != nil {
		return i.handleBackendError(ctx, span, msg.Role, latency, err)
	}

	if verdict.Pass {
		span.SetAttribute(obs.AttrGuardrailAction, audit.ActionAllowed)
		span.SetStatus(obs.StatusCodeOk, "")
		i.logger.Debug().
			Str("backend", i.validator.Name()).
			Str("role", msg.Role).
			Float64("confidence", verdict.Confidence).
			Msg("guardrail check passed")
		i.record(ctx, audit.Decision{
			Time:       start,
			Backend:    i.validator.Name(),
			Role:       msg.Role,
			Action:     audit.ActionAllowed,
			Confidence: verdict.Confidence,
			Latency:    latency,
		})
		return nil
	}

	span.SetAttribute(obs.AttrGuardrailAction, audit.ActionBlocked)
	span.SetStatus(obs.StatusCodeError, verdict.Reason)
	obs.MetricsImpl.IncrementBlocked(labels)
	i.logger.Warn().
		Str("backend", i.validator.Name()).
		Str("role", msg.Role).
		Str("reason", verdict.Reason).
		Float64("confidence", verdict.Confidence).
		Msg("guardrail blocked message")
	i.record(ctx, audit.Decision{
		Time:       start,
		Backend:    i.validator.Name(),
		Role:       msg.Role,
		Action:     audit.ActionBlocked,
		Reason:     verdict.Reason,
		Confidence: verdict.Confidence,
		Latency:    latency,
	})

	return NewContentPolicyError(i.validator.Name(), verdict.Reason, verdict.Confidence)
}

func (i *Interceptor) handleMalformed(ctx context.Context, role string) error {
	i.record(ctx, audit.Decision{
		Time:    time.Now(),
		Backend: i.validator.Name(),
		Role:    role,
		Action:  audit.ActionSkipped,
		Reason:  "no text content",
	})
	if i.malformed == MalformedBlock {
		return NewMalformedError(i.validator.Name(), "message contains no text content")
	}
	i.logger.Debug().
		Str("backend", i.validator.Name()).
		Str("role", role).
		Msg("no text content found in message")
	return nil
}

func (i *Interceptor) handleBackendError(ctx context.Context, span obs.Span, role string, latency time.Duration, err error) error {
	gerr, ok := AsError(err)
	if !ok {
		gerr = NewUnavailableError(i.validator.Name(), "guardrail check failed", err)
	}

	// A typed policy violation from a composite backend propagates as-is.
	if gerr.Kind == KindContentPolicy {
		span.SetAttribute(obs.AttrGuardrailAction, audit.ActionBlocked)
		span.SetStatus(obs.StatusCodeError, gerr.Reason)
		obs.MetricsImpl.IncrementBlocked(map[string]string{"backend": gerr.Backend, "role": role})
		i.record(ctx, audit.Decision{
			Time:       time.Now(),
			Backend:    gerr.Backend,
			Role:       role,
			Action:     audit.ActionBlocked,
			Reason:     gerr.Reason,
			Confidence: gerr.Confidence,
			Latency:    latency,
		})
		return gerr
	}

	obs.MetricsImpl.RecordError(string(gerr.Kind), map[string]string{"backend": i.validator.Name()})
	i.record(ctx, audit.Decision{
		Time:    time.Now(),
		Backend: i.validator.Name(),
		Role:    role,
		Action:  audit.ActionErrored,
		Reason:  gerr.Reason,
		Latency: latency,
	})

	if i.failure == FailOpen {
		span.SetAttribute(obs.AttrGuardrailAction, audit.ActionAllowed)
		span.SetStatus(obs.StatusCodeOk, "fail-open")
		i.logger.Warn().
			Err(err).
			Str("backend", i.validator.Name()).
			Msg("guardrail backend unavailable, allowing message (fail-open)")
		return nil
	}

	span.SetAttribute(obs.AttrGuardrailAction, audit.ActionErrored)
	span.SetStatus(obs.StatusCodeError, gerr.Reason)
	i.logger.Error().
		Err(err).
		Str("backend", i.validator.Name()).
		Msg("guardrail backend unavailable, blocking message (fail-closed)")
	return gerr
}

func (i *Interceptor) record(ctx context.Context, d audit.Decision) {
	if i.recorder == nil {
		return
	}
	if err := i.recorder.Record(ctx, d); err != nil {
		i.logger.Error().Err(err).Msg("failed to record guardrail decision")
	}
}

var _ core.Hook = (*Interceptor)(nil)
