// Package guardrail implements content-safety interception for agent
// conversations. A Validator checks a piece of text against one backend
// (remote classification API, local model, rule server); the Interceptor
// bridges validators into the conversation engine's message-added hook and
// turns failing verdicts into typed errors that abort the turn.
package guardrail

import "context"

// Verdict is the result of a single guardrail check. It is ephemeral and not
// persisted by the core; audit recording is a separate concern.
type Verdict struct {
	Pass       bool     `json:"pass"`
	Reason     string   `json:"reason,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Labels     []string `json:"labels,omitempty"`
}

// Validator checks text against a single guardrail backend.
//
// Implementations must be safe for concurrent independent invocation: calls
// share no mutable state beyond a read-only loaded model or a connection
// pool. A definitive content-policy decision is returned as a Verdict with
// Pass=false; backend availability problems (network, timeout, service
// errors) are returned as an error carrying KindUnavailable so callers can
// choose fail-open or fail-closed explicitly.
type Validator interface {
	// Name identifies the backend, used in errors, logs and audit records
	Name() string

	// Validate checks the text and returns a verdict
	Validate(ctx context.Context, text string) (*Verdict, error)
}
