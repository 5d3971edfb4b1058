package guardrail

import (
	"errors"
	"fmt"
)

// Kind classifies a guardrail error
type Kind string

const (
	// KindContentPolicy means the validator returned a definitive fail
	// verdict. The reason string is always present and the turn aborts.
	KindContentPolicy Kind = "content_policy_violation"

	// KindUnavailable means the backend could not be reached or errored.
	// Distinguished from a policy violation so integrators can decide
	// fail-open vs fail-closed.
	KindUnavailable Kind = "validator_unavailable"

	// KindMalformed means content extraction found no usable text
	KindMalformed Kind = "malformed_message"
)

// Error is a typed guardrail error carrying the failing backend and, for
// policy violations, the verdict's reason and confidence.
type Error struct {
	Kind       Kind    `json:"kind"`
	Backend    string  `json:"backend,omitempty"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence,omitempty"`
	Cause      error   `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("guardrail %s [%s]: %s", e.Backend, e.Kind, e.Reason)
	}
	return fmt.Sprintf("guardrail [%s]: %s", e.Kind, e.Reason)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewContentPolicyError creates an error for a definitive fail verdict
func NewContentPolicyError(backend, reason string, confidence float64) *Error {
	return &Error{
		Kind:       KindContentPolicy,
		Backend:    backend,
		Reason:     reason,
		Confidence: confidence,
	}
}

// NewUnavailableError creates an error for a backend that could not serve the check
func NewUnavailableError(backend, reason string, cause error) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Backend: backend,
		Reason:  reason,
		Cause:   cause,
	}
}

// NewMalformedError creates an error for a message with no usable text
func NewMalformedError(backend, reason string) *Error {
	return &Error{
		Kind:    KindMalformed,
		Backend: backend,
		Reason:  reason,
	}
}

// AsError extracts a guardrail Error from an error chain
func AsError(err error) (*Error, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr, true
	}
	return nil, false
}

// IsContentPolicy reports whether err is a content-policy violation
func IsContentPolicy(err error) bool {
	if gerr, ok := AsError(err); ok {
		return gerr.Kind == KindContentPolicy
	}
	return false
}

// IsUnavailable reports whether err is a backend availability failure
func IsUnavailable(err error) bool {
	if gerr, ok := AsError(err); ok {
		return gerr.Kind == KindUnavailable
	}
	return false
}

// IsMalformed reports whether err signals a message with no usable text
func IsMalformed(err error) bool {
	if gerr, ok := AsError(err); ok {
		return gerr.Kind == KindMalformed
	}
	return false
}
