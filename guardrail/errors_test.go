package guardrail

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	policy := NewContentPolicyError("rules", "content not allowed", 0.9)
	if !IsContentPolicy(policy) {
		t.Fatalf("expected content policy kind")
	}
	if IsUnavailable(policy) || IsMalformed(policy) {
		t.Fatalf("kind predicates overlap")
	}

	cause := errors.New("connection refused")
	unavail := NewUnavailableError("rules", "rule server unreachable", cause)
	if !IsUnavailable(unavail) {
		t.Fatalf("expected unavailable kind")
	}
	if !errors.Is(unavail, cause) {
		t.Fatalf("expected cause to unwrap")
	}

	malformed := NewMalformedError("rules", "no text")
	if !IsMalformed(malformed) {
		t.Fatalf("expected malformed kind")
	}
}

func TestErrorThroughWrapping(t *testing.T) {
	inner := NewContentPolicyError("bedrock", "topic denied", 0.75)
	wrapped := fmt.Errorf("turn aborted: %w", inner)

	if !IsContentPolicy(wrapped) {
		t.Fatalf("expected kind to survive wrapping")
	}
	gerr, ok := AsError(wrapped)
	if !ok {
		t.Fatalf("expected AsError to find typed error")
	}
	if gerr.Reason != "topic denied" || gerr.Confidence != 0.75 {
		t.Fatalf("unexpected fields: %+v", gerr)
	}
}

func TestErrorString(t *testing.T) {
	err := NewContentPolicyError("local", "toxic language detected", 0.97)
	want := "guardrail local [content_policy_violation]: toxic language detected"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestPredicatesOnForeignError(t *testing.T) {
	err := errors.New("plain")
	if IsContentPolicy(err) || IsUnavailable(err) || IsMalformed(err) {
		t.Fatalf("predicates must not match untyped errors")
	}
}
