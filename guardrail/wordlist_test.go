package guardrail

import (
	"context"
	"strings"
	"testing"
)

func TestWordlist(t *testing.T) {
	g := &Wordlist{MaxChars: 5, DenySubstrings: []string{"bad"}}
	// Short and clean passes
	v, err := g.Validate(context.Background(), "hello")
	if err != nil || !v.Pass {
		t.Fatalf("expected pass, got %+v, %v", v, err)
	}
	// Over the limit fails
	v, _ = g.Validate(context.Background(), "toolong")
	if v.Pass || !strings.Contains(v.Reason, "maximum length") {
		t.Fatalf("expected length fail, got %+v", v)
	}
	// Allowlist blocks when configured and no allowed substring present
	g = &Wordlist{AllowSubstrings: []string{"ok"}}
	v, _ = g.Validate(context.Background(), "fine")
	if v.Pass {
		t.Fatalf("expected allowlist block")
	}
	// But allows when allowed substring appears
	v, _ = g.Validate(context.Background(), "ok content")
	if !v.Pass {
		t.Fatalf("expected allowlist pass, got %q", v.Reason)
	}
	// Deny substring blocks, case-insensitive
	g = &Wordlist{DenySubstrings: []string{"bad"}}
	v, _ = g.Validate(context.Background(), "very BAD thing")
	if v.Pass {
		t.Fatalf("expected deny fail")
	}
	if !strings.Contains(v.Reason, "bad") {
		t.Fatalf("expected denied term in reason, got %q", v.Reason)
	}
}
