package guardrail

import (
	"context"
	"fmt"
	"strings"
)

// Wordlist provides minimal substring-based filtering and allow/deny checks.
// It is the zero-dependency baseline backend and the reference for validator
// semantics: definitive decisions only, no availability failures.
type Wordlist struct {
	// Fail if any of these substrings appear in the text
	DenySubstrings []string
	// Pass only if at least one of these substrings appears; if empty, allow all
	AllowSubstrings []string
	// Max text length; 0 disables the check
	MaxChars int
}

// Name implements Validator
func (g *Wordlist) Name() string {
	return "wordlist"
}

// Validate implements Validator
func (g *Wordlist) Validate(ctx context.Context, text string) (*Verdict, error) {
	if g.MaxChars > 0 && len(text) > g.MaxChars {
		return &Verdict{
			Pass:   false,
			Reason: fmt.Sprintf("text exceeds maximum length of %d characters", g.MaxChars),
		}, nil
	}

	lower := strings.ToLower(text)
	for _, s := range g.DenySubstrings {
		if s == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(s)) {
			return &Verdict{
				Pass:       false,
				Reason:     fmt.Sprintf("text contains denied term %q", s),
				Confidence: 1,
			}, nil
		}
	}

	if len(g.AllowSubstrings) > 0 {
		allowed := false
		for _, s := range g.AllowSubstrings {
			if s == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(s)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return &Verdict{
				Pass:   false,
				Reason: "text matches no allowed term",
			}, nil
		}
	}

	return &Verdict{Pass: true, Confidence: 1}, nil
}

var _ Validator = (*Wordlist)(nil)
