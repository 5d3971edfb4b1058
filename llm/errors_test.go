package llm

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestLLMErrorFormatting(t *testing.T) {
	err := NewLLMError(ProviderOpenAI, ErrorTypeRateLimit, "slow down")
	if !strings.Contains(err.Error(), "openai") {
		t.Errorf("expected provider in message, got %q", err.Error())
	}

	err.Code = "rate_limit_exceeded"
	if !strings.Contains(err.Error(), "[rate_limit_exceeded]") {
		t.Errorf("expected code in message, got %q", err.Error())
	}
}

func TestLLMErrorUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewLLMErrorWithCause(ProviderAnthropic, ErrorTypeConnectionError, "connection error", cause)
	if !errors.Is(err, cause) {
		t.Errorf("expected unwrap to reach cause")
	}
}

func TestRetryableClassification(t *testing.T) {
	cases := []struct {
		errType   ErrorType
		retryable bool
	}{
		{ErrorTypeRateLimit, true},
		{ErrorTypeServerError, true},
		{ErrorTypeTimeout, true},
		{ErrorTypeConnectionError, true},
		{ErrorTypeInvalidRequest, false},
		{ErrorTypeAuthentication, false},
		{ErrorTypeContentFilter, false},
	}
	for _, tc := range cases {
		err := NewLLMError(ProviderOpenAI, tc.errType, "x")
		if err.Retryable != tc.retryable {
			t.Errorf("%s: expected retryable=%v", tc.errType, tc.retryable)
		}
		if IsRetryableError(err) != tc.retryable {
			t.Errorf("%s: IsRetryableError mismatch", tc.errType)
		}
	}
}

func TestParseHTTPError(t *testing.T) {
	cases := []struct {
		status   int
		wantType ErrorType
	}{
		{http.StatusBadRequest, ErrorTypeInvalidRequest},
		{http.StatusUnauthorized, ErrorTypeAuthentication},
		{http.StatusForbidden, ErrorTypePermission},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusInternalServerError, ErrorTypeServerError},
		{http.StatusTeapot, ErrorTypeUnknown},
	}
	for _, tc := range cases {
		err := ParseHTTPError(ProviderOpenAI, tc.status, "")
		if err.Type != tc.wantType {
			t.Errorf("status %d: expected %s, got %s", tc.status, tc.wantType, err.Type)
		}
		if err.HTTPStatus != tc.status {
			t.Errorf("status %d: HTTPStatus not preserved", tc.status)
		}
	}
}

func TestParseHTTPErrorTruncatesBody(t *testing.T) {
	body := strings.Repeat("a", 500)
	err := ParseHTTPError(ProviderOpenAI, http.StatusBadRequest, body)
	if len(err.Message) > 300 {
		t.Errorf("expected truncated message, got %d chars", len(err.Message))
	}
	if !strings.HasSuffix(err.Message, "...") {
		t.Errorf("expected ellipsis suffix, got %q", err.Message[len(err.Message)-10:])
	}
}

func TestIsLLMError(t *testing.T) {
	llmErr, ok := IsLLMError(NewLLMError(ProviderOpenAI, ErrorTypeTimeout, "x"))
	if !ok || llmErr.Type != ErrorTypeTimeout {
		t.Errorf("expected match on LLMError")
	}
	if _, ok := IsLLMError(errors.New("plain")); ok {
		t.Errorf("expected no match on plain error")
	}
	if IsRetryableError(errors.New("plain")) {
		t.Errorf("plain errors are never retryable")
	}
}
