// Package rules implements the rule-engine-server guardrail backend: checks
// are delegated to a locally hosted rule evaluation service that answers
// allow/deny per message.
package rules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gatewright/go-guardrails/guardrail"
)

const backendName = "rules"

// Config holds rule server configuration
type Config struct {
	// BaseURL of the rule server, e.g. "http://127.0.0.1:8000"
	BaseURL string
	// ConfigID selects the rule configuration on the server
	ConfigID string
	// Role sent with the message; defaults to "user"
	Role string
	// Timeout for a single check; defaults to 10s
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests
	HTTPClient *http.Client
}

// Client checks text against a rule evaluation server
type Client struct {
	config Config
	client *http.Client
}

type checkMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type checkRequest struct {
	ConfigID string         `json:"config_id"`
	Messages []checkMessage `json:"messages"`
}

type checkResponse struct {
	Messages []checkMessage `json:"messages"`
}

// New creates a rule server client
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if config.ConfigID == "" {
		return nil, fmt.Errorf("config id is required")
	}
	if config.Role == "" {
		config.Role = "user"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{config: config, client: httpClient}, nil
}

// Name implements guardrail.Validator
func (c *Client) Name() string {
	return backendName
}

// Validate implements guardrail.Validator
func (c *Client) Validate(ctx context.Context, text string) (*guardrail.Verdict, error) {
	payload := checkRequest{
		ConfigID: c.config.ConfigID,
		Messages: []checkMessage{{Role: c.config.Role, Content: text}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, guardrail.NewUnavailableError(backendName, "failed to encode request", err)
	}

	url := c.config.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, guardrail.NewUnavailableError(backendName, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, guardrail.NewUnavailableError(backendName, "rule server unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, guardrail.NewUnavailableError(backendName,
			fmt.Sprintf("rule server returned status %d", resp.StatusCode), nil)
	}

	var out checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, guardrail.NewUnavailableError(backendName, "failed to decode response", err)
	}
	if len(out.Messages) == 0 {
		return nil, guardrail.NewUnavailableError(backendName, "no messages returned from rule server", nil)
	}

	// The server answers with "ALLOW" (or an empty message) when the content
	// is permitted; any other content is the denial text.
	answer := out.Messages[0].Content
	if answer == "ALLOW" || answer == "" {
		return &guardrail.Verdict{Pass: true, Confidence: 1}, nil
	}

	return &guardrail.Verdict{
		Pass:   false,
		Reason: answer,
	}, nil
}

var _ guardrail.Validator = (*Client)(nil)
