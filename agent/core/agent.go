package core

import (
	"context"
	"strings"
)

// ContentBlock is a single element of a message body. Exactly one field is
// set: plain text, or a structured tool result.
type ContentBlock struct {
	Text       string      `json:"text,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// ToolResult carries the output of a tool execution back into the
// conversation as nested content blocks.
type ToolResult struct {
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   []ContentBlock `json:"content,omitempty"`
	Status    string         `json:"status,omitempty"` // "success" or "error"
}

// Message represents a conversation message with role and ordered content blocks
type Message struct {
	Role    string            `json:"role"` // "user", "assistant", "tool"
	Content []ContentBlock    `json:"content"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// NewTextMessage creates a message with a single text content block
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{{Text: text}}}
}

// Text returns the representative text of the message: the concatenation of
// all text blocks in order, including text nested in tool results. Non-text
// blocks are ignored.
func (m Message) Text() string {
	parts := make([]string, 0, len(m.Content))
	for _, block := range m.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
		if block.ToolResult != nil {
			for _, inner := range block.ToolResult.Content {
				if inner.Text != "" {
					parts = append(parts, inner.Text)
				}
			}
		}
	}
	return strings.Join(parts, " ")
}

// Agent defines the core interface for AI agents
type Agent interface {
	// Run executes one reasoning-action loop with the given input and returns output
	Run(ctx context.Context, input Message) (Message, error)

	// RunStream executes the agent loop and streams responses via the provided channel
	RunStream(ctx context.Context, input Message, output chan<- Message) error
}

// AgentConfig holds configuration for creating agents
type AgentConfig struct {
	MaxIterations int
	Timeout       string
	SystemPrompt  string
	SessionID     string
}

// ToolCall represents a requested tool execution parsed from an LLM response
type ToolCall struct {
	Name      string
	Arguments string // JSON string per llm.Function.Arguments
}
