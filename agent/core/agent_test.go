package core

import (
	"context"
	"errors"
	"testing"

	"github.com/gatewright/go-guardrails/llm"
	"github.com/gatewright/go-guardrails/memory/inmemory"
	"github.com/gatewright/go-guardrails/tools"
)

func TestMessageTextJoinsBlocks(t *testing.T) {
	msg := Message{
		Role: "user",
		Content: []ContentBlock{
			{Text: "first"},
			{Text: "second"},
		},
	}
	if got := msg.Text(); got != "first second" {
		t.Fatalf("expected joined text, got %q", got)
	}
}

func TestMessageTextIncludesToolResults(t *testing.T) {
	msg := Message{
		Role: "user",
		Content: []ContentBlock{
			{Text: "wrapper"},
			{ToolResult: &ToolResult{
				ToolUseID: "t1",
				Content:   []ContentBlock{{Text: "nested output"}},
				Status:    "success",
			}},
		},
	}
	if got := msg.Text(); got != "wrapper nested output" {
		t.Fatalf("expected nested tool result text, got %q", got)
	}
}

func TestMessageTextEmpty(t *testing.T) {
	msg := Message{Role: "user"}
	if got := msg.Text(); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestRunToolLoop(t *testing.T) {
	reg := tools.NewRegistry()
	if err := reg.Register(&tools.CalculatorTool{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	model := &fakeLLM{responses: []*llm.Response{
		{
			Role:         "assistant",
			FinishReason: "tool_calls",
			ToolCalls: []llm.ToolCall{{
				ID:   "call-1",
				Type: "function",
				Function: llm.Function{
					Name:      "calculator",
					Arguments: `{"input":"add 2 3"}`,
				},
			}},
		},
		textResponse("The answer is 5."),
	}}

	var toolMessages int
	hooks := NewHookRegistry(HookFunc(func(ctx context.Context, ev *MessageAddedEvent) error {
		if ev.Message.Role == "tool" {
			toolMessages++
			if ev.Message.Text() != "5" {
				t.Errorf("expected tool result text, got %q", ev.Message.Text())
			}
		}
		return nil
	}))

	agent := NewChatAgent(ChatConfig{
		Model:  model,
		Tools:  reg,
		Mem:    inmemory.NewConversationStore(),
		Hooks:  hooks,
		Config: AgentConfig{MaxIterations: 3, SessionID: "s1"},
	})

	result, err := agent.Run(context.Background(), NewTextMessage("user", "what is 2+3?"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Text() != "The answer is 5." {
		t.Fatalf("unexpected final answer %q", result.Text())
	}
	if toolMessages != 1 {
		t.Fatalf("expected hooks to see 1 tool message, got %d", toolMessages)
	}
	if model.calls != 2 {
		t.Fatalf("expected 2 model calls, got %d", model.calls)
	}
}

func TestRunBlockedToolResultAbortsTurn(t *testing.T) {
	reg := tools.NewRegistry()
	if err := reg.Register(&tools.CalculatorTool{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	model := &fakeLLM{responses: []*llm.Response{
		{
			Role:         "assistant",
			FinishReason: "tool_calls",
			ToolCalls: []llm.ToolCall{{
				ID:   "call-1",
				Type: "function",
				Function: llm.Function{
					Name:      "calculator",
					Arguments: `{"input":"add 2 3"}`,
				},
			}},
		},
		textResponse("should never be reached"),
	}}

	blockErr := errors.New("tool output rejected")
	hooks := NewHookRegistry(HookFunc(func(ctx context.Context, ev *MessageAddedEvent) error {
		if ev.Message.Role == "tool" {
			return blockErr
		}
		return nil
	}))

	agent := NewChatAgent(ChatConfig{
		Model:  model,
		Tools:  reg,
		Hooks:  hooks,
		Config: AgentConfig{MaxIterations: 3},
	})

	_, err := agent.Run(context.Background(), NewTextMessage("user", "what is 2+3?"))
	if !errors.Is(err, blockErr) {
		t.Fatalf("expected block error, got %v", err)
	}
	if model.calls != 1 {
		t.Fatalf("model must not be called again after a blocked tool result, got %d calls", model.calls)
	}
}
