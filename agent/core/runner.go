package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gatewright/go-guardrails/llm"
	"github.com/gatewright/go-guardrails/memory"
	obs "github.com/gatewright/go-guardrails/observability"
	"github.com/gatewright/go-guardrails/tools"
)

// ChatAgent is the default implementation of the Agent interface. Every
// message appended to the conversation (user input, tool results, assistant
// output) passes through the hook registry before it is committed; a hook
// error aborts the turn and the triggering message is not persisted.
type ChatAgent struct {
	Model  llm.Client
	Tools  tools.Registry
	Mem    memory.ConversationStore
	Hooks  *HookRegistry
	Config AgentConfig
}

// ChatConfig holds configuration for ChatAgent
type ChatConfig struct {
	Model  llm.Client
	Tools  tools.Registry
	Mem    memory.ConversationStore
	Hooks  *HookRegistry
	Config AgentConfig
}

// NewChatAgent creates a new ChatAgent with the given configuration
func NewChatAgent(config ChatConfig) *ChatAgent {
	return &ChatAgent{
		Model:  config.Model,
		Tools:  config.Tools,
		Mem:    config.Mem,
		Hooks:  config.Hooks,
		Config: config.Config,
	}
}

func (a *ChatAgent) sessionID(input Message) string {
	if id, ok := input.Meta["session_id"]; ok && id != "" {
		return id
	}
	if a.Config.SessionID != "" {
		return a.Config.SessionID
	}
	return "default"
}

// Run implements the Agent interface
func (a *ChatAgent) Run(ctx context.Context, input Message) (Message, error) {
	span, ctx := obs.TracerImpl.StartSpan(ctx, "agent.run")
	defer span.End()

	if a.Config.Timeout != "" {
		timeout, err := time.ParseDuration(a.Config.Timeout)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, fmt.Errorf("invalid timeout duration: %w", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sessionID := a.sessionID(input)

	history, err := a.loadHistory(ctx, sessionID)
	if err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, fmt.Errorf("failed to load conversation: %w", err)
	}

	// Hooks see the input before it is committed. A blocking hook aborts the
	// turn here and the message never reaches memory.
	if err := a.Hooks.MessageAdded(ctx, &MessageAddedEvent{Message: &input, History: history}); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}

	if err := a.appendToMemory(ctx, sessionID, input); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}
	history = append(history, input)

	// Prepare messages for the LLM
	messages := []llm.Message{{
		Role:    "system",
		Content: a.Config.SystemPrompt,
	}}
	for _, msg := range history {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Text(),
		})
	}

	// Build tool definitions from registry (if any)
	var toolDefs []llm.Tool
	if a.Tools != nil {
		for _, name := range a.Tools.List() {
			if t, ok := a.Tools.Get(name); ok {
				toolDefs = append(toolDefs, llm.Tool{
					Type: "function",
					Function: llm.ToolFunction{
						Name:        t.Name(),
						Description: t.Description(),
						Parameters:  t.Schema(),
					},
				})
			}
		}
	}

	// ReAct-lite loop
	maxIterations := a.Config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 1
	}

	var finalResp *llm.Response
	for iter := 0; iter < maxIterations; iter++ {
		req := &llm.ChatRequest{
			Messages: messages,
			Tools:    toolDefs,
		}

		response, err := a.Model.Chat(ctx, req)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, fmt.Errorf("LLM call failed: %w", err)
		}
		finalResp = response

		// If tool calls are requested, execute them and continue loop
		if len(response.ToolCalls) > 0 && a.Tools != nil {
			messages = append(messages, llm.Message{Role: "assistant", Content: response.Content})

			for _, tc := range response.ToolCalls {
				toolName := tc.Function.Name
				tool, ok := a.Tools.Get(toolName)
				if !ok {
					span.AddEvent("tool.not_found", map[string]interface{}{"tool": toolName})
					continue
				}

				// Parse arguments; support {"input":"..."} or raw string
				inputStr := tc.Function.Arguments
				var argObj map[string]interface{}
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &argObj); err == nil {
					if v, ok := argObj["input"].(string); ok {
						inputStr = v
					}
				}

				result, execErr := a.Tools.Execute(ctx, tool.Name(), inputStr)
				status := "success"
				if execErr != nil {
					result = fmt.Sprintf("error: %v", execErr)
					status = "error"
				}

				toolMsg := Message{
					Role: "tool",
					Content: []ContentBlock{{
						ToolResult: &ToolResult{
							ToolUseID: tc.ID,
							Content:   []ContentBlock{{Text: result}},
							Status:    status,
						},
					}},
				}

				// Tool results are messages too; hooks may block them.
				if err := a.Hooks.MessageAdded(ctx, &MessageAddedEvent{Message: &toolMsg, History: history}); err != nil {
					span.SetStatus(obs.StatusCodeError, err.Error())
					return Message{}, err
				}
				history = append(history, toolMsg)

				messages = append(messages, llm.Message{
					Role:       "tool",
					Content:    result,
					ToolCallID: tc.ID,
				})
			}

			// Continue to next iteration for model to observe tool outputs
			continue
		}

		// No tool calls, take this as final answer
		break
	}

	if finalResp == nil {
		span.SetStatus(obs.StatusCodeError, "no response")
		return Message{}, fmt.Errorf("no response from model")
	}

	result := NewTextMessage("assistant", finalResp.Content)

	// The assistant output passes through the same hook path before commit.
	if err := a.Hooks.MessageAdded(ctx, &MessageAddedEvent{Message: &result, History: history}); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}

	if err := a.appendToMemory(ctx, sessionID, result); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}

	span.SetStatus(obs.StatusCodeOk, "")
	return result, nil
}

// loadHistory reconstructs the committed conversation as core messages
func (a *ChatAgent) loadHistory(ctx context.Context, sessionID string) ([]Message, error) {
	if a.Mem == nil {
		return nil, nil
	}
	stored, err := a.Mem.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	history := make([]Message, 0, len(stored))
	for _, m := range stored {
		history = append(history, NewTextMessage(m.Role, m.Content))
	}
	return history, nil
}

func (a *ChatAgent) appendToMemory(ctx context.Context, sessionID string, msg Message) error {
	if a.Mem == nil {
		return nil
	}
	if err := a.Mem.AppendMessage(ctx, sessionID, msg.Role, msg.Text()); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// RunStream implements the Agent interface for streaming responses
func (a *ChatAgent) RunStream(ctx context.Context, input Message, output chan<- Message) error {
	defer close(output)

	// For now, just run normally and send the result
	result, err := a.Run(ctx, input)
	if err != nil {
		return err
	}

	select {
	case output <- result:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
