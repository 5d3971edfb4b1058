package core

import (
	"context"
	"sync"
)

// MessageAddedEvent is delivered to hooks each time the runner is about to
// commit a message to the conversation. Message is the newest, not yet
// committed message; History holds the messages committed so far.
type MessageAddedEvent struct {
	Message *Message
	History []Message
}

// Hook receives conversation lifecycle callbacks. A non-nil error from
// OnMessageAdded aborts the current turn; the triggering message is not
// committed to conversation memory.
type Hook interface {
	OnMessageAdded(ctx context.Context, ev *MessageAddedEvent) error
}

// HookFunc adapts a plain function to the Hook interface
type HookFunc func(ctx context.Context, ev *MessageAddedEvent) error

// OnMessageAdded implements Hook
func (f HookFunc) OnMessageAdded(ctx context.Context, ev *MessageAddedEvent) error {
	return f(ctx, ev)
}

// HookRegistry holds registered hooks and dispatches events to them in
// registration order. A nil *HookRegistry is valid and dispatches nothing.
type HookRegistry struct {
	mu    sync.RWMutex
	hooks []Hook
}

// NewHookRegistry creates a registry with the given hooks pre-registered
func NewHookRegistry(hooks ...Hook) *HookRegistry {
	return &HookRegistry{hooks: hooks}
}

// Add registers a hook
func (r *HookRegistry) Add(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// MessageAdded dispatches the event to all hooks in order. The first hook
// error stops dispatch and is returned to the caller.
func (r *HookRegistry) MessageAdded(ctx context.Context, ev *MessageAddedEvent) error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	hooks := make([]Hook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := h.OnMessageAdded(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
