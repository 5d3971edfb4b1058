package core

import (
	"context"
	"errors"
	"testing"
)

func TestHookRegistryDispatchOrder(t *testing.T) {
	var calls []string
	reg := NewHookRegistry(
		HookFunc(func(ctx context.Context, ev *MessageAddedEvent) error {
			calls = append(calls, "first")
			return nil
		}),
	)
	reg.Add(HookFunc(func(ctx context.Context, ev *MessageAddedEvent) error {
		calls = append(calls, "second")
		return nil
	}))

	msg := NewTextMessage("user", "hello")
	if err := reg.MessageAdded(context.Background(), &MessageAddedEvent{Message: &msg}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("expected in-order dispatch, got %v", calls)
	}
}

func TestHookRegistryFirstErrorStopsDispatch(t *testing.T) {
	blockErr := errors.New("blocked")
	var laterCalled bool
	reg := NewHookRegistry(
		HookFunc(func(ctx context.Context, ev *MessageAddedEvent) error {
			return blockErr
		}),
		HookFunc(func(ctx context.Context, ev *MessageAddedEvent) error {
			laterCalled = true
			return nil
		}),
	)

	msg := NewTextMessage("user", "hello")
	err := reg.MessageAdded(context.Background(), &MessageAddedEvent{Message: &msg})
	if !errors.Is(err, blockErr) {
		t.Fatalf("expected block error, got %v", err)
	}
	if laterCalled {
		t.Fatalf("hooks after a failure must not run")
	}
}

func TestHookRegistryNilReceiver(t *testing.T) {
	var reg *HookRegistry
	msg := NewTextMessage("user", "hello")
	if err := reg.MessageAdded(context.Background(), &MessageAddedEvent{Message: &msg}); err != nil {
		t.Fatalf("nil registry must dispatch nothing, got %v", err)
	}
}
