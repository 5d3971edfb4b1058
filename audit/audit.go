// Package audit records guardrail decisions. The interception core treats
// verdicts as ephemeral; recorders persist them for review.
package audit

import (
	"context"
	"sync"
	"time"
)

// Decision actions
const (
	ActionAllowed = "allowed"
	ActionBlocked = "blocked"
	ActionErrored = "errored"
	ActionSkipped = "skipped"
)

// Decision is one recorded guardrail check
type Decision struct {
	Time       time.Time     `json:"time"`
	Backend    string        `json:"backend"`
	Role       string        `json:"role"`
	Action     string        `json:"action"`
	Reason     string        `json:"reason,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Latency    time.Duration `json:"latency,omitempty"`
}

// Recorder persists guardrail decisions. Implementations must be safe for
// concurrent use. Recording failures must not block the conversation; callers
// log and continue.
type Recorder interface {
	Record(ctx context.Context, d Decision) error
}

// MemoryRecorder keeps decisions in memory, mainly for tests and development
type MemoryRecorder struct {
	mu        sync.Mutex
	decisions []Decision
}

// NewMemoryRecorder creates an empty in-memory recorder
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record implements Recorder
func (r *MemoryRecorder) Record(ctx context.Context, d Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, d)
	return nil
}

// Decisions returns a copy of all recorded decisions
func (r *MemoryRecorder) Decisions() []Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Decision, len(r.decisions))
	copy(out, r.decisions)
	return out
}

var _ Recorder = (*MemoryRecorder)(nil)
