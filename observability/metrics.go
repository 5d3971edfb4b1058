package observability

import (
	"time"
)

// Metrics defines the interface for collecting guardrail and agent metrics
type Metrics interface {
	// IncrementChecks increments the guardrail check counter
	IncrementChecks(labels map[string]string)

	// RecordLatency records check or request latency
	RecordLatency(duration time.Duration, labels map[string]string)

	// IncrementBlocked increments the blocked-message counter
	IncrementBlocked(labels map[string]string)

	// RecordError increments error counter
	RecordError(errorType string, labels map[string]string)

	// SetActiveSessions sets the gauge for active conversation sessions
	SetActiveSessions(count int)
}

// NoOpMetrics is a no-operation implementation of Metrics
type NoOpMetrics struct{}

// IncrementChecks implements Metrics interface
func (n *NoOpMetrics) IncrementChecks(labels map[string]string) {}

// RecordLatency implements Metrics interface
func (n *NoOpMetrics) RecordLatency(duration time.Duration, labels map[string]string) {}

// IncrementBlocked implements Metrics interface
func (n *NoOpMetrics) IncrementBlocked(labels map[string]string) {}

// RecordError implements Metrics interface
func (n *NoOpMetrics) RecordError(errorType string, labels map[string]string) {}

// SetActiveSessions implements Metrics interface
func (n *NoOpMetrics) SetActiveSessions(count int) {}

// DefaultMetrics is a simple in-memory metrics collector
type DefaultMetrics struct {
	checks         int64
	totalLatency   time.Duration
	blocked        int64
	errors         map[string]int64
	activeSessions int
}

// NewDefaultMetrics creates a new DefaultMetrics instance
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{
		errors: make(map[string]int64),
	}
}

// IncrementChecks implements Metrics interface
func (m *DefaultMetrics) IncrementChecks(labels map[string]string) {
	m.checks++
}

// RecordLatency implements Metrics interface
func (m *DefaultMetrics) RecordLatency(duration time.Duration, labels map[string]string) {
	m.totalLatency += duration
}

// IncrementBlocked implements Metrics interface
func (m *DefaultMetrics) IncrementBlocked(labels map[string]string) {
	m.blocked++
}

// RecordError implements Metrics interface
func (m *DefaultMetrics) RecordError(errorType string, labels map[string]string) {
	m.errors[errorType]++
}

// SetActiveSessions implements Metrics interface
func (m *DefaultMetrics) SetActiveSessions(count int) {
	m.activeSessions = count
}

// GetStats returns current statistics
func (m *DefaultMetrics) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"checks":          m.checks,
		"total_latency":   m.totalLatency.String(),
		"blocked":         m.blocked,
		"errors":          m.errors,
		"active_sessions": m.activeSessions,
	}
}

// Ensure implementations satisfy the interface
var _ Metrics = (*NoOpMetrics)(nil)
var _ Metrics = (*DefaultMetrics)(nil)
