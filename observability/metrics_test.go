package observability

import (
	"testing"
	"time"
)

func TestNoOpMetrics(t *testing.T) {
	var m Metrics = &NoOpMetrics{}
	m.IncrementChecks(nil)
	m.RecordLatency(time.Millisecond, nil)
	m.IncrementBlocked(nil)
	m.RecordError("x", nil)
	m.SetActiveSessions(1)
}

func TestDefaultMetrics(t *testing.T) {
	m := NewDefaultMetrics()
	m.IncrementChecks(map[string]string{"backend": "wordlist"})
	m.RecordLatency(2*time.Millisecond, nil)
	m.IncrementBlocked(nil)
	m.RecordError("boom", nil)
	m.SetActiveSessions(3)
	s := m.GetStats()
	if s["checks"].(int64) != 1 {
		t.Fatalf("checks wrong: %+v", s)
	}
	if s["blocked"].(int64) != 1 {
		t.Fatalf("blocked wrong: %+v", s)
	}
	if s["active_sessions"].(int) != 3 {
		t.Fatalf("active wrong: %+v", s)
	}
}
