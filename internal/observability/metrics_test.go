package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/health", "GET", 200, 2*time.Millisecond)
	m.RecordRequest("/api/health", "GET", 200, 4*time.Millisecond)
	m.RecordError("/api/auth/login", "POST", "INVALID_CREDENTIALS")
	m.RecordAudit("login_failed")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/health|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/auth/login|POST|INVALID_CREDENTIALS"])
	assert.Equal(t, int64(1), snap.Audit["login_failed"])
	assert.InDelta(t, 3.0, snap.AverageLatencyMS, 0.001)

	// snapshot is detached from live counters
	snap.Audit["login_failed"] = 99
	assert.Equal(t, int64(1), m.Snapshot().Audit["login_failed"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordAudit("x")
	assert.Empty(t, m.Snapshot().Requests)
}
