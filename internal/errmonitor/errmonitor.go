package errmonitor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

// ErrorType classifies a recorded error.
type ErrorType string

const (
	TypeRateLimit  ErrorType = "RATE_LIMIT_ERROR"
	TypeAPI        ErrorType = "API_ERROR"
	TypeSystem     ErrorType = "SYSTEM_ERROR"
	TypeValidation ErrorType = "VALIDATION_ERROR"
	TypeNetwork    ErrorType = "NETWORK_ERROR"
	TypeCircuit    ErrorType = "CIRCUIT_OPEN"
	TypeUnknown    ErrorType = "UNKNOWN_ERROR"
)

// Severity is chosen by the caller recording the error, never inferred.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Record is one captured error occurrence.
type Record struct {
	ID        string                 `json:"id"`
	Message   string                 `json:"message"`
	Type      ErrorType              `json:"type"`
	Severity  Severity               `json:"severity"`
	Context   string                 `json:"context"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Resolved  bool                   `json:"resolved"`
}

// Stats aggregates records inside a time window.
type Stats struct {
	Total      int               `json:"total"`
	ByType     map[ErrorType]int `json:"by_type"`
	BySeverity map[Severity]int  `json:"by_severity"`
	WindowFrom time.Time         `json:"window_from"`
}

// DefaultMaxRecords bounds the buffer so the monitor cannot grow without
// limit; oldest records are evicted first.
const DefaultMaxRecords = 1000

// Monitor is an in-memory, per-instance sink for classified errors. It is
// pure observability: nothing on the request path reads it.
type Monitor struct {
	maxRecords int
	logger     *logger.Logger
	now        func() time.Time

	mu      sync.Mutex
	records []*Record
}

func New(maxRecords int, l *logger.Logger) *Monitor {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Monitor{
		maxRecords: maxRecords,
		logger:     l,
		now:        time.Now,
	}
}

// Record appends a new error record and returns its generated id.
func (m *Monitor) Record(message string, t ErrorType, severity Severity, context string, metadata map[string]interface{}) string {
	rec := &Record{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      t,
		Severity:  severity,
		Context:   context,
		Metadata:  metadata,
		Timestamp: m.now(),
	}

	m.mu.Lock()
	m.records = append(m.records, rec)
	if len(m.records) > m.maxRecords {
		m.records = m.records[len(m.records)-m.maxRecords:]
	}
	m.mu.Unlock()

	if m.logger != nil && (severity == SeverityHigh || severity == SeverityCritical) {
		m.logger.Error("error recorded", map[string]string{
			"id":       rec.ID,
			"type":     string(t),
			"severity": string(severity),
			"context":  context,
			"message":  message,
		})
	}

	return rec.ID
}

// Stats aggregates counts by type and severity for records newer than
// now - window.
func (m *Monitor) Stats(window time.Duration) Stats {
	cutoff := m.now().Add(-window)

	stats := Stats{
		ByType:     make(map[ErrorType]int),
		BySeverity: make(map[Severity]int),
		WindowFrom: cutoff,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.records {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		stats.Total++
		stats.ByType[rec.Type]++
		stats.BySeverity[rec.Severity]++
	}
	return stats
}

// Recent returns up to limit records regardless of type, newest first.
func (m *Monitor) Recent(limit int) []Record {
	return m.filter(limit, func(r *Record) bool { return true })
}

// ByType returns up to limit records of the given type, newest first.
func (m *Monitor) ByType(t ErrorType, limit int) []Record {
	return m.filter(limit, func(r *Record) bool { return r.Type == t })
}

// Unresolved returns up to limit unresolved records, newest first.
func (m *Monitor) Unresolved(limit int) []Record {
	return m.filter(limit, func(r *Record) bool { return !r.Resolved })
}

// Resolve flips the resolved flag on the matching record. Returns false when
// the id is unknown.
func (m *Monitor) Resolve(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.records {
		if rec.ID == id {
			rec.Resolved = true
			return true
		}
	}
	return false
}

// Count returns the number of retained records.
func (m *Monitor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *Monitor) filter(limit int, keep func(*Record) bool) []Record {
	if limit <= 0 {
		limit = 50
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(m.records[i]) {
			out = append(out, *m.records[i])
		}
	}
	return out
}
