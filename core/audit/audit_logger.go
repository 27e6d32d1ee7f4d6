package audit

import (
	"fmt"
	"time"
)

// AuditEvent records an authorization or validation outcome. Entity
// references are opaque (asset ids, identity digests), never plaintext PII.
type AuditEvent struct {
	Timestamp time.Time
	EventType string // e.g., "Authorization", "PayloadValidation"
	EntityID  string // e.g., asset id or caller identity digest
	Result    string // e.g., "success", "failure"
	Reason    string // error message or reason code
	Metadata  map[string]string // any extra details
}

// AuditLogger is the interface for logging audit events.
type AuditLogger interface {
	LogEvent(event AuditEvent)
}

// StdoutAuditLogger is a simple implementation that logs to stdout.
type StdoutAuditLogger struct{}

func (l *StdoutAuditLogger) LogEvent(event AuditEvent) {
	fmt.Printf("[%s] [%s] Entity: %s, Result: %s, Reason: %s, Metadata: %+v\n",
		event.Timestamp.Format(time.RFC3339), event.EventType, event.EntityID, event.Result, event.Reason, event.Metadata)
}

// NewStdoutAuditLogger returns a new StdoutAuditLogger.
func NewStdoutAuditLogger() AuditLogger {
	return &StdoutAuditLogger{}
}

// NopAuditLogger discards events. Used in tests.
type NopAuditLogger struct{}

func (NopAuditLogger) LogEvent(AuditEvent) {}

// LogRejection records a refused ledger operation.
func LogRejection(l AuditLogger, op, key, role, reason string) {
	if l == nil {
		return
	}
	l.LogEvent(AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: "Authorization",
		EntityID:  key,
		Result:    "failure",
		Reason:    reason,
		Metadata:  map[string]string{"operation": op, "role": role},
	})
}
