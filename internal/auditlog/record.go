package auditlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Events recorded for action records.
const (
	EventCreated    = "created"
	EventTransition = "transition"
)

// AuditEntry represents a persisted audit event for one action record.
type AuditEntry struct {
	ID             int64     `json:"id" yaml:"id"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
	ActionID       int64     `json:"action_id" yaml:"action_id"`
	OwnerID        string    `json:"owner_id" yaml:"owner_id"`
	ConversationID string    `json:"conversation_id,omitempty" yaml:"conversation_id,omitempty"`
	Event          string    `json:"event" yaml:"event"`
	Kind           string    `json:"kind" yaml:"kind"`
	FromStatus     string    `json:"from_status,omitempty" yaml:"from_status,omitempty"`
	ToStatus       string    `json:"to_status" yaml:"to_status"`
	Actor          string    `json:"actor,omitempty" yaml:"actor,omitempty"`
	Command        string    `json:"command,omitempty" yaml:"command,omitempty"`
	Outcome        string    `json:"outcome" yaml:"outcome"`
	Detail         string    `json:"detail,omitempty" yaml:"detail,omitempty"`
}
