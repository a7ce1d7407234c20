package entities

import "time"

// Actions recorded in the action log.
const (
	ActionAuditCreated      = "audit_created"
	ActionAnswerSaved       = "answer_saved"
	ActionAuditFinished     = "audit_finished"
	ActionAuditDeleted      = "audit_deleted"
	ActionQuestionsSeeded   = "questions_seeded"
	ActionQuestionsImported = "questions_imported"
)

// ActionEntry represents a logged workflow action.
type ActionEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	AuditID   int64          `json:"audit_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
