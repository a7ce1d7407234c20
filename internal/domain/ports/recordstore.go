// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/auditshield/internal/domain/entities"
)

// AuditStore persists audits.
type AuditStore interface {
	// InsertAudit stores a new audit and returns its generated ID.
	InsertAudit(ctx context.Context, audit *entities.Audit) (int64, error)

	// UpdateAudit overwrites every mutable column of an existing audit.
	UpdateAudit(ctx context.Context, audit *entities.Audit) error

	// UpdateScoreAndRisk is the narrow write used after each answer change.
	UpdateScoreAndRisk(ctx context.Context, auditID int64, score int, risk entities.RiskLevel) error

	// DeleteAudit removes an audit and, by cascade, its answers.
	// Returns false if no audit had that ID.
	DeleteAudit(ctx context.Context, auditID int64) (bool, error)

	// FindAudit returns nil if the audit does not exist.
	FindAudit(ctx context.Context, auditID int64) (*entities.Audit, error)

	// ListAudits returns all audits, newest first.
	ListAudits(ctx context.Context) ([]entities.Audit, error)
}

// QuestionStore persists the question template.
type QuestionStore interface {
	// InsertQuestions stores questions, assigning IDs in order.
	InsertQuestions(ctx context.Context, questions []entities.Question) error

	// ListQuestions returns all questions ordered by ID.
	ListQuestions(ctx context.Context) ([]entities.Question, error)

	// CountQuestions returns the number of template questions.
	CountQuestions(ctx context.Context) (int, error)
}

// AnswerStore persists answers.
type AnswerStore interface {
	// InsertAnswer stores an answer, replacing any existing answer for the
	// same audit and question. Returns the answer ID.
	InsertAnswer(ctx context.Context, answer *entities.Answer) (int64, error)

	// InsertAnswers stores answers in a single transaction.
	InsertAnswers(ctx context.Context, answers []entities.Answer) error

	// UpdateAnswer updates an answer by ID. Returns false if no answer with
	// that ID, audit and question exists.
	UpdateAnswer(ctx context.Context, answer *entities.Answer) (bool, error)

	// FindAnswer returns nil if the answer does not exist.
	FindAnswer(ctx context.Context, answerID int64) (*entities.Answer, error)

	// FindAnswerFor returns the answer to a question within an audit, or nil.
	FindAnswerFor(ctx context.Context, auditID, questionID int64) (*entities.Answer, error)

	// ListAnswersForAudit returns a snapshot of one audit's answers ordered by question.
	ListAnswersForAudit(ctx context.Context, auditID int64) ([]entities.Answer, error)

	// ListAllAnswers returns every answer of every audit.
	ListAllAnswers(ctx context.Context) ([]entities.Answer, error)
}

// ActionLog records workflow actions.
type ActionLog interface {
	// LogAction logs an action. auditID may be 0 for actions not tied to an audit.
	LogAction(ctx context.Context, action string, auditID int64, details map[string]any) error

	// FindActionLog finds log entries for an audit, newest first.
	FindActionLog(ctx context.Context, auditID int64) ([]entities.ActionEntry, error)

	// FindActionLogByAction finds log entries by action name, newest first.
	FindActionLogByAction(ctx context.Context, action string, limit int) ([]entities.ActionEntry, error)
}

// Watcher exposes watch queries. Each watch emits the current value
// immediately and again after every write that touches its rows.
type Watcher interface {
	WatchAudit(ctx context.Context, auditID int64, fn Listener[*entities.Audit]) (Subscription, error)
	WatchAudits(ctx context.Context, fn Listener[[]entities.Audit]) (Subscription, error)
	WatchQuestions(ctx context.Context, fn Listener[[]entities.Question]) (Subscription, error)
	WatchAnswersForAudit(ctx context.Context, auditID int64, fn Listener[[]entities.Answer]) (Subscription, error)
	WatchAllAnswers(ctx context.Context, fn Listener[[]entities.Answer]) (Subscription, error)
}

// RecordStore is the full persistence contract consumed by the services.
type RecordStore interface {
	// EnsureSchema creates or migrates the database schema.
	EnsureSchema(ctx context.Context) error

	// Close releases the store.
	Close() error

	AuditStore
	QuestionStore
	AnswerStore
	ActionLog
	Watcher
}
