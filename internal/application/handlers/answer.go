package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/services"
)

// AnswerHandler handles answering questions.
type AnswerHandler struct {
	workflow *services.WorkflowService
}

// NewAnswerHandler creates a new answer handler.
func NewAnswerHandler(workflow *services.WorkflowService) *AnswerHandler {
	return &AnswerHandler{
		workflow: workflow,
	}
}

// AnswerRequest describes an edit to one answer. Nil fields are left as
// they are.
type AnswerRequest struct {
	AuditID    int64
	QuestionID int64
	Value      *string // yes, partial, no or 2, 1, 0
	Comment    *string
	Level      *string // menor/minor, mayor/major, or empty to clear
}

// AnswerResult contains the saved answer and the audit's new score.
type AnswerResult struct {
	Answer     *entities.Answer
	Validation services.Validation
	Audit      *entities.Audit
}

// Handle applies the requested edit and rescores the audit.
// Returns an error if the audit or question does not exist.
func (h *AnswerHandler) Handle(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	var value int
	if req.Value != nil {
		v, ok := entities.ParseAnswerValue(*req.Value)
		if !ok {
			return nil, fmt.Errorf("%w: %q", services.ErrInvalidAnswerValue, *req.Value)
		}
		value = v
	}

	var level entities.NonComplianceLevel
	if req.Level != nil {
		l, ok := entities.ParseNonComplianceLevel(*req.Level)
		if !ok {
			return nil, fmt.Errorf("invalid non-compliance level %q (use menor or mayor)", *req.Level)
		}
		level = l
	}

	saved, err := h.workflow.EditAnswer(ctx, req.AuditID, req.QuestionID, func(a *entities.Answer) {
		if req.Value != nil {
			a.Value = value
		}
		if req.Comment != nil {
			a.Comment = *req.Comment
		}
		if req.Level != nil {
			a.NonComplianceLevel = level
		}
	})
	return h.result(ctx, req.AuditID, saved, err)
}

// Save stores a full answer and returns it with its validation.
func (h *AnswerHandler) Save(ctx context.Context, answer *entities.Answer) (*AnswerResult, error) {
	saved, err := h.workflow.SaveAnswer(ctx, answer)
	return h.result(ctx, answer.AuditID, saved, err)
}

func (h *AnswerHandler) result(ctx context.Context, auditID int64, saved *entities.Answer, err error) (*AnswerResult, error) {
	if saved == nil {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("audit not found: %d", auditID)
	}

	audit, ferr := h.workflow.GetAudit(ctx, saved.AuditID)
	if ferr != nil {
		return nil, fmt.Errorf("finding audit: %w", ferr)
	}

	return &AnswerResult{
		Answer:     saved,
		Validation: services.ValidateAnswer(*saved),
		Audit:      audit,
	}, err
}

// Flow loads a guided flow over the audit's questions. Returns an error if
// the audit does not exist.
func (h *AnswerHandler) Flow(ctx context.Context, auditID int64) (*entities.Audit, *services.GuidedFlow, error) {
	audit, err := h.workflow.GetAudit(ctx, auditID)
	if err != nil {
		return nil, nil, fmt.Errorf("finding audit: %w", err)
	}
	if audit == nil {
		return nil, nil, fmt.Errorf("audit not found: %d", auditID)
	}

	items, err := h.workflow.QuestionsWithAnswers(ctx, auditID)
	if err != nil {
		return nil, nil, err
	}
	return audit, services.NewGuidedFlow(items), nil
}
