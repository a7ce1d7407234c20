package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/services"
)

// AuditHandler handles audit lifecycle use cases.
type AuditHandler struct {
	workflow *services.WorkflowService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(workflow *services.WorkflowService) *AuditHandler {
	return &AuditHandler{
		workflow: workflow,
	}
}

// ListResult contains every audit plus summary statistics.
type ListResult struct {
	Audits []entities.Audit
	Stats  services.AuditStats
}

// AuditDetail is one audit with its questions and answers.
type AuditDetail struct {
	Audit          *entities.Audit
	Items          []services.QuestionAnswer
	Incomplete     int
	Recommendation services.Recommendation
}

// FinishResult contains a finished audit and how many answers were incomplete.
type FinishResult struct {
	Audit      *entities.Audit
	Incomplete []entities.Answer
}

// Create creates a new audit.
func (h *AuditHandler) Create(ctx context.Context, title string) (*services.CreateAuditResult, error) {
	return h.workflow.CreateAudit(ctx, title)
}

// List returns all audits, newest first.
func (h *AuditHandler) List(ctx context.Context) (*ListResult, error) {
	audits, err := h.workflow.ListAudits(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing audits: %w", err)
	}
	return &ListResult{
		Audits: audits,
		Stats:  services.ComputeAuditStats(audits),
	}, nil
}

// Show returns an audit with its answers. Returns nil if it does not exist.
func (h *AuditHandler) Show(ctx context.Context, auditID int64) (*AuditDetail, error) {
	audit, err := h.workflow.GetAudit(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("finding audit: %w", err)
	}
	if audit == nil {
		return nil, nil
	}

	items, err := h.workflow.QuestionsWithAnswers(ctx, auditID)
	if err != nil {
		return nil, err
	}

	incomplete := 0
	for _, item := range items {
		if item.Answer != nil && !services.ValidateAnswer(*item.Answer).Complete {
			incomplete++
		}
	}

	return &AuditDetail{
		Audit:          audit,
		Items:          items,
		Incomplete:     incomplete,
		Recommendation: services.RecommendationForScore(audit.Score),
	}, nil
}

// Finish completes an audit. Incomplete answers are reported, not refused.
// Returns nil if the audit does not exist.
func (h *AuditHandler) Finish(ctx context.Context, auditID int64) (*FinishResult, error) {
	answers, err := h.workflow.Answers(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}

	audit, err := h.workflow.FinishAudit(ctx, auditID)
	if audit == nil {
		return nil, err
	}

	return &FinishResult{
		Audit:      audit,
		Incomplete: services.IncompleteAnswers(answers),
	}, err
}

// Delete removes an audit and its answers.
func (h *AuditHandler) Delete(ctx context.Context, auditID int64) (bool, error) {
	return h.workflow.DeleteAudit(ctx, auditID)
}
