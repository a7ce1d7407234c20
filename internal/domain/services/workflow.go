package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/ports"
)

var (
	// ErrEmptyTitle is returned when creating an audit without a title.
	ErrEmptyTitle = errors.New("audit title is required")

	// ErrInvalidAnswerValue is returned when saving a value other than
	// 0 (No), 1 (Partial) or 2 (Yes).
	ErrInvalidAnswerValue = errors.New("answer value must be 0 (no), 1 (partial) or 2 (yes)")

	// ErrAnswerMismatch is returned when an answer ID belongs to a different
	// audit or question than the answer being saved.
	ErrAnswerMismatch = errors.New("answer belongs to another audit or question")

	// ErrQuestionNotFound is returned when editing an answer to a question
	// that is not in the template.
	ErrQuestionNotFound = errors.New("question not found")
)

// CreateAuditResult contains the result of creating an audit.
type CreateAuditResult struct {
	Audit   *entities.Audit
	Answers int
	// NoQuestions is set when the template was empty, so the audit has no answers.
	NoQuestions bool
}

// QuestionAnswer pairs a template question with an audit's answer to it.
// Answer is nil when the audit has no answer for the question.
type QuestionAnswer struct {
	Question entities.Question `json:"question"`
	Answer   *entities.Answer  `json:"answer"`
}

// WorkflowService creates audits, saves answers and keeps each audit's score
// and risk level in step with its answers.
type WorkflowService struct {
	store     ports.RecordStore
	framework string
	now       func() time.Time
}

// NewWorkflowService creates a new WorkflowService. New audits are labelled
// with framework, or entities.DefaultFramework when it is empty.
func NewWorkflowService(store ports.RecordStore, framework string) *WorkflowService {
	if strings.TrimSpace(framework) == "" {
		framework = entities.DefaultFramework
	}
	return &WorkflowService{
		store:     store,
		framework: framework,
		now:       time.Now,
	}
}

// CreateAudit inserts an in-progress audit with one blank "No" answer per
// template question.
func (s *WorkflowService) CreateAudit(ctx context.Context, title string) (*CreateAuditResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	audit := entities.NewAudit(title, s.framework, s.now().UTC())
	id, err := s.store.InsertAudit(ctx, audit)
	if err != nil {
		return nil, fmt.Errorf("inserting audit: %w", err)
	}
	audit.ID = id

	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}

	answers := make([]entities.Answer, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, entities.Answer{
			AuditID:    id,
			QuestionID: q.ID,
			Value:      entities.AnswerNo,
		})
	}
	if err := s.store.InsertAnswers(ctx, answers); err != nil {
		return nil, fmt.Errorf("inserting answers: %w", err)
	}

	result := &CreateAuditResult{
		Audit:       audit,
		Answers:     len(answers),
		NoQuestions: len(questions) == 0,
	}

	return result, s.logAction(ctx, entities.ActionAuditCreated, id, map[string]any{
		"title":     audit.Title,
		"framework": audit.ISOControl,
		"answers":   len(answers),
	})
}

// SaveAnswer normalizes and stores an answer, then rescores its audit.
// The answer is matched by ID when set, otherwise by audit and question. An ID
// that belongs to another audit or question is rejected with ErrAnswerMismatch.
// Returns nil if the audit does not exist.
func (s *WorkflowService) SaveAnswer(ctx context.Context, answer *entities.Answer) (*entities.Answer, error) {
	if !entities.ValidAnswerValue(answer.Value) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAnswerValue, answer.Value)
	}

	audit, err := s.store.FindAudit(ctx, answer.AuditID)
	if err != nil {
		return nil, fmt.Errorf("finding audit: %w", err)
	}
	if audit == nil {
		return nil, nil
	}

	if answer.ID != 0 {
		existing, err := s.store.FindAnswer(ctx, answer.ID)
		if err != nil {
			return nil, fmt.Errorf("finding answer: %w", err)
		}
		if existing != nil && (existing.AuditID != answer.AuditID || existing.QuestionID != answer.QuestionID) {
			return nil, fmt.Errorf("%w: answer %d is for audit %d question %d",
				ErrAnswerMismatch, answer.ID, existing.AuditID, existing.QuestionID)
		}
	}

	saved := *answer
	saved.Normalize()

	if err := s.upsertAnswer(ctx, &saved); err != nil {
		return nil, err
	}

	assessment, err := s.rescore(ctx, saved.AuditID)
	if err != nil {
		return nil, err
	}

	return &saved, s.logAction(ctx, entities.ActionAnswerSaved, saved.AuditID, map[string]any{
		"question_id": saved.QuestionID,
		"value":       saved.Value,
		"score":       assessment.Score,
		"risk":        string(assessment.RiskLevel),
	})
}

func (s *WorkflowService) upsertAnswer(ctx context.Context, answer *entities.Answer) error {
	if answer.ID != 0 {
		updated, err := s.store.UpdateAnswer(ctx, answer)
		if err != nil {
			return fmt.Errorf("updating answer: %w", err)
		}
		if updated {
			return nil
		}
	}

	id, err := s.store.InsertAnswer(ctx, answer)
	if err != nil {
		return fmt.Errorf("saving answer: %w", err)
	}
	answer.ID = id
	return nil
}

// rescore recomputes one audit's score from its own answers.
func (s *WorkflowService) rescore(ctx context.Context, auditID int64) (Assessment, error) {
	answers, err := s.store.ListAnswersForAudit(ctx, auditID)
	if err != nil {
		return Assessment{}, fmt.Errorf("listing answers: %w", err)
	}

	assessment := Assess(answers)
	if err := s.store.UpdateScoreAndRisk(ctx, auditID, assessment.Score, assessment.RiskLevel); err != nil {
		return Assessment{}, fmt.Errorf("updating score: %w", err)
	}
	return assessment, nil
}

// EditAnswer applies edit to the stored answer for a question and saves it.
// Fields edit leaves alone keep their stored values; a question with no
// answer yet starts from a blank "No". Returns nil if the audit does not
// exist.
func (s *WorkflowService) EditAnswer(ctx context.Context, auditID, questionID int64, edit func(*entities.Answer)) (*entities.Answer, error) {
	existing, err := s.store.FindAnswerFor(ctx, auditID, questionID)
	if err != nil {
		return nil, fmt.Errorf("finding answer: %w", err)
	}
	if existing == nil {
		known, err := s.hasQuestion(ctx, questionID)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, fmt.Errorf("%w: %d", ErrQuestionNotFound, questionID)
		}
		existing = &entities.Answer{AuditID: auditID, QuestionID: questionID, Value: entities.AnswerNo}
	}
	edit(existing)
	return s.SaveAnswer(ctx, existing)
}

func (s *WorkflowService) hasQuestion(ctx context.Context, questionID int64) (bool, error) {
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return false, fmt.Errorf("listing questions: %w", err)
	}
	for _, q := range questions {
		if q.ID == questionID {
			return true, nil
		}
	}
	return false, nil
}

// FinishAudit rescores the audit and marks it completed. Finishing again
// repeats the same computation. Returns nil if the audit does not exist.
func (s *WorkflowService) FinishAudit(ctx context.Context, auditID int64) (*entities.Audit, error) {
	audit, err := s.store.FindAudit(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("finding audit: %w", err)
	}
	if audit == nil {
		return nil, nil
	}

	answers, err := s.store.ListAnswersForAudit(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}

	assessment := Assess(answers)
	completedAt := s.now().UTC()
	audit.Score = assessment.Score
	audit.RiskLevel = assessment.RiskLevel
	audit.Status = entities.AuditStatusCompleted
	audit.CompletedAt = &completedAt
	audit.Recommendations = RecommendationForScore(assessment.Score).Advice

	if err := s.store.UpdateAudit(ctx, audit); err != nil {
		return nil, fmt.Errorf("updating audit: %w", err)
	}

	return audit, s.logAction(ctx, entities.ActionAuditFinished, auditID, map[string]any{
		"score":      audit.Score,
		"risk":       string(audit.RiskLevel),
		"incomplete": len(IncompleteAnswers(answers)),
	})
}

// DeleteAudit deletes an audit and its answers. Returns false if the audit
// does not exist.
func (s *WorkflowService) DeleteAudit(ctx context.Context, auditID int64) (bool, error) {
	deleted, err := s.store.DeleteAudit(ctx, auditID)
	if err != nil {
		return false, fmt.Errorf("deleting audit: %w", err)
	}
	if !deleted {
		return false, nil
	}
	return true, s.logAction(ctx, entities.ActionAuditDeleted, auditID, nil)
}

// GetAudit returns an audit, or nil if it does not exist.
func (s *WorkflowService) GetAudit(ctx context.Context, auditID int64) (*entities.Audit, error) {
	return s.store.FindAudit(ctx, auditID)
}

// ListAudits returns all audits, newest first.
func (s *WorkflowService) ListAudits(ctx context.Context) ([]entities.Audit, error) {
	return s.store.ListAudits(ctx)
}

// Answers returns one audit's answers ordered by question.
func (s *WorkflowService) Answers(ctx context.Context, auditID int64) ([]entities.Answer, error) {
	return s.store.ListAnswersForAudit(ctx, auditID)
}

// QuestionsWithAnswers pairs every template question with the audit's answer.
func (s *WorkflowService) QuestionsWithAnswers(ctx context.Context, auditID int64) ([]QuestionAnswer, error) {
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	answers, err := s.store.ListAnswersForAudit(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}

	byQuestion := make(map[int64]entities.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	pairs := make([]QuestionAnswer, 0, len(questions))
	for _, q := range questions {
		pair := QuestionAnswer{Question: q}
		if a, ok := byQuestion[q.ID]; ok {
			pair.Answer = &a
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// logAction records a workflow action. The operation it describes has already
// succeeded, so callers return its result alongside any logging error.
func (s *WorkflowService) logAction(ctx context.Context, action string, auditID int64, details map[string]any) error {
	if err := s.store.LogAction(ctx, action, auditID, details); err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}
