package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/services"
)

// ReportItem is one question line of an audit report.
type ReportItem struct {
	QuestionID int64  `json:"question_id"`
	ControlRef string `json:"control_ref"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Value      int    `json:"value"`
	Comment    string `json:"comment,omitempty"`
	Level      string `json:"level,omitempty"`
	Complete   bool   `json:"complete"`
}

// Report is a single audit's full result.
type Report struct {
	Audit          entities.Audit               `json:"audit"`
	Recommendation services.Recommendation      `json:"recommendation"`
	Controls       []services.ControlCompliance `json:"controls"`
	Findings       []services.Finding           `json:"findings"`
	Items          []ReportItem                 `json:"items"`
	Yes            int                          `json:"yes"`
	Partial        int                          `json:"partial"`
	No             int                          `json:"no"`
	Unanswered     int                          `json:"unanswered"`
	Incomplete     int                          `json:"incomplete"`
	MajorNC        int                          `json:"major_nc"`
	MinorNC        int                          `json:"minor_nc"`
	GeneratedAt    time.Time                    `json:"generated_at"`
}

// ReportHandler builds audit reports.
type ReportHandler struct {
	workflow *services.WorkflowService
	now      func() time.Time
}

// NewReportHandler creates a new report handler.
func NewReportHandler(workflow *services.WorkflowService) *ReportHandler {
	return &ReportHandler{
		workflow: workflow,
		now:      time.Now,
	}
}

// Handle builds the report for an audit. Returns an error if the audit does
// not exist.
func (h *ReportHandler) Handle(ctx context.Context, auditID int64) (*Report, error) {
	audit, err := h.workflow.GetAudit(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("finding audit: %w", err)
	}
	if audit == nil {
		return nil, fmt.Errorf("audit not found: %d", auditID)
	}

	items, err := h.workflow.QuestionsWithAnswers(ctx, auditID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Audit:          *audit,
		Recommendation: services.RecommendationForScore(audit.Score),
		Items:          make([]ReportItem, 0, len(items)),
		GeneratedAt:    h.now().UTC(),
	}

	questions := make([]entities.Question, 0, len(items))
	answers := make([]entities.Answer, 0, len(items))
	for _, item := range items {
		questions = append(questions, item.Question)
		line := ReportItem{
			QuestionID: item.Question.ID,
			ControlRef: item.Question.ControlRef,
			Question:   item.Question.Text,
		}
		if item.Answer == nil {
			report.Unanswered++
			line.Answer = "Unanswered"
			report.Items = append(report.Items, line)
			continue
		}

		a := *item.Answer
		answers = append(answers, a)
		line.Value = a.Value
		line.Answer = entities.AnswerLabel(a.Value)
		line.Comment = a.Comment
		line.Level = string(a.NonComplianceLevel)
		line.Complete = services.ValidateAnswer(a).Complete
		if !line.Complete {
			report.Incomplete++
		}
		switch a.Value {
		case entities.AnswerYes:
			report.Yes++
		case entities.AnswerPartial:
			report.Partial++
		case entities.AnswerNo:
			report.No++
		}
		report.Items = append(report.Items, line)
	}

	d := services.BuildDashboard(answers, questions, []entities.Audit{*audit})
	report.Controls = d.Controls
	report.Findings = d.Findings
	report.MajorNC = d.MajorNC
	report.MinorNC = d.MinorNC

	return report, nil
}
