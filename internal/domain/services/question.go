package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/ports"
	"github.com/ersonp/auditshield/internal/infrastructure/parsers"
)

// ErrNoQuestionsToImport is returned when an import has no valid questions.
var ErrNoQuestionsToImport = errors.New("no valid questions to import")

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool // Validate without saving
}

// ImportError represents an error for a specific question during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int // Duplicates of existing questions
	Errors   []ImportError
}

// QuestionService manages the question template.
type QuestionService struct {
	store ports.RecordStore
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(store ports.RecordStore) *QuestionService {
	return &QuestionService{store: store}
}

// LoadDefaults seeds the default questions if the template is empty and
// returns how many were inserted.
func (s *QuestionService) LoadDefaults(ctx context.Context) (int, error) {
	count, err := s.store.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting questions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	if err := s.store.InsertQuestions(ctx, entities.DefaultQuestions); err != nil {
		return 0, fmt.Errorf("seeding questions: %w", err)
	}

	n := len(entities.DefaultQuestions)
	return n, s.logAction(ctx, entities.ActionQuestionsSeeded, map[string]any{"count": n})
}

// List returns all questions ordered by ID.
func (s *QuestionService) List(ctx context.Context) ([]entities.Question, error) {
	return s.store.ListQuestions(ctx)
}

// Import validates and appends raw questions to the template. Questions whose
// text already exists (ignoring case and surrounding space) are skipped.
func (s *QuestionService) Import(ctx context.Context, raw []parsers.RawQuestion, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	existing, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	seen := make(map[string]bool, len(existing)+len(raw))
	for _, q := range existing {
		seen[normalizeText(q.Text)] = true
	}

	valid := make([]entities.Question, 0, len(raw))
	for i, r := range raw {
		line := r.LineNum
		if line == 0 {
			line = i + 1
		}

		text := strings.TrimSpace(r.Text)
		if text == "" {
			result.Errors = append(result.Errors, ImportError{Line: line, Message: "text is required"})
			continue
		}
		key := normalizeText(text)
		if seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true

		valid = append(valid, entities.Question{
			Text:       text,
			ControlRef: strings.TrimSpace(r.ControlRef),
		})
	}

	if len(valid) == 0 {
		if result.Skipped > 0 && len(result.Errors) == 0 {
			return result, nil
		}
		return result, ErrNoQuestionsToImport
	}

	if opts.DryRun {
		result.Imported = len(valid)
		return result, nil
	}

	if err := s.store.InsertQuestions(ctx, valid); err != nil {
		return nil, fmt.Errorf("saving questions: %w", err)
	}
	result.Imported = len(valid)

	return result, s.logAction(ctx, entities.ActionQuestionsImported, map[string]any{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   len(result.Errors),
	})
}

func (s *QuestionService) logAction(ctx context.Context, action string, details map[string]any) error {
	if err := s.store.LogAction(ctx, action, 0, details); err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
