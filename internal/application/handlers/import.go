package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/auditshield/internal/domain/services"
	"github.com/ersonp/auditshield/internal/infrastructure/parsers"
)

// ImportHandler handles importing questions from files.
type ImportHandler struct {
	service *services.QuestionService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.QuestionService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string // "json", "csv", "yaml", or "auto"
	DryRun bool   // Validate without saving
}

// Handle imports questions from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*services.ImportResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	raw, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	return h.service.Import(ctx, raw, services.ImportOptions{DryRun: opts.DryRun})
}
