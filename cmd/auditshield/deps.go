package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/auditshield/internal/application/handlers"
	"github.com/ersonp/auditshield/internal/domain/ports"
	"github.com/ersonp/auditshield/internal/domain/services"
	"github.com/ersonp/auditshield/internal/infrastructure/config"
	"github.com/ersonp/auditshield/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config    *config.Config
	Audits    *handlers.AuditHandler
	Answers   *handlers.AnswerHandler
	Dashboard *handlers.DashboardHandler
	Reports   *handlers.ReportHandler
	Import    *handlers.ImportHandler
	Log       *handlers.LogHandler
	Questions *services.QuestionService
}

// withDeps loads config, opens the database and builds handlers, then calls
// the provided function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	// Ensure schema exists
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	return fn(buildDeps(cfg, store))
}

func buildDeps(cfg *config.Config, store ports.RecordStore) *Deps {
	workflow := services.NewWorkflowService(store, cfg.Framework)
	questions := services.NewQuestionService(store)

	return &Deps{
		Config:    cfg,
		Audits:    handlers.NewAuditHandler(workflow),
		Answers:   handlers.NewAnswerHandler(workflow),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(store), cfg.Dashboard.TrendWindow),
		Reports:   handlers.NewReportHandler(workflow),
		Import:    handlers.NewImportHandler(questions),
		Log:       handlers.NewLogHandler(store),
		Questions: questions,
	}
}

// openStore opens the SQLite record store.
func openStore(cfg config.SQLiteConfig) (ports.RecordStore, error) {
	repo, err := sqlite.NewRepository(cfg)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
