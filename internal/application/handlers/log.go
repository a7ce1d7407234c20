package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/ports"
)

// LogHandler reads the action log.
type LogHandler struct {
	log ports.ActionLog
}

// NewLogHandler creates a new log handler.
func NewLogHandler(log ports.ActionLog) *LogHandler {
	return &LogHandler{
		log: log,
	}
}

// LogQuery filters log entries. AuditID takes precedence over Action.
type LogQuery struct {
	AuditID int64
	Action  string
	Limit   int
}

// Handle returns matching log entries, newest first.
func (h *LogHandler) Handle(ctx context.Context, q LogQuery) ([]entities.ActionEntry, error) {
	if q.AuditID != 0 {
		entries, err := h.log.FindActionLog(ctx, q.AuditID)
		if err != nil {
			return nil, fmt.Errorf("reading action log: %w", err)
		}
		if q.Limit > 0 && len(entries) > q.Limit {
			entries = entries[:q.Limit]
		}
		return entries, nil
	}

	entries, err := h.log.FindActionLogByAction(ctx, q.Action, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("reading action log: %w", err)
	}
	return entries, nil
}
