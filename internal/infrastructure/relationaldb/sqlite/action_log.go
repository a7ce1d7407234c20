package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ersonp/auditshield/internal/domain/entities"
)

// LogAction logs an action to the action log.
func (r *Repository) LogAction(ctx context.Context, action string, auditID int64, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `INSERT INTO action_log (action, audit_id, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, nullInt64(auditID), detailsJSON, timeNow())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindActionLog finds log entries for a specific audit.
func (r *Repository) FindActionLog(ctx context.Context, auditID int64) ([]entities.ActionEntry, error) {
	query := `
		SELECT id, action, audit_id, details, created_at
		FROM action_log
		WHERE audit_id = ?
		ORDER BY created_at DESC, id DESC
	`
	return r.queryActionLog(ctx, query, auditID)
}

// FindActionLogByAction finds log entries by action name. An empty action
// matches every entry.
func (r *Repository) FindActionLogByAction(ctx context.Context, action string, limit int) ([]entities.ActionEntry, error) {
	query := `
		SELECT id, action, audit_id, details, created_at
		FROM action_log
		WHERE (? = '' OR action = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return r.queryActionLog(ctx, query, action, action, limit)
}

func (r *Repository) queryActionLog(ctx context.Context, query string, args ...any) ([]entities.ActionEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying action log: %w", err)
	}
	defer rows.Close()

	entries := []entities.ActionEntry{}
	for rows.Next() {
		var entry entities.ActionEntry
		var auditID sql.NullInt64
		var details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&auditID,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning action entry: %w", err)
		}

		entry.AuditID = auditID.Int64

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
