package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/infrastructure/watch"
)

const auditColumns = `id, title, description, iso_control, created_at, completed_at,
	status, score, max_score, risk_level, recommendations`

// InsertAudit stores a new audit and returns its generated ID.
func (r *Repository) InsertAudit(ctx context.Context, audit *entities.Audit) (int64, error) {
	query := `
		INSERT INTO audits (title, description, iso_control, created_at, completed_at,
			status, score, max_score, risk_level, recommendations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := audit.CreatedAt
	if createdAt.IsZero() {
		createdAt = timeNow()
	}
	result, err := r.db.ExecContext(ctx, query,
		audit.Title,
		nullString(audit.Description),
		audit.ISOControl,
		createdAt,
		nullTime(audit.CompletedAt),
		string(audit.Status),
		audit.Score,
		audit.MaxScore,
		string(audit.RiskLevel),
		nullString(audit.Recommendations),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting audit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading audit id: %w", err)
	}

	r.broker.Publish(watch.TopicAudits)
	return id, nil
}

// UpdateAudit overwrites every mutable column of an existing audit.
func (r *Repository) UpdateAudit(ctx context.Context, audit *entities.Audit) error {
	query := `
		UPDATE audits SET
			title = ?,
			description = ?,
			iso_control = ?,
			completed_at = ?,
			status = ?,
			score = ?,
			max_score = ?,
			risk_level = ?,
			recommendations = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		audit.Title,
		nullString(audit.Description),
		audit.ISOControl,
		nullTime(audit.CompletedAt),
		string(audit.Status),
		audit.Score,
		audit.MaxScore,
		string(audit.RiskLevel),
		nullString(audit.Recommendations),
		audit.ID,
	)
	if err != nil {
		return fmt.Errorf("updating audit: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("audit not found: %d", audit.ID)
	}

	r.broker.Publish(watch.TopicAudits)
	return nil
}

// UpdateScoreAndRisk writes only the derived score and risk level.
func (r *Repository) UpdateScoreAndRisk(ctx context.Context, auditID int64, score int, risk entities.RiskLevel) error {
	query := `UPDATE audits SET score = ?, risk_level = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, score, string(risk), auditID)
	if err != nil {
		return fmt.Errorf("updating audit score: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("audit not found: %d", auditID)
	}

	r.broker.Publish(watch.TopicAudits)
	return nil
}

// DeleteAudit deletes an audit; its answers go with it.
func (r *Repository) DeleteAudit(ctx context.Context, auditID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audits WHERE id = ?`, auditID)
	if err != nil {
		return false, fmt.Errorf("deleting audit: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, nil
	}

	r.broker.Publish(watch.TopicAudits, watch.TopicAnswers)
	return true, nil
}

// FindAudit finds an audit by its ID.
func (r *Repository) FindAudit(ctx context.Context, auditID int64) (*entities.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, auditID)

	audit, err := scanAudit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return audit, nil
}

// ListAudits returns all audits, newest first.
func (r *Repository) ListAudits(ctx context.Context) ([]entities.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying audits: %w", err)
	}
	defer rows.Close()

	result := []entities.Audit{}
	for rows.Next() {
		audit, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *audit)
	}
	return result, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(row rowScanner) (*entities.Audit, error) {
	var (
		audit                        entities.Audit
		description, recommendations sql.NullString
		completedAt                  sql.NullTime
		status, risk                 string
	)
	err := row.Scan(
		&audit.ID,
		&audit.Title,
		&description,
		&audit.ISOControl,
		&audit.CreatedAt,
		&completedAt,
		&status,
		&audit.Score,
		&audit.MaxScore,
		&risk,
		&recommendations,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning audit: %w", err)
	}

	audit.Description = description.String
	audit.Recommendations = recommendations.String
	audit.Status = entities.AuditStatus(status)
	audit.RiskLevel = entities.RiskLevel(risk)
	if completedAt.Valid {
		t := completedAt.Time
		audit.CompletedAt = &t
	}
	return &audit, nil
}
