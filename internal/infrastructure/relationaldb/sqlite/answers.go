package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/infrastructure/watch"
)

const answerColumns = `id, audit_id, question_id, value, comment, non_compliance_level`

// upsertAnswerQuery replaces the answer for an (audit, question) pair in place,
// so the row keeps its ID.
const upsertAnswerQuery = `
	INSERT INTO answers (audit_id, question_id, value, comment, non_compliance_level)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(audit_id, question_id) DO UPDATE SET
		value = excluded.value,
		comment = excluded.comment,
		non_compliance_level = excluded.non_compliance_level
	RETURNING id
`

// execQueryer is satisfied by *sql.DB and *sql.Tx.
type execQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsertAnswer(ctx context.Context, q execQueryer, answer *entities.Answer) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, upsertAnswerQuery,
		answer.AuditID,
		answer.QuestionID,
		answer.Value,
		nullString(answer.Comment),
		nullString(string(answer.NonComplianceLevel)),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving answer: %w", err)
	}
	return id, nil
}

// InsertAnswer stores an answer, replacing any existing answer for the same
// audit and question.
func (r *Repository) InsertAnswer(ctx context.Context, answer *entities.Answer) (int64, error) {
	id, err := upsertAnswer(ctx, r.db, answer)
	if err != nil {
		return 0, err
	}

	r.broker.Publish(watch.TopicAnswers)
	return id, nil
}

// InsertAnswers stores answers in a single transaction.
func (r *Repository) InsertAnswers(ctx context.Context, answers []entities.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for i := range answers {
		if _, err := upsertAnswer(ctx, tx, &answers[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing answers: %w", err)
	}

	r.broker.Publish(watch.TopicAnswers)
	return nil
}

// UpdateAnswer updates an answer by ID. The audit and question must match
// the stored row; otherwise nothing is updated.
func (r *Repository) UpdateAnswer(ctx context.Context, answer *entities.Answer) (bool, error) {
	query := `
		UPDATE answers SET
			value = ?,
			comment = ?,
			non_compliance_level = ?
		WHERE id = ? AND audit_id = ? AND question_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		answer.Value,
		nullString(answer.Comment),
		nullString(string(answer.NonComplianceLevel)),
		answer.ID,
		answer.AuditID,
		answer.QuestionID,
	)
	if err != nil {
		return false, fmt.Errorf("updating answer: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, nil
	}

	r.broker.Publish(watch.TopicAnswers)
	return true, nil
}

// FindAnswer finds an answer by its ID.
func (r *Repository) FindAnswer(ctx context.Context, answerID int64) (*entities.Answer, error) {
	query := `SELECT ` + answerColumns + ` FROM answers WHERE id = ?`
	return r.findAnswer(ctx, query, answerID)
}

// FindAnswerFor finds the answer to a question within an audit.
func (r *Repository) FindAnswerFor(ctx context.Context, auditID, questionID int64) (*entities.Answer, error) {
	query := `SELECT ` + answerColumns + ` FROM answers WHERE audit_id = ? AND question_id = ?`
	return r.findAnswer(ctx, query, auditID, questionID)
}

func (r *Repository) findAnswer(ctx context.Context, query string, args ...any) (*entities.Answer, error) {
	answer, err := scanAnswer(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// ListAnswersForAudit returns one audit's answers ordered by question.
func (r *Repository) ListAnswersForAudit(ctx context.Context, auditID int64) ([]entities.Answer, error) {
	query := `SELECT ` + answerColumns + ` FROM answers WHERE audit_id = ? ORDER BY question_id ASC`
	return r.queryAnswers(ctx, query, auditID)
}

// ListAllAnswers returns every answer of every audit.
func (r *Repository) ListAllAnswers(ctx context.Context) ([]entities.Answer, error) {
	query := `SELECT ` + answerColumns + ` FROM answers ORDER BY audit_id ASC, question_id ASC`
	return r.queryAnswers(ctx, query)
}

func (r *Repository) queryAnswers(ctx context.Context, query string, args ...any) ([]entities.Answer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying answers: %w", err)
	}
	defer rows.Close()

	result := []entities.Answer{}
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *answer)
	}
	return result, rows.Err()
}

func scanAnswer(row rowScanner) (*entities.Answer, error) {
	var (
		answer         entities.Answer
		comment, level sql.NullString
	)
	err := row.Scan(
		&answer.ID,
		&answer.AuditID,
		&answer.QuestionID,
		&answer.Value,
		&comment,
		&level,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning answer: %w", err)
	}
	answer.Comment = comment.String
	answer.NonComplianceLevel = entities.NonComplianceLevel(level.String)
	return &answer, nil
}
