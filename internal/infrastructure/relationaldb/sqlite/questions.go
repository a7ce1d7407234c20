package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/infrastructure/watch"
)

// InsertQuestions stores questions in one transaction. IDs are assigned by
// the database in slice order; any ID on the input is ignored.
func (r *Repository) InsertQuestions(ctx context.Context, questions []entities.Question) error {
	if len(questions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO questions (text, control_ref) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing question insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		if _, err := stmt.ExecContext(ctx, q.Text, nullString(q.ControlRef)); err != nil {
			return fmt.Errorf("inserting question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing questions: %w", err)
	}

	r.broker.Publish(watch.TopicQuestions)
	return nil
}

// ListQuestions returns all questions ordered by ID.
func (r *Repository) ListQuestions(ctx context.Context) ([]entities.Question, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text, control_ref FROM questions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	result := []entities.Question{}
	for rows.Next() {
		var q entities.Question
		var ref sql.NullString
		if err := rows.Scan(&q.ID, &q.Text, &ref); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		q.ControlRef = ref.String
		result = append(result, q)
	}
	return result, rows.Err()
}

// CountQuestions returns the number of template questions.
func (r *Repository) CountQuestions(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting questions: %w", err)
	}
	return count, nil
}
