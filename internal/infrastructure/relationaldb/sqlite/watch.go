package sqlite

import (
	"context"
	"errors"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/ports"
	"github.com/ersonp/auditshield/internal/infrastructure/watch"
)

var errNilListener = errors.New("watch listener is required")

// WatchAudit streams one audit; the listener receives nil once it is deleted.
func (r *Repository) WatchAudit(ctx context.Context, auditID int64, fn ports.Listener[*entities.Audit]) (ports.Subscription, error) {
	if fn == nil {
		return nil, errNilListener
	}
	if err := r.startPolling(); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (*entities.Audit, error) {
		return r.FindAudit(ctx, auditID)
	}
	return watch.Stream(ctx, r.broker, []string{watch.TopicAudits}, load, fn), nil
}

// WatchAudits streams the audit list, newest first.
func (r *Repository) WatchAudits(ctx context.Context, fn ports.Listener[[]entities.Audit]) (ports.Subscription, error) {
	if fn == nil {
		return nil, errNilListener
	}
	if err := r.startPolling(); err != nil {
		return nil, err
	}
	return watch.Stream(ctx, r.broker, []string{watch.TopicAudits}, r.ListAudits, fn), nil
}

// WatchQuestions streams the question template.
func (r *Repository) WatchQuestions(ctx context.Context, fn ports.Listener[[]entities.Question]) (ports.Subscription, error) {
	if fn == nil {
		return nil, errNilListener
	}
	if err := r.startPolling(); err != nil {
		return nil, err
	}
	return watch.Stream(ctx, r.broker, []string{watch.TopicQuestions}, r.ListQuestions, fn), nil
}

// WatchAnswersForAudit streams one audit's answers.
func (r *Repository) WatchAnswersForAudit(ctx context.Context, auditID int64, fn ports.Listener[[]entities.Answer]) (ports.Subscription, error) {
	if fn == nil {
		return nil, errNilListener
	}
	if err := r.startPolling(); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) ([]entities.Answer, error) {
		return r.ListAnswersForAudit(ctx, auditID)
	}
	return watch.Stream(ctx, r.broker, []string{watch.TopicAnswers}, load, fn), nil
}

// WatchAllAnswers streams every answer of every audit.
func (r *Repository) WatchAllAnswers(ctx context.Context, fn ports.Listener[[]entities.Answer]) (ports.Subscription, error) {
	if fn == nil {
		return nil, errNilListener
	}
	if err := r.startPolling(); err != nil {
		return nil, err
	}
	return watch.Stream(ctx, r.broker, []string{watch.TopicAnswers}, r.ListAllAnswers, fn), nil
}
