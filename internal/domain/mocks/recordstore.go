// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/ports"
)

const (
	topicAudits    = "audits"
	topicQuestions = "questions"
	topicAnswers   = "answers"
)

var _ ports.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory mock implementation of ports.RecordStore.
// Watch listeners are called synchronously: once on subscribe and again
// inside every write that touches their data.
type RecordStore struct {
	mu sync.Mutex

	Audits    map[int64]*entities.Audit
	Questions []entities.Question
	Answers   map[int64]*entities.Answer
	Actions   []entities.ActionEntry

	// Err is returned by every method when set.
	Err error

	// Fine-grained errors, checked after Err.
	InsertAuditErr     error
	UpdateScoreErr     error
	InsertAnswerErr    error
	ListAnswersErr     error
	InsertQuestionsErr error
	LogActionErr       error

	// Call tracking
	UpdateScoreCallCount int
	LogActionCallCount   int

	nextAuditID    int64
	nextQuestionID int64
	nextAnswerID   int64
	nextActionID   int64
	nextWatchID    int
	watches        map[string]*watchEntry
}

type watchEntry struct {
	topics []string
	emit   func()
}

// NewRecordStore creates a new mock RecordStore.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		Audits:  make(map[int64]*entities.Audit),
		Answers: make(map[int64]*entities.Answer),
		watches: make(map[string]*watchEntry),
	}
}

// EnsureSchema returns the configured error.
func (m *RecordStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close is a no-op.
func (m *RecordStore) Close() error {
	return nil
}

// Audit methods.

// InsertAudit stores a copy of the audit and returns its ID.
func (m *RecordStore) InsertAudit(_ context.Context, audit *entities.Audit) (int64, error) {
	if err := m.firstErr(m.InsertAuditErr); err != nil {
		return 0, err
	}
	m.mu.Lock()
	m.nextAuditID++
	stored := *audit
	stored.ID = m.nextAuditID
	m.Audits[stored.ID] = &stored
	m.mu.Unlock()

	m.publish(topicAudits)
	return stored.ID, nil
}

// UpdateAudit replaces a stored audit.
func (m *RecordStore) UpdateAudit(_ context.Context, audit *entities.Audit) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	if _, ok := m.Audits[audit.ID]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("audit not found: %d", audit.ID)
	}
	stored := *audit
	m.Audits[audit.ID] = &stored
	m.mu.Unlock()

	m.publish(topicAudits)
	return nil
}

// UpdateScoreAndRisk sets the derived score and risk level.
func (m *RecordStore) UpdateScoreAndRisk(_ context.Context, auditID int64, score int, risk entities.RiskLevel) error {
	if err := m.firstErr(m.UpdateScoreErr); err != nil {
		return err
	}
	m.mu.Lock()
	m.UpdateScoreCallCount++
	audit, ok := m.Audits[auditID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("audit not found: %d", auditID)
	}
	audit.Score = score
	audit.RiskLevel = risk
	m.mu.Unlock()

	m.publish(topicAudits)
	return nil
}

// DeleteAudit removes an audit and its answers.
func (m *RecordStore) DeleteAudit(_ context.Context, auditID int64) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	if _, ok := m.Audits[auditID]; !ok {
		m.mu.Unlock()
		return false, nil
	}
	delete(m.Audits, auditID)
	for id, a := range m.Answers {
		if a.AuditID == auditID {
			delete(m.Answers, id)
		}
	}
	m.mu.Unlock()

	m.publish(topicAudits, topicAnswers)
	return true, nil
}

// FindAudit returns a copy of the audit or nil.
func (m *RecordStore) FindAudit(_ context.Context, auditID int64) (*entities.Audit, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	audit, ok := m.Audits[auditID]
	if !ok {
		return nil, nil
	}
	found := *audit
	return &found, nil
}

// ListAudits returns all audits, newest first.
func (m *RecordStore) ListAudits(_ context.Context) ([]entities.Audit, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.Audit, 0, len(m.Audits))
	for _, a := range m.Audits {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Question methods.

// InsertQuestions appends questions, assigning IDs in order.
func (m *RecordStore) InsertQuestions(_ context.Context, questions []entities.Question) error {
	if err := m.firstErr(m.InsertQuestionsErr); err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}
	m.mu.Lock()
	for _, q := range questions {
		m.nextQuestionID++
		q.ID = m.nextQuestionID
		m.Questions = append(m.Questions, q)
	}
	m.mu.Unlock()

	m.publish(topicQuestions)
	return nil
}

// ListQuestions returns all questions ordered by ID.
func (m *RecordStore) ListQuestions(_ context.Context) ([]entities.Question, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.Question, len(m.Questions))
	copy(result, m.Questions)
	return result, nil
}

// CountQuestions returns the number of questions.
func (m *RecordStore) CountQuestions(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Questions), nil
}

// Answer methods.

// InsertAnswer upserts by (audit, question).
func (m *RecordStore) InsertAnswer(_ context.Context, answer *entities.Answer) (int64, error) {
	if err := m.firstErr(m.InsertAnswerErr); err != nil {
		return 0, err
	}
	m.mu.Lock()
	id, err := m.upsertLocked(*answer)
	m.mu.Unlock()
	if err != nil {
		return 0, err
	}

	m.publish(topicAnswers)
	return id, nil
}

// InsertAnswers upserts all answers or none.
func (m *RecordStore) InsertAnswers(_ context.Context, answers []entities.Answer) error {
	if err := m.firstErr(m.InsertAnswerErr); err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}
	m.mu.Lock()
	for _, a := range answers {
		if _, ok := m.Audits[a.AuditID]; !ok {
			m.mu.Unlock()
			return fmt.Errorf("audit not found: %d", a.AuditID)
		}
	}
	for _, a := range answers {
		if _, err := m.upsertLocked(a); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	m.mu.Unlock()

	m.publish(topicAnswers)
	return nil
}

func (m *RecordStore) upsertLocked(answer entities.Answer) (int64, error) {
	if _, ok := m.Audits[answer.AuditID]; !ok {
		return 0, fmt.Errorf("audit not found: %d", answer.AuditID)
	}
	for _, existing := range m.Answers {
		if existing.AuditID == answer.AuditID && existing.QuestionID == answer.QuestionID {
			answer.ID = existing.ID
			*existing = answer
			return existing.ID, nil
		}
	}
	m.nextAnswerID++
	answer.ID = m.nextAnswerID
	m.Answers[answer.ID] = &answer
	return answer.ID, nil
}

// UpdateAnswer replaces an answer by ID, audit and question.
func (m *RecordStore) UpdateAnswer(_ context.Context, answer *entities.Answer) (bool, error) {
	if err := m.firstErr(m.InsertAnswerErr); err != nil {
		return false, err
	}
	m.mu.Lock()
	existing, ok := m.Answers[answer.ID]
	if !ok || existing.AuditID != answer.AuditID || existing.QuestionID != answer.QuestionID {
		m.mu.Unlock()
		return false, nil
	}
	existing.Value = answer.Value
	existing.Comment = answer.Comment
	existing.NonComplianceLevel = answer.NonComplianceLevel
	m.mu.Unlock()

	m.publish(topicAnswers)
	return true, nil
}

// FindAnswer returns a copy of the answer or nil.
func (m *RecordStore) FindAnswer(_ context.Context, answerID int64) (*entities.Answer, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Answers[answerID]
	if !ok {
		return nil, nil
	}
	found := *a
	return &found, nil
}

// FindAnswerFor returns the answer to a question within an audit, or nil.
func (m *RecordStore) FindAnswerFor(_ context.Context, auditID, questionID int64) (*entities.Answer, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Answers {
		if a.AuditID == auditID && a.QuestionID == questionID {
			found := *a
			return &found, nil
		}
	}
	return nil, nil
}

// ListAnswersForAudit returns one audit's answers ordered by question.
func (m *RecordStore) ListAnswersForAudit(_ context.Context, auditID int64) ([]entities.Answer, error) {
	if err := m.firstErr(m.ListAnswersErr); err != nil {
		return nil, err
	}
	return m.answersWhere(func(a *entities.Answer) bool { return a.AuditID == auditID }), nil
}

// ListAllAnswers returns every answer.
func (m *RecordStore) ListAllAnswers(_ context.Context) ([]entities.Answer, error) {
	if err := m.firstErr(m.ListAnswersErr); err != nil {
		return nil, err
	}
	return m.answersWhere(func(*entities.Answer) bool { return true }), nil
}

func (m *RecordStore) answersWhere(keep func(*entities.Answer) bool) []entities.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.Answer, 0, len(m.Answers))
	for _, a := range m.Answers {
		if keep(a) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AuditID != result[j].AuditID {
			return result[i].AuditID < result[j].AuditID
		}
		return result[i].QuestionID < result[j].QuestionID
	})
	return result
}

// Action log methods.

// LogAction records an action.
func (m *RecordStore) LogAction(_ context.Context, action string, auditID int64, details map[string]any) error {
	if err := m.firstErr(m.LogActionErr); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogActionCallCount++
	m.nextActionID++
	m.Actions = append(m.Actions, entities.ActionEntry{
		ID:        m.nextActionID,
		Action:    action,
		AuditID:   auditID,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

// FindActionLog returns an audit's entries, newest first.
func (m *RecordStore) FindActionLog(_ context.Context, auditID int64) ([]entities.ActionEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.actionsWhere(func(e entities.ActionEntry) bool { return e.AuditID == auditID }, 0), nil
}

// FindActionLogByAction returns entries with the given action, newest first.
// An empty action matches every entry.
func (m *RecordStore) FindActionLogByAction(_ context.Context, action string, limit int) ([]entities.ActionEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.actionsWhere(func(e entities.ActionEntry) bool { return action == "" || e.Action == action }, limit), nil
}

func (m *RecordStore) actionsWhere(keep func(entities.ActionEntry) bool, limit int) []entities.ActionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []entities.ActionEntry{}
	for i := len(m.Actions) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		if keep(m.Actions[i]) {
			result = append(result, m.Actions[i])
		}
	}
	return result
}

// Watch methods.

// WatchAudit emits the audit, or nil once deleted.
func (m *RecordStore) WatchAudit(ctx context.Context, auditID int64, fn ports.Listener[*entities.Audit]) (ports.Subscription, error) {
	return subscribe(m, []string{topicAudits}, func() (*entities.Audit, error) {
		return m.FindAudit(ctx, auditID)
	}, fn)
}

// WatchAudits emits the audit list.
func (m *RecordStore) WatchAudits(ctx context.Context, fn ports.Listener[[]entities.Audit]) (ports.Subscription, error) {
	return subscribe(m, []string{topicAudits}, func() ([]entities.Audit, error) {
		return m.ListAudits(ctx)
	}, fn)
}

// WatchQuestions emits the question list.
func (m *RecordStore) WatchQuestions(ctx context.Context, fn ports.Listener[[]entities.Question]) (ports.Subscription, error) {
	return subscribe(m, []string{topicQuestions}, func() ([]entities.Question, error) {
		return m.ListQuestions(ctx)
	}, fn)
}

// WatchAnswersForAudit emits one audit's answers.
func (m *RecordStore) WatchAnswersForAudit(ctx context.Context, auditID int64, fn ports.Listener[[]entities.Answer]) (ports.Subscription, error) {
	return subscribe(m, []string{topicAnswers}, func() ([]entities.Answer, error) {
		return m.ListAnswersForAudit(ctx, auditID)
	}, fn)
}

// WatchAllAnswers emits every answer.
func (m *RecordStore) WatchAllAnswers(ctx context.Context, fn ports.Listener[[]entities.Answer]) (ports.Subscription, error) {
	return subscribe(m, []string{topicAnswers}, func() ([]entities.Answer, error) {
		return m.ListAllAnswers(ctx)
	}, fn)
}

// WatchCount returns the number of open watches.
func (m *RecordStore) WatchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watches)
}

func subscribe[T any](m *RecordStore, topics []string, load func() (T, error), fn ports.Listener[T]) (ports.Subscription, error) {
	if fn == nil {
		return nil, fmt.Errorf("watch listener is required")
	}
	emit := func() { fn(load()) }

	m.mu.Lock()
	m.nextWatchID++
	id := fmt.Sprintf("watch-%d", m.nextWatchID)
	m.watches[id] = &watchEntry{topics: topics, emit: emit}
	m.mu.Unlock()

	emit()
	return &subscription{id: id, store: m}, nil
}

// publish triggers every watch on the given topics.
func (m *RecordStore) publish(topics ...string) {
	m.mu.Lock()
	var pending []func()
	ids := make([]string, 0, len(m.watches))
	for id := range m.watches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		w := m.watches[id]
		if watchesAny(w.topics, topics) {
			pending = append(pending, w.emit)
		}
	}
	m.mu.Unlock()

	for _, emit := range pending {
		emit()
	}
}

func watchesAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (m *RecordStore) firstErr(specific error) error {
	if m.Err != nil {
		return m.Err
	}
	return specific
}

type subscription struct {
	id    string
	store *RecordStore
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Close() {
	s.store.mu.Lock()
	delete(s.store.watches, s.id)
	s.store.mu.Unlock()
}
