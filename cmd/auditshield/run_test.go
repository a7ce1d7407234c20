package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/auditshield/internal/application/handlers"
	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/mocks"
	"github.com/ersonp/auditshield/internal/domain/services"
)

func newTestRunner(t *testing.T, input string) (*guidedRunner, *mocks.RecordStore, *bytes.Buffer, int64) {
	t.Helper()
	store := mocks.NewRecordStore()
	require.NoError(t, store.InsertQuestions(context.Background(), []entities.Question{
		{Text: "Is there an information security policy?", ControlRef: "A.5.1"},
		{Text: "Are access rights reviewed?", ControlRef: "A.9.2"},
	}))
	workflow := services.NewWorkflowService(store, "")
	created, err := workflow.CreateAudit(context.Background(), "guided")
	require.NoError(t, err)

	var out bytes.Buffer
	r := &guidedRunner{
		answers: handlers.NewAnswerHandler(workflow),
		audits:  handlers.NewAuditHandler(workflow),
		in:      bufio.NewScanner(strings.NewReader(input)),
		p:       &printer{w: &out},
	}
	return r, store, &out, created.Audit.ID
}

func answerFor(store *mocks.RecordStore, auditID, questionID int64) *entities.Answer {
	a, _ := store.FindAnswerFor(context.Background(), auditID, questionID)
	return a
}

func TestGuidedRunner_CompletesAudit(t *testing.T) {
	input := strings.Join([]string{
		"n", "", "", // No without details: refused
		"", "missing policy", "mayor", // keep No, add details
		"y",
		"y", // finish
	}, "\n") + "\n"
	r, store, out, auditID := newTestRunner(t, input)

	require.NoError(t, r.run(t.Context(), auditID))

	first := answerFor(store, auditID, 1)
	require.NotNil(t, first)
	assert.Equal(t, entities.AnswerNo, first.Value)
	assert.Equal(t, "missing policy", first.Comment)
	assert.Equal(t, entities.LevelMajor, first.NonComplianceLevel)

	second := answerFor(store, auditID, 2)
	require.NotNil(t, second)
	assert.Equal(t, entities.AnswerYes, second.Value)

	audit := store.Audits[auditID]
	assert.Equal(t, entities.AuditStatusCompleted, audit.Status)
	assert.Equal(t, 50, audit.Score)
	assert.Equal(t, entities.RiskHigh, audit.RiskLevel)

	assert.Contains(t, out.String(), "add a comment and a level")
	assert.Contains(t, out.String(), "[2/2]")
	assert.Contains(t, out.String(), "Audit 1 completed")
}

func TestGuidedRunner_QuitKeepsProgress(t *testing.T) {
	r, store, out, auditID := newTestRunner(t, "p\nq\n")

	require.NoError(t, r.run(t.Context(), auditID))

	assert.Equal(t, entities.AnswerPartial, answerFor(store, auditID, 1).Value)
	assert.Equal(t, entities.AuditStatusInProgress, store.Audits[auditID].Status)
	assert.Contains(t, out.String(), "Progress saved.")
}

func TestGuidedRunner_BackAndInvalidInput(t *testing.T) {
	r, store, out, auditID := newTestRunner(t, "b\nmaybe\ny\nb\nq\n")

	require.NoError(t, r.run(t.Context(), auditID))

	assert.Contains(t, out.String(), "Already at the first question.")
	assert.Contains(t, out.String(), `Unknown answer "maybe"`)
	assert.Equal(t, entities.AnswerYes, answerFor(store, auditID, 1).Value)
	// Shown initially, after each rejected input and after going back.
	assert.Equal(t, 4, strings.Count(out.String(), "[1/2]"))
}

func TestGuidedRunner_DeclineFinish(t *testing.T) {
	r, store, _, auditID := newTestRunner(t, "y\ny\nn\n")

	require.NoError(t, r.run(t.Context(), auditID))

	audit := store.Audits[auditID]
	assert.Equal(t, entities.AuditStatusInProgress, audit.Status)
	assert.Equal(t, 100, audit.Score)
	assert.Equal(t, entities.RiskLow, audit.RiskLevel)
}

func TestGuidedRunner_EndOfInput(t *testing.T) {
	r, _, out, auditID := newTestRunner(t, "")

	require.NoError(t, r.run(t.Context(), auditID))
	assert.Contains(t, out.String(), "Progress saved.")
}

func TestGuidedRunner_UnknownAudit(t *testing.T) {
	r, _, _, _ := newTestRunner(t, "")

	err := r.run(t.Context(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit not found")
}
