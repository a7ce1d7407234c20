package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/mocks"
	"github.com/ersonp/auditshield/internal/infrastructure/parsers"
)

func TestQuestionService_LoadDefaults(t *testing.T) {
	store := mocks.NewRecordStore()
	s := NewQuestionService(store)
	ctx := context.Background()

	n, err := s.LoadDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(entities.DefaultQuestions), n)

	questions, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, len(entities.DefaultQuestions))
	assert.Equal(t, int64(1), questions[0].ID)
	assert.Equal(t, entities.DefaultQuestions[0].Text, questions[0].Text)

	t.Run("idempotent", func(t *testing.T) {
		n, err := s.LoadDefaults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		count, err := store.CountQuestions(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(entities.DefaultQuestions), count)
	})

	require.Len(t, store.Actions, 1)
	assert.Equal(t, entities.ActionQuestionsSeeded, store.Actions[0].Action)
}

func TestQuestionService_LoadDefaults_Error(t *testing.T) {
	store := mocks.NewRecordStore()
	store.InsertQuestionsErr = errors.New("read-only")

	_, err := NewQuestionService(store).LoadDefaults(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seeding questions")
}

func TestQuestionService_Import(t *testing.T) {
	store := mocks.NewRecordStore()
	s := NewQuestionService(store)
	ctx := context.Background()
	require.NoError(t, store.InsertQuestions(ctx, []entities.Question{{Text: "Existing question?", ControlRef: "A.5"}}))

	raw := []parsers.RawQuestion{
		{Text: "  New question?  ", ControlRef: " A.9.1 ", LineNum: 2},
		{Text: "", LineNum: 3},
		{Text: "existing   QUESTION?", LineNum: 4},
		{Text: "New question?", LineNum: 5},
		{Text: "Another one", LineNum: 6},
	}

	result, err := s.Import(ctx, raw, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Line)
	assert.Equal(t, "line 3: text is required", result.Errors[0].Error())

	questions, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "New question?", questions[1].Text)
	assert.Equal(t, "A.9.1", questions[1].ControlRef)
	assert.Equal(t, "Another one", questions[2].Text)
}

func TestQuestionService_Import_DryRun(t *testing.T) {
	store := mocks.NewRecordStore()
	s := NewQuestionService(store)

	result, err := s.Import(context.Background(), []parsers.RawQuestion{{Text: "Q1"}, {Text: "Q2"}}, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, store.Questions)
	assert.Empty(t, store.Actions)
}

func TestQuestionService_Import_NothingValid(t *testing.T) {
	s := NewQuestionService(mocks.NewRecordStore())

	result, err := s.Import(context.Background(), []parsers.RawQuestion{{Text: " "}}, ImportOptions{})
	assert.ErrorIs(t, err, ErrNoQuestionsToImport)
	require.NotNil(t, result)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Line)

	_, err = s.Import(context.Background(), nil, ImportOptions{})
	assert.ErrorIs(t, err, ErrNoQuestionsToImport)
}

func TestQuestionService_Import_AllDuplicates(t *testing.T) {
	store := mocks.NewRecordStore()
	s := NewQuestionService(store)
	ctx := context.Background()
	require.NoError(t, store.InsertQuestions(ctx, []entities.Question{{Text: "Q1"}}))

	result, err := s.Import(ctx, []parsers.RawQuestion{{Text: "q1"}}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}
