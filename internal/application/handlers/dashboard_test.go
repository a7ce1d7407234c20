package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/services"
)

func TestDashboardHandler_Handle_Empty(t *testing.T) {
	_, store := newTestWorkflow(t)
	handler := NewDashboardHandler(services.NewDashboardService(store), 5)

	d, err := handler.Handle(t.Context())

	require.NoError(t, err)
	assert.True(t, d.Empty)
	assert.Equal(t, services.ReadinessLow, d.Readiness)
}

func TestDashboardHandler_Handle_TrendWindow(t *testing.T) {
	w, store := newTestWorkflow(t)
	handler := NewDashboardHandler(services.NewDashboardService(store), 2)

	for _, title := range []string{"one", "two", "three"} {
		createAudit(t, w, title)
	}

	d, err := handler.Handle(t.Context())

	require.NoError(t, err)
	assert.False(t, d.Empty)
	assert.Equal(t, 3*len(testQuestions), d.TotalAnswers)
	assert.Len(t, d.Trend, 2)
	assert.Equal(t, 3, d.Stats.Total)
}

func TestDashboardHandler_Watch(t *testing.T) {
	w, store := newTestWorkflow(t)
	handler := NewDashboardHandler(services.NewDashboardService(store), 0)

	var got []*services.Dashboard
	sub, err := handler.Watch(t.Context(), func(d *services.Dashboard, err error) {
		assert.NoError(t, err)
		got = append(got, d)
	})
	require.NoError(t, err)
	t.Cleanup(sub.Close)

	require.NotEmpty(t, got)
	assert.True(t, got[len(got)-1].Empty)

	audit := createAudit(t, w, "watched")
	_, err = w.EditAnswer(t.Context(), audit.ID, store.Questions[0].ID, setValue(entities.AnswerYes))
	require.NoError(t, err)

	last := got[len(got)-1]
	assert.False(t, last.Empty)
	assert.Equal(t, len(testQuestions), last.TotalAnswers)
	assert.InDelta(t, 33.33, last.YesPct, 0.001)
}
