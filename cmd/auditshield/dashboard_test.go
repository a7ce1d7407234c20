package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/services"
)

func sampleDashboard() *services.Dashboard {
	answers := []entities.Answer{
		{AuditID: 1, QuestionID: 1, Value: entities.AnswerYes},
		{AuditID: 1, QuestionID: 2, Value: entities.AnswerYes},
		{AuditID: 1, QuestionID: 3, Value: entities.AnswerNo, Comment: "no backups", NonComplianceLevel: entities.LevelMinor},
	}
	questions := []entities.Question{
		{ID: 1, ControlRef: "A.5.1"},
		{ID: 2, ControlRef: "A.9.2"},
		{ID: 3, ControlRef: "A.12.3"},
	}
	audits := []entities.Audit{{ID: 1, Title: "first", Score: 66, RiskLevel: entities.RiskMedium}}
	return services.BuildDashboard(answers, questions, audits)
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	renderDashboard(&printer{w: &buf}, sampleDashboard())

	result := buf.String()
	assert.Contains(t, result, "Answers: 3")
	assert.Contains(t, result, " 66.67%")
	assert.Contains(t, result, "Global compliance: 66.67%")
	assert.Contains(t, result, "Readiness:         MEDIUM")
	assert.Contains(t, result, "0 major, 1 minor, 0 observations")
	assert.Contains(t, result, "A.12")
	assert.Contains(t, result, "no backups")
	assert.Contains(t, result, "#1")
}

func TestRenderDashboard_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderDashboard(&printer{w: &buf}, services.BuildDashboard(nil, nil, nil))

	assert.Contains(t, buf.String(), "No answers yet.")
	assert.NotContains(t, buf.String(), "Global compliance")
}

func TestWriteDashboardJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDashboardJSON(&buf, sampleDashboard()))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, 66.67, parsed["global_compliance"])
	assert.Equal(t, "MEDIUM", parsed["readiness"])
	assert.Equal(t, float64(1), parsed["minor_nc"])
}

func TestBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░░░░░░░░░░░", bar(0))
	assert.Equal(t, "██████████░░░░░░░░░░", bar(50))
	assert.Equal(t, "████████████████████", bar(100))
	assert.Equal(t, "████████████████████", bar(150))
}
