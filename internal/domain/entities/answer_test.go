package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswer_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		answer   Answer
		expected Answer
	}{
		{
			name:     "yes clears major level",
			answer:   Answer{Value: AnswerYes, NonComplianceLevel: LevelMajor, Comment: "fixed"},
			expected: Answer{Value: AnswerYes, Comment: "fixed"},
		},
		{
			name:     "partial clears minor level",
			answer:   Answer{Value: AnswerPartial, NonComplianceLevel: LevelMinor},
			expected: Answer{Value: AnswerPartial},
		},
		{
			name:     "no keeps level",
			answer:   Answer{Value: AnswerNo, NonComplianceLevel: LevelMajor, Comment: "  missing policy  "},
			expected: Answer{Value: AnswerNo, NonComplianceLevel: LevelMajor, Comment: "missing policy"},
		},
		{
			name:     "out of range value clears level",
			answer:   Answer{Value: 7, NonComplianceLevel: LevelMinor},
			expected: Answer{Value: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.answer
			a.Normalize()
			assert.Equal(t, tt.expected, a)
		})
	}
}

func TestParseAnswerValue(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"yes", AnswerYes, true},
		{"Y", AnswerYes, true},
		{"sí", AnswerYes, true},
		{"partial", AnswerPartial, true},
		{"Parcial", AnswerPartial, true},
		{"no", AnswerNo, true},
		{"2", AnswerYes, true},
		{"1", AnswerPartial, true},
		{"0", AnswerNo, true},
		{"3", 0, false},
		{"maybe", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, ok := ParseAnswerValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestParseNonComplianceLevel(t *testing.T) {
	level, ok := ParseNonComplianceLevel("major")
	assert.True(t, ok)
	assert.Equal(t, LevelMajor, level)

	level, ok = ParseNonComplianceLevel("MENOR")
	assert.True(t, ok)
	assert.Equal(t, LevelMinor, level)

	level, ok = ParseNonComplianceLevel("")
	assert.True(t, ok)
	assert.Equal(t, LevelNone, level)

	_, ok = ParseNonComplianceLevel("observation")
	assert.False(t, ok)
}

func TestRiskLevel_Severity(t *testing.T) {
	assert.Less(t, RiskLow.Severity(), RiskMedium.Severity())
	assert.Less(t, RiskMedium.Severity(), RiskHigh.Severity())
	assert.Less(t, RiskHigh.Severity(), RiskCritical.Severity())
	assert.Equal(t, -1, RiskLevel("BOGUS").Severity())
}

func TestParseAuditStatus(t *testing.T) {
	status, ok := ParseAuditStatus("completed")
	assert.True(t, ok)
	assert.Equal(t, AuditStatusCompleted, status)

	_, ok = ParseAuditStatus("archived")
	assert.False(t, ok)
}

func TestDefaultQuestions(t *testing.T) {
	assert.Len(t, DefaultQuestions, 28)
	for _, q := range DefaultQuestions {
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.ControlRef)
	}

	refs := DefaultControlRefs()
	assert.Len(t, refs, 14)
	assert.Equal(t, "A.5", refs[0])
	assert.Equal(t, "A.18", refs[len(refs)-1])
}
