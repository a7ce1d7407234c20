package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/auditshield/internal/domain/entities"
)

func answersWithValues(values ...int) []entities.Answer {
	answers := make([]entities.Answer, len(values))
	for i, v := range values {
		answers[i] = entities.Answer{ID: int64(i + 1), AuditID: 1, QuestionID: int64(i + 1), Value: v}
	}
	return answers
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		value    int
		expected int
	}{
		{value: 0, expected: 0},
		{value: 1, expected: 50},
		{value: 2, expected: 100},
		{value: 3, expected: 0},
		{value: -1, expected: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PercentOf(tt.value), "value %d", tt.value)
	}
}

func TestScoreForAudit(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected int
	}{
		{name: "empty", values: nil, expected: 0},
		{name: "single yes", values: []int{2}, expected: 100},
		{name: "single partial", values: []int{1}, expected: 50},
		{name: "single no", values: []int{0}, expected: 0},
		{name: "yes and no", values: []int{2, 0}, expected: 50},
		{name: "integer division truncates", values: []int{2, 2, 0}, expected: 66},
		{name: "partial mix", values: []int{2, 1, 1}, expected: 66},
		{name: "unknown values score zero", values: []int{2, 7}, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreForAudit(answersWithValues(tt.values...)))
		})
	}
}

func TestScoreForAudit_AlwaysInRange(t *testing.T) {
	values := []int{-5, 0, 1, 2, 3, 100}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				score := ScoreForAudit(answersWithValues(a, b, c))
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected entities.RiskLevel
	}{
		{score: 100, expected: entities.RiskLow},
		{score: 80, expected: entities.RiskLow},
		{score: 79, expected: entities.RiskMedium},
		{score: 60, expected: entities.RiskMedium},
		{score: 59, expected: entities.RiskHigh},
		{score: 40, expected: entities.RiskHigh},
		{score: 39, expected: entities.RiskCritical},
		{score: 0, expected: entities.RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RiskLevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestRiskLevelForScore_Monotonic(t *testing.T) {
	prev := RiskLevelForScore(0).Severity()
	for score := 1; score <= 100; score++ {
		sev := RiskLevelForScore(score).Severity()
		assert.LessOrEqual(t, sev, prev, "risk increased at score %d", score)
		prev = sev
	}
}

func TestAssess(t *testing.T) {
	result := Assess(answersWithValues(2, 2, 2, 1))
	assert.Equal(t, Assessment{Score: 87, RiskLevel: entities.RiskLow}, result)

	result = Assess(nil)
	assert.Equal(t, Assessment{Score: 0, RiskLevel: entities.RiskCritical}, result)
}

func TestRecommendationForScore(t *testing.T) {
	tests := []struct {
		score int
		band  string
	}{
		{score: -1, band: BandNoData},
		{score: 0, band: BandCritical},
		{score: 25, band: BandCritical},
		{score: 26, band: BandHigh},
		{score: 50, band: BandHigh},
		{score: 51, band: BandMedium},
		{score: 75, band: BandMedium},
		{score: 76, band: BandGood},
		{score: 99, band: BandGood},
		{score: 100, band: BandExcellent},
		{score: 101, band: BandNoData},
	}

	for _, tt := range tests {
		rec := RecommendationForScore(tt.score)
		assert.Equal(t, tt.band, rec.Band, "score %d", tt.score)
		assert.NotEmpty(t, rec.Advice)
	}
}
