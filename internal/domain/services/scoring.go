package services

import "github.com/ersonp/auditshield/internal/domain/entities"

// Risk thresholds. The same table drives audit risk and dashboard readiness.
const (
	LowRiskThreshold    = 80
	MediumRiskThreshold = 60
	HighRiskThreshold   = 40
)

// PercentOf maps an answer value to its compliance percent: No 0, Partial 50,
// Yes 100. Any other value counts as 0.
func PercentOf(value int) int {
	switch value {
	case entities.AnswerYes:
		return 100
	case entities.AnswerPartial:
		return 50
	default:
		return 0
	}
}

// ScoreForAudit returns the integer mean of the answers' percents, in [0,100].
// An empty answer set scores 0.
func ScoreForAudit(answers []entities.Answer) int {
	if len(answers) == 0 {
		return 0
	}
	sum := 0
	for _, a := range answers {
		sum += PercentOf(a.Value)
	}
	return clampScore(sum / len(answers))
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > entities.MaxScore:
		return entities.MaxScore
	}
	return score
}

// RiskLevelForScore classifies a score: 80 and above is LOW, 60-79 MEDIUM,
// 40-59 HIGH, below 40 CRITICAL.
func RiskLevelForScore(score int) entities.RiskLevel {
	switch {
	case score >= LowRiskThreshold:
		return entities.RiskLow
	case score >= MediumRiskThreshold:
		return entities.RiskMedium
	case score >= HighRiskThreshold:
		return entities.RiskHigh
	default:
		return entities.RiskCritical
	}
}

// Assessment is an audit's derived score and risk level.
type Assessment struct {
	Score     int
	RiskLevel entities.RiskLevel
}

// Assess scores answers and classifies the result.
func Assess(answers []entities.Answer) Assessment {
	score := ScoreForAudit(answers)
	return Assessment{
		Score:     score,
		RiskLevel: RiskLevelForScore(score),
	}
}

// Recommendation bands.
const (
	BandCritical  = "critical"
	BandHigh      = "high"
	BandMedium    = "medium"
	BandGood      = "good"
	BandExcellent = "excellent"
	BandNoData    = "no data"
)

// Recommendation is the advice shown for a score band.
type Recommendation struct {
	Band   string `json:"band"`
	Advice string `json:"advice"`
}

// RecommendationForScore returns advice for a score in [0,100].
// Scores outside that range have no data.
func RecommendationForScore(score int) Recommendation {
	switch {
	case score < 0 || score > entities.MaxScore:
		return Recommendation{Band: BandNoData, Advice: "No data."}
	case score <= 25:
		return Recommendation{Band: BandCritical, Advice: "Critical: immediate attention required. Implement basic controls urgently."}
	case score <= 50:
		return Recommendation{Band: BandHigh, Advice: "High risk: significant gaps exist. Prioritise the highest-impact areas."}
	case score <= 75:
		return Recommendation{Band: BandMedium, Advice: "Medium risk: good progress, but improvements are needed to meet the standard."}
	case score < entities.MaxScore:
		return Recommendation{Band: BandGood, Advice: "Good: most controls are in place. Review the remaining minor details."}
	default:
		return Recommendation{Band: BandExcellent, Advice: "Excellent: full compliance. Keep monitoring continuously."}
	}
}
