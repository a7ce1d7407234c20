package entities

import (
	"strconv"
	"strings"
)

// Answer values.
const (
	AnswerNo      = 0
	AnswerPartial = 1
	AnswerYes     = 2
)

// NonComplianceLevel classifies a "No" answer.
type NonComplianceLevel string

// Non-compliance levels. The empty level means none was chosen.
const (
	LevelNone  NonComplianceLevel = ""
	LevelMinor NonComplianceLevel = "MENOR"
	LevelMajor NonComplianceLevel = "MAYOR"
)

// IsValid reports whether l is a known level, including LevelNone.
func (l NonComplianceLevel) IsValid() bool {
	switch l {
	case LevelNone, LevelMinor, LevelMajor:
		return true
	}
	return false
}

// ParseNonComplianceLevel accepts "menor"/"minor" and "mayor"/"major" in any case.
func ParseNonComplianceLevel(s string) (NonComplianceLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return LevelNone, true
	case "menor", "minor":
		return LevelMinor, true
	case "mayor", "major":
		return LevelMajor, true
	}
	return LevelNone, false
}

// Answer is one response to one question within one audit.
type Answer struct {
	ID         int64 `json:"id"`
	AuditID    int64 `json:"audit_id"`
	QuestionID int64 `json:"question_id"`
	// Value is 0 (No), 1 (Partial) or 2 (Yes).
	Value int `json:"value"`
	// Comment is required for a complete "No" answer.
	Comment string `json:"comment,omitempty"`
	// NonComplianceLevel is required for a complete "No" answer and is
	// cleared whenever Value is not No.
	NonComplianceLevel NonComplianceLevel `json:"non_compliance_level,omitempty"`
}

// Normalize trims the comment and clears the non-compliance level unless the
// answer is a "No".
func (a *Answer) Normalize() {
	a.Comment = strings.TrimSpace(a.Comment)
	if a.Value != AnswerNo {
		a.NonComplianceLevel = LevelNone
	}
}

// IsNo reports whether the answer is a "No".
func (a Answer) IsNo() bool {
	return a.Value == AnswerNo
}

// ValidAnswerValue reports whether v is one of No, Partial or Yes.
func ValidAnswerValue(v int) bool {
	return v == AnswerNo || v == AnswerPartial || v == AnswerYes
}

// ParseAnswerValue accepts yes/partial/no (also si/parcial), y/p/n, or 2/1/0.
func ParseAnswerValue(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "si", "sí":
		return AnswerYes, true
	case "partial", "p", "parcial":
		return AnswerPartial, true
	case "no", "n":
		return AnswerNo, true
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !ValidAnswerValue(v) {
		return 0, false
	}
	return v, true
}

// AnswerLabel returns a display label for an answer value.
func AnswerLabel(v int) string {
	switch v {
	case AnswerYes:
		return "Yes"
	case AnswerPartial:
		return "Partial"
	case AnswerNo:
		return "No"
	}
	return "Unknown"
}
