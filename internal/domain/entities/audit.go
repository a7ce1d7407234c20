// Package entities contains core domain data structures.
package entities

import (
	"strings"
	"time"
)

// DefaultFramework is the compliance framework label assigned to new audits
// when no framework is configured.
const DefaultFramework = "ISO/IEC 27001:2022"

// MaxScore is the upper bound of an audit score.
const MaxScore = 100

// AuditStatus is the lifecycle state of an audit.
type AuditStatus string

// Audit statuses. New audits start IN_PROGRESS and move to COMPLETED when
// finished. PENDING and FAILED are reserved: no operation sets them yet.
const (
	AuditStatusPending    AuditStatus = "PENDING"
	AuditStatusInProgress AuditStatus = "IN_PROGRESS"
	AuditStatusCompleted  AuditStatus = "COMPLETED"
	AuditStatusFailed     AuditStatus = "FAILED"
)

// IsValid reports whether s is a known status.
func (s AuditStatus) IsValid() bool {
	switch s {
	case AuditStatusPending, AuditStatusInProgress, AuditStatusCompleted, AuditStatusFailed:
		return true
	}
	return false
}

// ParseAuditStatus parses a status name, case-insensitively.
func ParseAuditStatus(s string) (AuditStatus, bool) {
	status := AuditStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// RiskLevel classifies an audit score.
type RiskLevel string

// Risk levels, from least to most severe.
const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// IsValid reports whether r is a known risk level.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Severity returns the ordinal of r: 0 for LOW up to 3 for CRITICAL, -1 if unknown.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	}
	return -1
}

// ParseRiskLevel parses a risk level name, case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	level := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	return level, level.IsValid()
}

// Audit is one assessment run against the question template.
// Score and RiskLevel are derived from the audit's answers and are
// recomputed on every answer change.
type Audit struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	ISOControl      string      `json:"iso_control"`
	CreatedAt       time.Time   `json:"created_at"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	Status          AuditStatus `json:"status"`
	Score           int         `json:"score"`
	MaxScore        int         `json:"max_score"`
	RiskLevel       RiskLevel   `json:"risk_level"`
	Recommendations string      `json:"recommendations,omitempty"`
}

// NewAudit returns an in-progress audit with a zero score.
func NewAudit(title, framework string, now time.Time) *Audit {
	if framework == "" {
		framework = DefaultFramework
	}
	return &Audit{
		Title:      strings.TrimSpace(title),
		ISOControl: framework,
		CreatedAt:  now,
		Status:     AuditStatusInProgress,
		Score:      0,
		MaxScore:   MaxScore,
		RiskLevel:  RiskLow,
	}
}

// IsCompleted reports whether the audit has been finished.
func (a *Audit) IsCompleted() bool {
	return a.Status == AuditStatusCompleted
}
