package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/ports"
)

// UnknownControl groups answers whose question has no control reference.
const UnknownControl = "Unknown"

// NoLevel is shown for a finding without a non-compliance level.
const NoLevel = "N/A"

// ReadinessStatus summarizes certification readiness across all audits.
type ReadinessStatus string

// Readiness statuses.
const (
	ReadinessHigh   ReadinessStatus = "HIGH"
	ReadinessMedium ReadinessStatus = "MEDIUM"
	ReadinessLow    ReadinessStatus = "LOW"
)

// ControlCompliance is the mean compliance of one control group.
type ControlCompliance struct {
	Control    string  `json:"control"`
	Compliance float64 `json:"compliance"`
	Answers    int     `json:"answers"`
}

// Finding is a "No" answer surfaced on the dashboard.
type Finding struct {
	AuditID    int64  `json:"audit_id"`
	QuestionID int64  `json:"question_id"`
	ControlRef string `json:"control_ref"`
	Comment    string `json:"comment"`
	Level      string `json:"level"`
}

// TrendPoint is one audit's score in creation order.
type TrendPoint struct {
	AuditID int64  `json:"audit_id"`
	Title   string `json:"title"`
	Score   int    `json:"score"`
}

// AuditStats summarizes the audit list.
type AuditStats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	AverageScore int `json:"average_score"`
	HighRisk     int `json:"high_risk"`
}

// Dashboard holds cross-audit statistics. Percentages are rounded to two
// decimals.
type Dashboard struct {
	// Empty is set when there are no answers at all. Only Stats is filled then.
	Empty        bool `json:"empty"`
	TotalAnswers int  `json:"total_answers"`

	YesPct           float64 `json:"yes_pct"`
	PartialPct       float64 `json:"partial_pct"`
	NoPct            float64 `json:"no_pct"`
	GlobalCompliance float64 `json:"global_compliance"`

	ControlCompliance map[string]float64  `json:"control_compliance"`
	Controls          []ControlCompliance `json:"controls"`

	MajorNC int `json:"major_nc"`
	MinorNC int `json:"minor_nc"`
	// Observations counts Partial answers; there is no separate observation tag.
	Observations int `json:"observations"`

	Findings  []Finding       `json:"findings"`
	Trend     []TrendPoint    `json:"trend"`
	Readiness ReadinessStatus `json:"readiness"`
	Stats     AuditStats      `json:"stats"`
}

// BuildDashboard aggregates every answer of every audit.
func BuildDashboard(answers []entities.Answer, questions []entities.Question, audits []entities.Audit) *Dashboard {
	d := &Dashboard{
		ControlCompliance: map[string]float64{},
		Controls:          []ControlCompliance{},
		Findings:          []Finding{},
		Trend:             []TrendPoint{},
		Readiness:         ReadinessLow,
		Stats:             ComputeAuditStats(audits),
	}

	total := len(answers)
	if total == 0 {
		d.Empty = true
		return d
	}
	d.TotalAnswers = total

	refs := make(map[int64]string, len(questions))
	for _, q := range questions {
		refs[q.ID] = q.ControlRef
	}

	var yes, partial, no, sum int
	groups := make(map[string][]int)
	for _, a := range answers {
		switch a.Value {
		case entities.AnswerYes:
			yes++
		case entities.AnswerPartial:
			partial++
		case entities.AnswerNo:
			no++
		}
		percent := PercentOf(a.Value)
		sum += percent

		ref := strings.TrimSpace(refs[a.QuestionID])
		group := ControlGroup(ref)
		groups[group] = append(groups[group], percent)

		if a.Value == entities.AnswerNo {
			switch a.NonComplianceLevel {
			case entities.LevelMajor:
				d.MajorNC++
			case entities.LevelMinor:
				d.MinorNC++
			}
			d.Findings = append(d.Findings, newFinding(a, ref))
		}
	}
	d.Observations = partial

	d.YesPct = round2(float64(yes) / float64(total) * 100)
	d.PartialPct = round2(float64(partial) / float64(total) * 100)
	d.NoPct = round2(float64(no) / float64(total) * 100)
	d.GlobalCompliance = round2(float64(sum) / float64(total))
	d.Readiness = ReadinessForCompliance(d.GlobalCompliance)

	for group, percents := range groups {
		c := ControlCompliance{
			Control:    group,
			Compliance: round2(mean(percents)),
			Answers:    len(percents),
		}
		d.ControlCompliance[group] = c.Compliance
		d.Controls = append(d.Controls, c)
	}
	sort.Slice(d.Controls, func(i, j int) bool {
		return CompareControls(d.Controls[i].Control, d.Controls[j].Control) < 0
	})

	sort.SliceStable(d.Findings, func(i, j int) bool {
		fi, fj := d.Findings[i], d.Findings[j]
		if c := CompareControls(fi.ControlRef, fj.ControlRef); c != 0 {
			return c < 0
		}
		if fi.AuditID != fj.AuditID {
			return fi.AuditID < fj.AuditID
		}
		return fi.QuestionID < fj.QuestionID
	})

	d.Trend = Trend(audits)
	return d
}

func newFinding(a entities.Answer, ref string) Finding {
	if ref == "" {
		ref = UnknownControl
	}
	level := string(a.NonComplianceLevel)
	if level == "" {
		level = NoLevel
	}
	return Finding{
		AuditID:    a.AuditID,
		QuestionID: a.QuestionID,
		ControlRef: ref,
		Comment:    a.Comment,
		Level:      level,
	}
}

// ControlGroup reduces a control reference to its first two dot-separated
// segments: "A.9.3" becomes "A.9". A reference without a dot is returned as
// is and an empty one becomes UnknownControl.
func ControlGroup(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return UnknownControl
	}
	parts := strings.SplitN(ref, ".", 3)
	if len(parts) < 2 {
		return ref
	}
	return parts[0] + "." + parts[1]
}

// CompareControls orders control references segment by segment, numerically
// where both segments are numbers, so "A.5" < "A.9" < "A.10".
// UnknownControl sorts last.
func CompareControls(a, b string) int {
	if a == b {
		return 0
	}
	if a == UnknownControl {
		return 1
	}
	if b == UnknownControl {
		return -1
	}
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}

func compareSegment(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return an - bn
	}
	return strings.Compare(a, b)
}

// Trend returns every audit's score ordered by ID, oldest first.
func Trend(audits []entities.Audit) []TrendPoint {
	sorted := make([]entities.Audit, len(audits))
	copy(sorted, audits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	points := make([]TrendPoint, 0, len(sorted))
	for _, a := range sorted {
		points = append(points, TrendPoint{AuditID: a.ID, Title: a.Title, Score: a.Score})
	}
	return points
}

// LastN returns the final n points of a trend.
func LastN(points []TrendPoint, n int) []TrendPoint {
	if n <= 0 || len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}

// ReadinessForCompliance uses the risk thresholds: 80 and above is HIGH,
// 60 and above MEDIUM, otherwise LOW.
func ReadinessForCompliance(compliance float64) ReadinessStatus {
	switch {
	case compliance >= LowRiskThreshold:
		return ReadinessHigh
	case compliance >= MediumRiskThreshold:
		return ReadinessMedium
	default:
		return ReadinessLow
	}
}

// ComputeAuditStats summarizes an audit list.
func ComputeAuditStats(audits []entities.Audit) AuditStats {
	stats := AuditStats{Total: len(audits)}
	if len(audits) == 0 {
		return stats
	}
	sum := 0
	for _, a := range audits {
		sum += a.Score
		if a.IsCompleted() {
			stats.Completed++
		}
		if a.RiskLevel == entities.RiskHigh || a.RiskLevel == entities.RiskCritical {
			stats.HighRisk++
		}
	}
	stats.AverageScore = sum / len(audits)
	return stats
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// DashboardService builds dashboards from the record store.
type DashboardService struct {
	store ports.RecordStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store ports.RecordStore) *DashboardService {
	return &DashboardService{store: store}
}

// Build loads all answers, questions and audits and aggregates them.
func (s *DashboardService) Build(ctx context.Context) (*Dashboard, error) {
	answers, err := s.store.ListAllAnswers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	audits, err := s.store.ListAudits(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing audits: %w", err)
	}
	return BuildDashboard(answers, questions, audits), nil
}

// Watch rebuilds the dashboard whenever answers, questions or audits change.
// fn is first called once all three streams have produced a value, and is
// never called concurrently with itself.
func (s *DashboardService) Watch(ctx context.Context, fn ports.Listener[*Dashboard]) (ports.Subscription, error) {
	if fn == nil {
		return nil, fmt.Errorf("watch listener is required")
	}

	c := &dashboardCombiner{fn: fn}
	sub := &multiSubscription{id: uuid.New().String()}

	answersSub, err := s.store.WatchAllAnswers(ctx, func(v []entities.Answer, err error) {
		c.update(func() { c.answers, c.haveAnswers = v, true }, err)
	})
	if err != nil {
		return nil, fmt.Errorf("watching answers: %w", err)
	}
	sub.add(answersSub)

	questionsSub, err := s.store.WatchQuestions(ctx, func(v []entities.Question, err error) {
		c.update(func() { c.questions, c.haveQuestions = v, true }, err)
	})
	if err != nil {
		sub.Close()
		return nil, fmt.Errorf("watching questions: %w", err)
	}
	sub.add(questionsSub)

	auditsSub, err := s.store.WatchAudits(ctx, func(v []entities.Audit, err error) {
		c.update(func() { c.audits, c.haveAudits = v, true }, err)
	})
	if err != nil {
		sub.Close()
		return nil, fmt.Errorf("watching audits: %w", err)
	}
	sub.add(auditsSub)

	return sub, nil
}

// dashboardCombiner keeps the latest value of each stream.
type dashboardCombiner struct {
	mu sync.Mutex
	fn ports.Listener[*Dashboard]

	answers   []entities.Answer
	questions []entities.Question
	audits    []entities.Audit

	haveAnswers, haveQuestions, haveAudits bool
}

func (c *dashboardCombiner) update(set func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.fn(nil, err)
		return
	}
	set()
	if !c.haveAnswers || !c.haveQuestions || !c.haveAudits {
		return
	}
	c.fn(BuildDashboard(c.answers, c.questions, c.audits), nil)
}

// multiSubscription closes several subscriptions as one.
type multiSubscription struct {
	id   string
	mu   sync.Mutex
	subs []ports.Subscription
}

func (m *multiSubscription) add(s ports.Subscription) {
	m.mu.Lock()
	m.subs = append(m.subs, s)
	m.mu.Unlock()
}

// ID returns the combined subscription token.
func (m *multiSubscription) ID() string {
	return m.id
}

// Close closes every underlying subscription.
func (m *multiSubscription) Close() {
	m.mu.Lock()
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}
