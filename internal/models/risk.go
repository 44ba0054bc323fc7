package models

import (
	"fmt"
	"strings"
)

// Risk factor names, in evaluation order.
const (
	FactorAmount     = "amount"
	FactorFrequency  = "frequency"
	FactorAccountAge = "account_age"
	FactorVelocity   = "velocity"
	FactorStatus     = "status"
	FactorError      = "error"
)

const (
	maxRiskScore = 100
	lowRiskMax   = 30
	midRiskMax   = 70
)

// RiskFactor is one named sub-score.
type RiskFactor struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RiskScore is the result of a risk evaluation.
type RiskScore struct {
	Total          int          `json:"total"`
	Factors        []RiskFactor `json:"factors"`
	Level          RiskLevel    `json:"level"`
	Recommendation string       `json:"recommendation"`
}

// RiskLevelFromScore maps a 0..100 score to LOW (<=30), MEDIUM (31..70) or HIGH (>=71).
func RiskLevelFromScore(score int) RiskLevel {
	switch {
	case score <= lowRiskMax:
		return RiskLevelLow
	case score <= midRiskMax:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// NewRiskScore sums factors, clamps the total into [0,100] and derives the level
// and recommendation.
func NewRiskScore(factors ...RiskFactor) RiskScore {
	total := 0
	for _, f := range factors {
		total += f.Score
	}
	if total < 0 {
		total = 0
	}
	if total > maxRiskScore {
		total = maxRiskScore
	}

	rs := RiskScore{
		Total:   total,
		Factors: append([]RiskFactor(nil), factors...),
		Level:   RiskLevelFromScore(total),
	}
	rs.Recommendation = rs.recommendation()
	return rs
}

// FailSafeRiskScore is returned when risk cannot be determined.
func FailSafeRiskScore() RiskScore {
	return NewRiskScore(RiskFactor{Name: FactorError, Score: maxRiskScore})
}

// Factor returns the sub-score of the named factor, or 0.
func (r RiskScore) Factor(name string) int {
	for _, f := range r.Factors {
		if f.Name == name {
			return f.Score
		}
	}
	return 0
}

// ShouldRollback reports whether the score forces an automatic rollback.
func (r RiskScore) ShouldRollback() bool {
	return r.Level == RiskLevelHigh
}

func levelDescription(l RiskLevel) string {
	switch l {
	case RiskLevelLow:
		return "Low risk - proceed"
	case RiskLevelMedium:
		return "Medium risk - review recommended"
	default:
		return "High risk - automatic rollback"
	}
}

func (r RiskScore) recommendation() string {
	parts := []string{levelDescription(r.Level) + "."}
	if r.Level == RiskLevelHigh {
		parts = append(parts, "Transaction will be automatically rolled back.")
	}
	if r.Factor(FactorAmount) > 25 {
		parts = append(parts, "High transaction amount.")
	}
	if r.Factor(FactorFrequency) > 20 {
		parts = append(parts, "Unusual transaction frequency.")
	}
	if r.Factor(FactorVelocity) >= 20 {
		parts = append(parts, "Rapid successive transfers detected.")
	}
	if r.Factor(FactorError) > 0 {
		parts = append(parts, "Risk could not be determined.")
	}
	return strings.Join(parts, " ")
}

// Breakdown renders the score and every factor as multi-line text.
func (r RiskScore) Breakdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total Risk Score: %d/100 (%s)\n", r.Total, r.Level)
	sb.WriteString("Factor Breakdown:\n")
	for _, f := range r.Factors {
		fmt.Fprintf(&sb, "  - %s: %d\n", f.Name, f.Score)
	}
	sb.WriteString("Recommendation: ")
	sb.WriteString(r.Recommendation)
	return sb.String()
}

// RollbackReason grades the message stored on a risk-triggered rollback.
func RollbackReason(score int) string {
	if score > 90 {
		return fmt.Sprintf("High risk score: %d. Critical risk level detected - automatic rollback", score)
	}
	return fmt.Sprintf("High risk score: %d. Risk score exceeded threshold - automatic rollback", score)
}
