package blast

import (
	"fmt"
	"strings"
)

// RiskLevel is the aggregate bucket derived from the total score.
type RiskLevel string

const (
	LevelLow      RiskLevel = "Low"
	LevelModerate RiskLevel = "Moderate"
	LevelHigh     RiskLevel = "High"
	LevelCritical RiskLevel = "Critical"
)

const (
	MinScore = 1
	MaxScore = 5

	MinTotal = MinScore * 5
	MaxTotal = MaxScore * 5
)

// Levels lists the risk levels from least to most severe.
var Levels = []RiskLevel{LevelLow, LevelModerate, LevelHigh, LevelCritical}

// LevelForTotal maps a total score onto the fixed threshold table:
// 5-9 Low, 10-14 Moderate, 15-19 High, 20-25 Critical.
func LevelForTotal(total int) (RiskLevel, error) {
	switch {
	case total < MinTotal || total > MaxTotal:
		return "", fmt.Errorf("total score %d outside [%d,%d]", total, MinTotal, MaxTotal)
	case total <= 9:
		return LevelLow, nil
	case total <= 14:
		return LevelModerate, nil
	case total <= 19:
		return LevelHigh, nil
	default:
		return LevelCritical, nil
	}
}

// ParseLevel accepts a level name case-insensitively.
func ParseLevel(s string) (RiskLevel, error) {
	for _, l := range Levels {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown risk level %q (allowed: Low, Moderate, High, Critical)", s)
}

// Rank orders levels; unknown levels rank -1.
func (l RiskLevel) Rank() int {
	for i, v := range Levels {
		if v == l {
			return i
		}
	}
	return -1
}

// AtLeast reports whether l is as severe as other or more.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Rank() >= other.Rank() && l.Rank() >= 0
}

// BlastDimension is one scored axis of the taxonomy.
type BlastDimension struct {
	Score         int    `json:"score" description:"Score from 1 (Low) to 5 (Severe)" validate:"min=1,max=5"`
	Justification string `json:"justification" validate:"notblank"`
	RiskFactor    string `json:"riskFactor" description:"What makes this risky" validate:"notblank"`
}

// Scores holds the five fixed BLAST dimensions.
type Scores struct {
	BusinessCriticality BlastDimension `json:"businessCriticality"`
	LegalExposure       BlastDimension `json:"legalExposure"`
	AmplificationSpeed  BlastDimension `json:"amplificationSpeed"`
	StateReversibility  BlastDimension `json:"stateReversibility"`
	TrustImpact         BlastDimension `json:"trustImpact"`
}

// Dimension pairs a score with its display metadata.
type Dimension struct {
	Key    string
	Letter string
	Label  string
	BlastDimension
}

// Dimensions returns the five dimensions in B-L-A-S-T order.
func (s Scores) Dimensions() []Dimension {
	return []Dimension{
		{Key: "businessCriticality", Letter: "B", Label: "Business Criticality", BlastDimension: s.BusinessCriticality},
		{Key: "legalExposure", Letter: "L", Label: "Legal & Regulatory Exposure", BlastDimension: s.LegalExposure},
		{Key: "amplificationSpeed", Letter: "A", Label: "Amplification Speed", BlastDimension: s.AmplificationSpeed},
		{Key: "stateReversibility", Letter: "S", Label: "State Reversibility", BlastDimension: s.StateReversibility},
		{Key: "trustImpact", Letter: "T", Label: "Trust Impact", BlastDimension: s.TrustImpact},
	}
}

// Sum adds the five dimension scores.
func (s Scores) Sum() int {
	total := 0
	for _, d := range s.Dimensions() {
		total += d.Score
	}
	return total
}

// ContainmentStrategy bundles the proposed mitigations. List fields may be
// empty but must be present.
type ContainmentStrategy struct {
	Guardrails        []string `json:"guardrails" validate:"required"`
	StopConditions    []string `json:"stopConditions" validate:"required"`
	HumanInTheLoop    []string `json:"humanInTheLoop" validate:"required"`
	AuditRequirements []string `json:"auditRequirements" validate:"required"`
	RollbackStrategy  string   `json:"rollbackStrategy" validate:"notblank"`
}

// BlastAnalysis is one complete assessment, built whole from a single
// generation response.
type BlastAnalysis struct {
	Scores                   Scores              `json:"scores"`
	OverallRiskLevel         RiskLevel           `json:"overallRiskLevel" enum:"Low,Moderate,High,Critical" validate:"oneof=Low Moderate High Critical"`
	TotalScore               int                 `json:"totalScore" validate:"min=5,max=25"`
	RiskSummary              string              `json:"riskSummary" description:"Systemic risk narrative" validate:"notblank"`
	FailureModes             []string            `json:"failureModes" description:"3-5 realistic ways this could fail quietly" validate:"required"`
	ContainmentStrategy      ContainmentStrategy `json:"containmentStrategy"`
	LaunchReadinessChecklist []string            `json:"launchReadinessChecklist" description:"What must exist before this can go to production" validate:"required"`
}
