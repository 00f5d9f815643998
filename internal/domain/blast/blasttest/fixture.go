// Package blasttest provides schema-conformant fixtures for tests.
package blasttest

import (
	"encoding/json"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
)

// Input is the regional-bank scenario used across the test suites.
func Input() blast.RiskInput {
	return blast.RiskInput{
		Context:         "Regional bank",
		ProposedFeature: "Automated loan approval using document AI",
		IntendedOutcome: "Reduce review time",
	}
}

// Analysis returns a consistent analysis with totalScore 18 (High).
func Analysis() *blast.BlastAnalysis {
	return &blast.BlastAnalysis{
		Scores: blast.Scores{
			BusinessCriticality: blast.BlastDimension{
				Score:         4,
				Justification: "Loan approvals drive core lending revenue.",
				RiskFactor:    "Outages stall the origination pipeline.",
			},
			LegalExposure: blast.BlastDimension{
				Score:         4,
				Justification: "Credit decisions fall under fair-lending regulation.",
				RiskFactor:    "Disparate impact from document extraction bias.",
			},
			AmplificationSpeed: blast.BlastDimension{
				Score:         3,
				Justification: "Every application passes through the same model.",
				RiskFactor:    "A bad model release affects all same-day decisions.",
			},
			StateReversibility: blast.BlastDimension{
				Score:         4,
				Justification: "Funded loans cannot simply be recalled.",
				RiskFactor:    "Disbursed credit is hard to unwind.",
			},
			TrustImpact: blast.BlastDimension{
				Score:         3,
				Justification: "Wrongful denials erode customer confidence.",
				RiskFactor:    "Public complaints and regulator attention.",
			},
		},
		OverallRiskLevel: blast.LevelHigh,
		TotalScore:       18,
		RiskSummary:      "Automated approvals concentrate credit risk in a single opaque model.",
		FailureModes: []string{
			"OCR silently misreads income figures.",
			"Model drift approves marginal applicants.",
			"Fraudulent documents pass extraction checks.",
		},
		ContainmentStrategy: blast.ContainmentStrategy{
			Guardrails:        []string{"Cap auto-approved amounts."},
			StopConditions:    []string{"Approval rate deviates 10% from baseline."},
			HumanInTheLoop:    []string{"Underwriter review above threshold."},
			AuditRequirements: []string{"Retain extraction output per decision."},
			RollbackStrategy:  "Route all applications to manual review.",
		},
		LaunchReadinessChecklist: []string{
			"Fair-lending bias assessment signed off.",
			"Shadow-mode comparison against manual decisions.",
		},
	}
}

// JSON returns Analysis encoded as the generation service would send it.
func JSON() string {
	b, err := json.Marshal(Analysis())
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Mutate returns Analysis after fn has modified it, encoded as JSON.
func Mutate(fn func(a *blast.BlastAnalysis)) string {
	a := Analysis()
	fn(a)
	b, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	return string(b)
}
