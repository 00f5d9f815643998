package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast/blasttest"
)

func TestRadarGeometry(t *testing.T) {
	var s blast.Scores
	s.BusinessCriticality.Score = 5
	s.LegalExposure.Score = 5
	s.AmplificationSpeed.Score = 5
	s.StateReversibility.Score = 5
	s.TrustImpact.Score = 0

	r := NewRadar(s, 100, 100, 50)

	require.Len(t, r.Axes, 5)
	require.Len(t, r.Rings, 5)
	assert.Equal(t, "Business", r.Axes[0].Label)
	assert.Equal(t, Point{X: 100, Y: 50}, r.Axes[0].End, "first axis points straight up")
	assert.Equal(t, r.Axes[0].End, r.Axes[0].Value, "score 5 reaches the rim")
	assert.Equal(t, Point{X: 100, Y: 100}, r.Axes[4].Value, "score 0 sits on the centre")
	assert.Equal(t, Point{X: 100, Y: 90}, r.Rings[0][0])
}

func TestSVGPoints(t *testing.T) {
	assert.Equal(t, "1,2 3.5,4", SVGPoints([]Point{{1, 2}, {3.5, 4}}))
}

func TestTextShowsEverySection(t *testing.T) {
	var buf bytes.Buffer
	a := blasttest.Analysis()

	require.NoError(t, Text(&buf, a, TextOptions{Advisories: []string{"launchReadinessChecklist is empty"}}))
	out := buf.String()

	for _, want := range []string{
		"18 / 25",
		"HIGH RISK",
		"Business Criticality",
		"Legal & Regulatory Exposure",
		"Amplification Speed",
		"State Reversibility",
		"Trust Impact",
		a.RiskSummary,
		a.Scores.LegalExposure.Justification,
		"Risk Factor: " + a.Scores.TrustImpact.RiskFactor,
		"Guardrails",
		a.ContainmentStrategy.Guardrails[0],
		"Stop Conditions",
		a.ContainmentStrategy.StopConditions[0],
		"Human-in-the-Loop",
		a.ContainmentStrategy.HumanInTheLoop[0],
		"Audit Requirements",
		a.ContainmentStrategy.AuditRequirements[0],
		"Rollback Strategy",
		a.ContainmentStrategy.RollbackStrategy,
		"1. " + a.FailureModes[0],
		"3. " + a.FailureModes[2],
		"[ ] " + a.LaunchReadinessChecklist[1],
		"Advisories",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTextEmptyLists(t *testing.T) {
	a := blasttest.Analysis()
	a.ContainmentStrategy.Guardrails = []string{}
	a.LaunchReadinessChecklist = []string{}

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, a, TextOptions{}))
	assert.Contains(t, buf.String(), "(none)")
	assert.NotContains(t, buf.String(), "Advisories")
}

func TestPagesForm(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pages.Render(&buf, Page{
		Input: blast.RiskInput{Context: "<script>x</script>"},
		Error: "Failed to generate risk analysis.",
	}))
	out := buf.String()

	assert.Contains(t, out, `name="proposedFeature"`)
	assert.Contains(t, out, "Failed to generate risk analysis.")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, " disabled>")
}

func TestPagesFormLoading(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pages.Render(&buf, Page{Input: blasttest.Input(), Loading: true}))
	assert.Contains(t, buf.String(), "disabled")
	assert.Contains(t, buf.String(), "Analyzing risk vectors")
}

func TestPagesReport(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)
	a := blasttest.Analysis()

	var buf bytes.Buffer
	require.NoError(t, pages.Render(&buf, Page{Analysis: a}))
	out := buf.String()

	assert.Contains(t, out, "18 / 25")
	assert.Contains(t, out, "High Risk")
	assert.Contains(t, out, "<svg")
	assert.Equal(t, 6, strings.Count(out, "<polygon"), "five rings and the score polygon")
	assert.Contains(t, out, "Audit Requirements")
	assert.Contains(t, out, "Retain extraction output per decision.")
	assert.Contains(t, out, `action="/reset"`)
}
