package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
)

// TextOptions controls the terminal report.
type TextOptions struct {
	Width int
	// Advisories are printed after the checklist when present.
	Advisories []string
}

type textStyles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Sub     lipgloss.Style
	Muted   lipgloss.Style
	Risk    lipgloss.Style
	Body    lipgloss.Style
	Badge   map[blast.RiskLevel]lipgloss.Style
	Bar     lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer, width int) textStyles {
	badge := func(fg, bg string) lipgloss.Style {
		return r.NewStyle().Bold(true).Padding(0, 1).
			Foreground(lipgloss.Color(fg)).Background(lipgloss.Color(bg))
	}
	return textStyles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#0F172A")),
		Heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4F46E5")).MarginTop(1),
		Sub:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#334155")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		Risk:    r.NewStyle().Foreground(lipgloss.Color("#DC2626")),
		Body:    r.NewStyle().Width(width).PaddingLeft(2),
		Bar:     r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		Badge: map[blast.RiskLevel]lipgloss.Style{
			blast.LevelLow:      badge("#166534", "#DCFCE7"),
			blast.LevelModerate: badge("#854D0E", "#FEF9C3"),
			blast.LevelHigh:     badge("#9A3412", "#FFEDD5"),
			blast.LevelCritical: badge("#991B1B", "#FEE2E2"),
		},
	}
}

// Text writes the full report for a. Every field of the analysis is shown.
func Text(w io.Writer, a *blast.BlastAnalysis, opts TextOptions) error {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	st := newTextStyles(lipgloss.NewRenderer(w), width)
	var b strings.Builder

	badge, ok := st.Badge[a.OverallRiskLevel]
	if !ok {
		badge = st.Badge[blast.LevelModerate]
	}
	fmt.Fprintln(&b, st.Title.Render("BLAST Risk Assessment"))
	fmt.Fprintf(&b, "%s %d / %d  %s\n",
		st.Muted.Render("Total Score"), a.TotalScore, blast.MaxTotal,
		badge.Render(strings.ToUpper(string(a.OverallRiskLevel))+" RISK"))

	fmt.Fprintln(&b, st.Heading.Render("Risk Profile"))
	for _, d := range a.Scores.Dimensions() {
		fmt.Fprintf(&b, "  %s %-28s %s %d/%d\n", d.Letter, d.Label, st.Bar.Render(bar(d.Score)), d.Score, blast.MaxScore)
	}

	fmt.Fprintln(&b, st.Heading.Render("Systemic Risk Narrative"))
	fmt.Fprintln(&b, st.Body.Render(a.RiskSummary))

	fmt.Fprintln(&b, st.Heading.Render("BLAST Analysis Breakdown"))
	for _, d := range a.Scores.Dimensions() {
		fmt.Fprintf(&b, "  [%s] %s  %d/%d\n", d.Letter, st.Sub.Render(d.Label), d.Score, blast.MaxScore)
		fmt.Fprintln(&b, st.Body.PaddingLeft(6).Render(d.Justification))
		fmt.Fprintln(&b, st.Body.PaddingLeft(6).Render(st.Risk.Render("Risk Factor: "+d.RiskFactor)))
	}

	cs := a.ContainmentStrategy
	fmt.Fprintln(&b, st.Heading.Render("Containment Strategy"))
	list(&b, st, "Guardrails", cs.Guardrails)
	list(&b, st, "Stop Conditions", cs.StopConditions)
	list(&b, st, "Human-in-the-Loop", cs.HumanInTheLoop)
	list(&b, st, "Audit Requirements", cs.AuditRequirements)
	fmt.Fprintf(&b, "  %s\n", st.Sub.Render("Rollback Strategy"))
	fmt.Fprintln(&b, st.Body.PaddingLeft(4).Render(cs.RollbackStrategy))

	fmt.Fprintln(&b, st.Heading.Render("Failure Modes"))
	if len(a.FailureModes) == 0 {
		fmt.Fprintln(&b, "  "+st.Muted.Render("(none)"))
	}
	for i, m := range a.FailureModes {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, m)
	}

	fmt.Fprintln(&b, st.Heading.Render("Launch Readiness Checklist"))
	if len(a.LaunchReadinessChecklist) == 0 {
		fmt.Fprintln(&b, "  "+st.Muted.Render("(none)"))
	}
	for _, item := range a.LaunchReadinessChecklist {
		fmt.Fprintf(&b, "  [ ] %s\n", item)
	}

	if len(opts.Advisories) > 0 {
		fmt.Fprintln(&b, st.Heading.Render("Advisories"))
		for _, adv := range opts.Advisories {
			fmt.Fprintf(&b, "  ! %s\n", st.Muted.Render(adv))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func list(b *strings.Builder, st textStyles, title string, items []string) {
	fmt.Fprintf(b, "  %s\n", st.Sub.Render(title))
	if len(items) == 0 {
		fmt.Fprintln(b, "    "+st.Muted.Render("(none)"))
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "    - %s\n", it)
	}
}

func bar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > blast.MaxScore {
		score = blast.MaxScore
	}
	return strings.Repeat("#", score) + strings.Repeat(".", blast.MaxScore-score)
}
