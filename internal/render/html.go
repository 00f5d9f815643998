package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
)

//go:embed templates/*.html
var templateFS embed.FS

const chartSize = 320

// Page is everything the browser collector shows for one session.
type Page struct {
	Input      blast.RiskInput
	Loading    bool
	Error      string
	Analysis   *blast.BlastAnalysis
	Advisories []string
}

// CanSubmit disables the button while a request is in flight. Blank fields
// are stopped by the form's required attributes and again by the server.
func (p Page) CanSubmit() bool {
	return !p.Loading
}

type reportData struct {
	Page
	Radar     Radar
	ChartSize int
	MaxTotal  int
}

// Pages renders the form and report views.
type Pages struct {
	form   *template.Template
	report *template.Template
}

func NewPages() (*Pages, error) {
	funcs := template.FuncMap{"svgPoints": SVGPoints}
	form, err := template.New("form").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/form.html")
	if err != nil {
		return nil, fmt.Errorf("parse form template: %w", err)
	}
	report, err := template.New("report").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Pages{form: form, report: report}, nil
}

// Render shows the report when p carries an analysis, otherwise the form.
func (ps *Pages) Render(w io.Writer, p Page) error {
	if p.Analysis == nil {
		return ps.form.ExecuteTemplate(w, "layout", p)
	}
	data := reportData{
		Page:      p,
		Radar:     NewRadar(p.Analysis.Scores, chartSize/2, chartSize/2, chartSize/2-50),
		ChartSize: chartSize,
		MaxTotal:  blast.MaxTotal,
	}
	return ps.report.ExecuteTemplate(w, "layout", data)
}
