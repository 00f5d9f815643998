package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
)

// Point is an SVG coordinate.
type Point struct {
	X, Y float64
}

// Axis is one spoke of the radar chart.
type Axis struct {
	Label string
	Score int
	End   Point // outer end of the spoke, at score 5
	Value Point // vertex at the dimension's score
	Text  Point // label anchor just outside End
}

// Radar is the geometry of a five-axis chart scaled 0 to 5.
type Radar struct {
	CX, CY, R float64
	Axes      []Axis
	Rings     [][]Point
}

// radarLabels are the short axis names used on the chart.
var radarLabels = map[string]string{
	"businessCriticality": "Business",
	"legalExposure":       "Legal",
	"amplificationSpeed":  "Amplification",
	"stateReversibility":  "Reversibility",
	"trustImpact":         "Trust",
}

// NewRadar lays the five dimensions out clockwise from the top.
func NewRadar(scores blast.Scores, cx, cy, r float64) Radar {
	dims := scores.Dimensions()
	rd := Radar{CX: cx, CY: cy, R: r}

	at := func(i int, frac float64) Point {
		theta := -math.Pi/2 + 2*math.Pi*float64(i)/float64(len(dims))
		return Point{
			X: round(cx + r*frac*math.Cos(theta)),
			Y: round(cy + r*frac*math.Sin(theta)),
		}
	}

	for i, d := range dims {
		rd.Axes = append(rd.Axes, Axis{
			Label: radarLabels[d.Key],
			Score: d.Score,
			End:   at(i, 1),
			Value: at(i, float64(d.Score)/blast.MaxScore),
			Text:  at(i, 1.15),
		})
	}
	for ring := 1; ring <= blast.MaxScore; ring++ {
		pts := make([]Point, len(dims))
		for i := range dims {
			pts[i] = at(i, float64(ring)/blast.MaxScore)
		}
		rd.Rings = append(rd.Rings, pts)
	}
	return rd
}

// Polygon returns the score vertices.
func (r Radar) Polygon() []Point {
	out := make([]Point, len(r.Axes))
	for i, a := range r.Axes {
		out[i] = a.Value
	}
	return out
}

// SVGPoints formats pts for an SVG points attribute.
func SVGPoints(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
