// internal/report/radar.go
package report

import (
	"fmt"
	"math"
	"strings"

	"readiness-workers/internal/models"
)

const (
	radarSize   = 420.0
	radarRadius = 150.0
)

// RadarSVG renders the five pillar scores as a self-contained SVG radar
// chart. Axes follow catalog order, clockwise from the top.
func RadarSVG(pillarScores []models.PillarResult) string {
	cx, cy := radarSize/2, radarSize/2
	n := len(pillarScores)
	if n == 0 {
		return ""
	}

	angle := func(i int) float64 {
		// start at 12 o'clock, sweep clockwise
		return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	}
	point := func(i int, dist float64) (float64, float64) {
		a := angle(i)
		return cx + dist*math.Cos(a), cy + dist*math.Sin(a)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" role="img" aria-label="Channel Readiness by Pillar">`,
		radarSize, radarSize, radarSize, radarSize)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)

	// grid rings at 20-point intervals
	for _, level := range []float64{20, 40, 60, 80, 100} {
		var ring []string
		for i := 0; i < n; i++ {
			x, y := point(i, radarRadius*level/100)
			ring = append(ring, fmt.Sprintf("%.1f,%.1f", x, y))
		}
		fmt.Fprintf(&b, `<polygon points="%s" fill="none" stroke="#d0d7e2" stroke-width="0.7" stroke-dasharray="4 3"/>`,
			strings.Join(ring, " "))
	}

	// axis spokes and labels
	for i, ps := range pillarScores {
		x, y := point(i, radarRadius)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d0d7e2" stroke-width="0.7"/>`, cx, cy, x, y)

		lx, ly := point(i, radarRadius+24)
		anchor := "middle"
		if lx > cx+10 {
			anchor = "start"
		} else if lx < cx-10 {
			anchor = "end"
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-family="Calibri, Arial, sans-serif" font-size="11" fill="#333333" text-anchor="%s">%s</text>`,
			lx, ly, anchor, escapeXML(shortPillarName(ps.Name)))
	}

	// score polygon
	var poly []string
	for i, ps := range pillarScores {
		x, y := point(i, radarRadius*ps.Score/100)
		poly = append(poly, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	fmt.Fprintf(&b, `<polygon points="%s" fill="#0066cc" fill-opacity="0.12" stroke="#0066cc" stroke-width="2.2"/>`,
		strings.Join(poly, " "))

	// vertex markers with score labels
	for i, ps := range pillarScores {
		x, y := point(i, radarRadius*ps.Score/100)
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="3.5" fill="#0066cc"/>`, x, y)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-family="Calibri, Arial, sans-serif" font-size="10" fill="#003366" text-anchor="middle">%.0f</text>`,
			x, y-8, math.Round(ps.Score))
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// shortPillarName drops the letter prefix ("A. Channel Strategy" -> "Channel Strategy").
func shortPillarName(name string) string {
	if idx := strings.Index(name, ". "); idx >= 0 {
		return name[idx+2:]
	}
	return name
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
