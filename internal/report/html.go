// internal/report/html.go
// Package report renders the executive Channel Readiness report and the
// delivery email bodies.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"time"

	"readiness-workers/internal/assessment"
	"readiness-workers/internal/models"
)

// Renderer builds report documents for scored submissions.
type Renderer struct {
	brandName string
	tmpl      *template.Template
}

func NewRenderer(brandName string) (*Renderer, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Renderer{brandName: brandName, tmpl: tmpl}, nil
}

type pillarRow struct {
	Name       string
	Score      int
	Assessment string
	ScoreColor string
	Commentary string
}

type reportData struct {
	BrandName       string
	Date            string
	Company         string
	ContactName     string
	Email           string
	Role            string
	Phone           string
	DistributorIDs  string
	OverallScore    int
	Tier            string
	Radar           template.HTML
	Pillars         []pillarRow
	Strengths       []string
	Gaps            []string
	Recommendations []string
}

// Render produces the full two-section executive report as HTML.
func (r *Renderer) Render(sub *models.Submission) ([]byte, error) {
	scores := toAssessmentScores(sub.PillarScores)
	strengths, gaps := assessment.DeriveStrengthsGaps(scores)
	recs := assessment.RecommendActions(scores)

	rows := make([]pillarRow, len(sub.PillarScores))
	for i, ps := range sub.PillarScores {
		rows[i] = pillarRow{
			Name:       ps.Name,
			Score:      int(math.Round(ps.Score)),
			Assessment: assessmentLabel(ps.Score),
			ScoreColor: scoreColor(ps.Score),
			Commentary: assessment.PillarCommentary(ps.Name, ps.Score),
		}
	}

	phone := sub.Phone
	if phone == "" {
		phone = "—"
	}

	data := reportData{
		BrandName:       r.brandName,
		Date:            time.Now().Format("January 2, 2006"),
		Company:         sub.Company,
		ContactName:     sub.ContactName,
		Email:           sub.Email,
		Role:            sub.Role,
		Phone:           phone,
		DistributorIDs:  sub.DistributorIDs,
		OverallScore:    int(math.Round(sub.OverallScore)),
		Tier:            sub.Tier,
		Radar:           template.HTML(RadarSVG(sub.PillarScores)),
		Pillars:         rows,
		Strengths:       strengths,
		Gaps:            gaps,
		Recommendations: recs,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func toAssessmentScores(results []models.PillarResult) []assessment.PillarScore {
	out := make([]assessment.PillarScore, len(results))
	for i, ps := range results {
		out[i] = assessment.PillarScore{Name: ps.Name, Score: ps.Score, Detail: ps.Detail}
	}
	return out
}

// assessmentLabel maps a pillar score to the table's qualitative label.
func assessmentLabel(score float64) string {
	switch {
	case score >= 80:
		return "Strong"
	case score >= 60:
		return "Solid Foundation"
	case score >= 40:
		return "Emerging"
	default:
		return "Needs Development"
	}
}

func scoreColor(score float64) string {
	switch {
	case score >= 80:
		return "#008000"
	case score >= 60:
		return "#0066cc"
	case score >= 40:
		return "#ff8c00"
	default:
		return "#cc0000"
	}
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Company}} — Channel Readiness Assessment</title>
<style>
body { font-family: Calibri, Arial, sans-serif; color: #222; max-width: 820px; margin: 0 auto; padding: 32px; }
h1 { color: #003366; font-size: 26px; margin-bottom: 2px; }
h2 { color: #003366; font-size: 18px; border-bottom: 1px solid #ccc; padding-bottom: 4px; }
h3 { color: #003366; font-size: 14px; text-transform: uppercase; letter-spacing: 0.5px; }
.date { color: #595959; font-size: 12px; }
.company { font-size: 28px; font-weight: bold; margin: 14px 0 0 0; }
.subtitle { color: #595959; font-size: 16px; margin-top: 2px; }
.tsd { font-style: italic; font-size: 12px; color: #595959; }
.score-block { text-align: center; margin: 24px 0; }
.score { font-size: 64px; font-weight: bold; color: #0066cc; line-height: 1; }
.score-label { font-size: 15px; color: #595959; margin-top: 6px; }
table { border-collapse: collapse; width: 100%; margin: 12px 0; }
th, td { border: 1px solid #b9c7db; padding: 6px 10px; font-size: 13px; text-align: left; }
th { background: #d9e2f3; }
.radar { text-align: center; margin: 18px 0; }
.strength-label { color: #008000; font-weight: bold; }
.gap-label { color: #cc6600; font-weight: bold; }
.cta { text-align: center; margin: 36px 0 10px 0; }
.cta .line1 { font-size: 15px; font-weight: bold; color: #003366; }
.cta .line2 { font-size: 13px; color: #595959; }
.footer { text-align: center; font-size: 10px; color: #808080; border-top: 1px solid #ccc; padding-top: 10px; margin-top: 28px; }
</style>
</head>
<body>

<h1>{{.BrandName}}</h1>
<div class="date">{{.Date}}</div>

<p class="company">{{.Company}}</p>
<div class="subtitle">Channel Readiness Assessment</div>
{{if .DistributorIDs}}<div class="tsd">Technology Service Distributor: {{.DistributorIDs}}</div>{{end}}

<h3>Executive Summary</h3>
<div class="score-block">
  <div class="score">{{.OverallScore}}</div>
  <div class="score-label">Channel Readiness Score<br>{{.Tier}} Maturity</div>
</div>

<table>
  <tr><th>Contact</th><td>{{.ContactName}}</td></tr>
  <tr><th>Email</th><td>{{.Email}}</td></tr>
  <tr><th>Title</th><td>{{.Role}}</td></tr>
  <tr><th>Phone</th><td>{{.Phone}}</td></tr>
</table>

<h3>Capability Assessment Radar</h3>
<div class="radar">{{.Radar}}</div>

<h2>Detailed Assessment Results</h2>

<h3>Pillar Performance Summary</h3>
<table>
  <tr><th>Pillar</th><th>Score</th><th>Assessment</th></tr>
  {{range .Pillars}}
  <tr>
    <td>{{.Name}}</td>
    <td style="color: {{.ScoreColor}}; font-weight: bold;">{{.Score}}</td>
    <td>{{.Assessment}}</td>
  </tr>
  {{end}}
</table>

<h3>Key Findings</h3>
<p class="strength-label">Areas of Strength:</p>
<ul>
  {{range .Strengths}}<li>{{.}}</li>{{end}}
</ul>

<p class="gap-label">Development Priorities:</p>
<ul>
  {{range .Gaps}}<li>{{.}}</li>{{end}}
</ul>

<h3>Strategic Recommendations (Next 90 Days)</h3>
<ol>
  {{range .Recommendations}}<li>{{.}}</li>{{end}}
</ol>

<h3>Pillar Commentary</h3>
{{range .Pillars}}
<p><strong>{{.Name}}</strong> — {{.Commentary}}</p>
{{end}}

<div class="cta">
  <div class="line1">Ready to achieve a 90+ Channel Readiness Score?</div>
  <div class="line2">Schedule a comprehensive XplainIQ GTM Assessment</div>
</div>

<div class="footer">© Innovative Networx – XplainIQ™ | Confidential &amp; Proprietary</div>

</body>
</html>
`
