// internal/report/email.go
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"readiness-workers/internal/models"
)

// Email holds the rendered delivery email for one submission.
type Email struct {
	Subject  string
	HTMLBody string
	TextBody string
}

var emailHTMLTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Calibri, Arial, sans-serif; color: #222;">
<p>Hi {{.ContactName}},</p>
<p>Thank you for completing the Channel Readiness survey for <strong>{{.Company}}</strong>.
Your personalized Channel Readiness Report is attached below.</p>
<p style="font-size: 18px;">Overall Score: <strong style="color: #0066cc;">{{.OverallScore}}</strong> — {{.Tier}} Maturity</p>
<p>Our advisors have reviewed your responses. If you would like to walk through the
results, reply to this email to schedule a comprehensive XplainIQ GTM Assessment.</p>
<p>Best regards,<br>The XplainIQ Team</p>
<hr>
<p style="font-size: 10px; color: #808080;">© Innovative Networx – XplainIQ™ | Confidential &amp; Proprietary</p>
</body>
</html>
`))

// BuildEmail assembles the report delivery email for a scored submission.
func BuildEmail(sub *models.Submission) (*Email, error) {
	data := struct {
		ContactName  string
		Company      string
		OverallScore int
		Tier         string
	}{
		ContactName:  sub.ContactName,
		Company:      sub.Company,
		OverallScore: int(math.Round(sub.OverallScore)),
		Tier:         sub.Tier,
	}

	var html bytes.Buffer
	if err := emailHTMLTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render email body: %w", err)
	}

	text := fmt.Sprintf(`Hi %s,

Thank you for completing the Channel Readiness survey for %s.
Your personalized Channel Readiness Report is attached below.

Overall Score: %d (%s Maturity)

Our advisors have reviewed your responses. If you would like to walk through
the results, reply to this email to schedule a comprehensive XplainIQ GTM
Assessment.

Best regards,
The XplainIQ Team
`, sub.ContactName, sub.Company, data.OverallScore, sub.Tier)

	return &Email{
		Subject:  fmt.Sprintf("Your Channel Readiness Report — %s", sub.Company),
		HTMLBody: html.String(),
		TextBody: text,
	}, nil
}

// AcknowledgementText is the intake confirmation shown and mailed right after
// submit, before advisors release the full report.
func AcknowledgementText(contactName, slaPhrase string) string {
	return fmt.Sprintf(
		"Hi %s, thank you for your submission. Our advisors will review your responses and send your personalized Channel Readiness Report via email within %s.",
		contactName, slaPhrase)
}
