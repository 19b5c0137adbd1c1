// internal/assessment/catalog.go
package assessment

// Pillar groups two survey questions into one readiness capability area.
type Pillar struct {
	Name      string
	Questions []string
}

// Pillars is the fixed assessment catalog. Order is significant: reports and
// the radar chart render pillars in this order, never sorted by score.
var Pillars = []Pillar{
	{Name: "A. Channel Strategy & Alignment", Questions: []string{"A1", "A2"}},
	{Name: "B. Partner Program Design", Questions: []string{"B1", "B2"}},
	{Name: "C. Partner Enablement & Engagement", Questions: []string{"C1", "C2"}},
	{Name: "D. Sales & Operations Integration", Questions: []string{"D1", "D2"}},
	{Name: "E. Growth Readiness", Questions: []string{"E1", "E2"}},
}

// Questions maps question codes to the prompts shown on the survey form.
// Each question is rated 1 (Strongly Disagree) to 5 (Strongly Agree).
var Questions = map[string]string{
	"A1": "Do you have a clearly defined purpose for selling through partners (beyond revenue expansion)?",
	"A2": "Are your targeted partner types (TA, VAR, MSP, SI, etc.) well-defined and prioritized?",
	"B1": "Do you have a partner program with tiering, incentives, rules of engagement, or performance criteria?",
	"B2": "Can you clearly articulate what makes your offer unique and profitable for partners?",
	"C1": "Do you provide training, sales playbooks, or co-branded marketing assets?",
	"C2": "How consistently do you communicate and collaborate with active partners?",
	"D1": "Are internal sales/ops aligned to support channel transactions (quoting, order flow, support)?",
	"D2": "Do you track partner pipeline separately with forecast accuracy goals?",
	"E1": "Does senior leadership actively sponsor the channel model?",
	"E2": "Are tools, systems, and staffing sufficient to support 2–3× partner growth?",
}

// TierBand is an inclusive score range mapped to a maturity label.
type TierBand struct {
	Name string
	Lo   int
	Hi   int
}

// TierBands covers the rounded range [0,100] contiguously.
var TierBands = []TierBand{
	{Name: "Emerging", Lo: 0, Hi: 39},
	{Name: "Developing", Lo: 40, Hi: 59},
	{Name: "Established", Lo: 60, Hi: 79},
	{Name: "Optimized", Lo: 80, Hi: 100},
}

// TierUnknown is the fallback for a score outside every band. Unreachable
// while the bands cover 0-100, kept so classification never panics.
const TierUnknown = "Unknown"

// playbook holds one canned 90-day recommendation per pillar.
var playbook = map[string]string{
	"A. Channel Strategy & Alignment":    "Clarify the partner role by segment and set a 12-month channel thesis with 3 measurable outcomes.",
	"B. Partner Program Design":          "Publish a simple one-pager: tiers, incentives, rules of engagement, and co-marketing paths.",
	"C. Partner Enablement & Engagement": "Stand up a 30-60-90 enablement cadence: onboarding kit, monthly enablement call, quarterly MDF campaign.",
	"D. Sales & Operations Integration":  "Separate channel pipeline tracking; define lead routing/quoting SLAs; add 'channel' to forecast reviews.",
	"E. Growth Readiness":                "Baseline partner P&L and capacity; set tooling minimums (PRM/CRM views) and resource triggers for 2–3× growth.",
}
