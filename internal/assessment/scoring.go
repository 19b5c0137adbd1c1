// internal/assessment/scoring.go
package assessment

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// PillarScore is one pillar's computed score with the per-question ratings
// that produced it. Score is on the 0-100 scale.
type PillarScore struct {
	Name   string         `json:"name"`
	Score  float64        `json:"score"`
	Detail map[string]int `json:"detail"`
}

// ComputeScores groups the caller's ratings by pillar and returns the per-
// pillar scores in catalog order plus the overall readiness score.
//
// A question missing from answers, or rated outside the 1-5 Likert range,
// counts as 0 (unanswered). A pillar whose questions all count as 0 scores
// exactly 0.0; otherwise the score is the mean rating rescaled from the 1-5
// range onto 0-100, so an all-1s pillar scores 20, not 0. The overall score
// is the unweighted mean of the five pillar scores.
func ComputeScores(answers map[string]int) ([]PillarScore, float64) {
	scores := make([]PillarScore, 0, len(Pillars))
	for _, pillar := range Pillars {
		detail := make(map[string]int, len(pillar.Questions))
		sum, answered := 0, false
		for _, code := range pillar.Questions {
			rating := answers[code]
			if rating < 1 || rating > 5 {
				rating = 0
			}
			detail[code] = rating
			sum += rating
			if rating != 0 {
				answered = true
			}
		}

		score := 0.0
		if answered {
			mean := float64(sum) / float64(len(pillar.Questions))
			score = mean / 5.0 * 100.0
		}

		scores = append(scores, PillarScore{
			Name:   pillar.Name,
			Score:  score,
			Detail: detail,
		})
	}

	var total float64
	for _, ps := range scores {
		total += ps.Score
	}
	overall := total / float64(len(scores))

	return scores, overall
}

// TierFor classifies an overall score into its maturity tier. The score is
// rounded half away from zero before the inclusive band lookup.
func TierFor(score float64) string {
	rounded := int(math.Round(score))
	for _, band := range TierBands {
		if rounded >= band.Lo && rounded <= band.Hi {
			return band.Name
		}
	}
	return TierUnknown
}

// DeriveStrengthsGaps returns the top-2 pillars as strengths and the bottom-3
// as gaps. Both lists come from one stable descending sort, so strengths are
// best-first and gaps run from least-bad to worst; catalog order breaks ties.
// With five pillars the two lists partition the catalog.
func DeriveStrengthsGaps(scores []PillarScore) (strengths, gaps []string) {
	ranked := make([]PillarScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for _, ps := range ranked[:2] {
		strengths = append(strengths, ps.Name)
	}
	for _, ps := range ranked[len(ranked)-3:] {
		gaps = append(gaps, ps.Name)
	}
	return strengths, gaps
}

// RecommendActions returns one playbook recommendation for each of the three
// lowest-scoring pillars, worst pillar first. A pillar absent from the
// playbook gets a generic fallback; unreachable with the fixed catalog.
func RecommendActions(scores []PillarScore) []string {
	ranked := make([]PillarScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})

	recs := make([]string, 0, 3)
	for _, ps := range ranked[:3] {
		rec, ok := playbook[ps.Name]
		if !ok {
			rec = fmt.Sprintf("Prioritize foundational improvements in %s to enable scale.", strings.ToLower(ps.Name))
		}
		recs = append(recs, rec)
	}
	return recs
}

// PillarCommentary returns the narrative sentence for a pillar score, using
// the same four bands as tier classification.
func PillarCommentary(name string, score float64) string {
	switch {
	case score >= 80:
		return fmt.Sprintf("%s is strong and scalable – keep reinforcing what works.", name)
	case score >= 60:
		return fmt.Sprintf("%s shows a solid foundation with room to standardize and scale.", name)
	case score >= 40:
		return fmt.Sprintf("%s is emerging – formalize structure, cadence, and measurement.", name)
	default:
		return fmt.Sprintf("%s is underdeveloped – prioritize core mechanics and minimum viable structure.", name)
	}
}
