// internal/assessment/scoring_test.go
package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func uniformAnswers(rating int) map[string]int {
	answers := make(map[string]int, len(Questions))
	for code := range Questions {
		answers[code] = rating
	}
	return answers
}

func exampleAnswers() map[string]int {
	return map[string]int{
		"A1": 5, "A2": 5,
		"B1": 3, "B2": 3,
		"C1": 1, "C2": 1,
		"D1": 4, "D2": 2,
		"E1": 5, "E2": 5,
	}
}

func scoreByPillar(scores []PillarScore) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for _, ps := range scores {
		out[ps.Name] = ps.Score
	}
	return out
}

// ==========================
// ComputeScores
// ==========================

func TestComputeScores_AllFives(t *testing.T) {
	scores, overall := ComputeScores(uniformAnswers(5))

	require.Len(t, scores, 5)
	for _, ps := range scores {
		assert.Equal(t, 100.0, ps.Score, ps.Name)
	}
	assert.Equal(t, 100.0, overall)
	assert.Equal(t, "Optimized", TierFor(overall))
}

func TestComputeScores_AllOnes(t *testing.T) {
	scores, overall := ComputeScores(uniformAnswers(1))

	for _, ps := range scores {
		assert.Equal(t, 20.0, ps.Score, ps.Name)
	}
	assert.Equal(t, 20.0, overall)
	assert.Equal(t, "Emerging", TierFor(overall))
}

func TestComputeScores_EmptyAnswerSet(t *testing.T) {
	scores, overall := ComputeScores(map[string]int{})

	require.Len(t, scores, 5)
	for _, ps := range scores {
		assert.Equal(t, 0.0, ps.Score, "unanswered pillar must score exactly 0, not NaN")
	}
	assert.Equal(t, 0.0, overall)
	assert.Equal(t, "Emerging", TierFor(overall))
}

func TestComputeScores_PartialPillar(t *testing.T) {
	// One of two questions answered: the missing one counts as 0, it is not
	// skipped from the mean.
	scores, _ := ComputeScores(map[string]int{"A1": 4})

	byName := scoreByPillar(scores)
	assert.Equal(t, 40.0, byName["A. Channel Strategy & Alignment"]) // (4+0)/2/5*100
	assert.Equal(t, 0.0, byName["B. Partner Program Design"])
}

func TestComputeScores_OutOfRangeTreatedAsUnanswered(t *testing.T) {
	scores, overall := ComputeScores(map[string]int{"A1": 9, "A2": 9})

	byName := scoreByPillar(scores)
	assert.Equal(t, 0.0, byName["A. Channel Strategy & Alignment"])
	assert.Equal(t, 0.0, overall)
	assert.Equal(t, "Emerging", TierFor(overall))

	// the stored detail reflects the coercion, not the raw rating
	assert.Equal(t, map[string]int{"A1": 0, "A2": 0}, scores[0].Detail)
}

func TestComputeScores_OutOfRangeMixedWithValid(t *testing.T) {
	scores, _ := ComputeScores(map[string]int{"A1": 9, "A2": 5, "B1": -3, "B2": 3})

	byName := scoreByPillar(scores)
	assert.Equal(t, 50.0, byName["A. Channel Strategy & Alignment"]) // (0+5)/2/5*100
	assert.Equal(t, 30.0, byName["B. Partner Program Design"])      // (0+3)/2/5*100

	for _, ps := range scores {
		assert.GreaterOrEqual(t, ps.Score, 0.0)
		assert.LessOrEqual(t, ps.Score, 100.0)
	}
}

func TestComputeScores_MixedProfile(t *testing.T) {
	scores, overall := ComputeScores(exampleAnswers())

	byName := scoreByPillar(scores)
	assert.Equal(t, 100.0, byName["A. Channel Strategy & Alignment"])
	assert.Equal(t, 60.0, byName["B. Partner Program Design"])
	assert.Equal(t, 20.0, byName["C. Partner Enablement & Engagement"])
	assert.Equal(t, 60.0, byName["D. Sales & Operations Integration"])
	assert.Equal(t, 100.0, byName["E. Growth Readiness"])
	assert.Equal(t, 68.0, overall)
	assert.Equal(t, "Established", TierFor(overall))
}

func TestComputeScores_CatalogOrderPreserved(t *testing.T) {
	scores, _ := ComputeScores(exampleAnswers())

	for i, pillar := range Pillars {
		assert.Equal(t, pillar.Name, scores[i].Name)
	}
}

func TestComputeScores_RangeAndIdempotence(t *testing.T) {
	answerSets := []map[string]int{
		{},
		uniformAnswers(1),
		uniformAnswers(3),
		uniformAnswers(5),
		exampleAnswers(),
		{"A1": 2, "C2": 5, "E1": 1},
	}

	for _, answers := range answerSets {
		first, firstOverall := ComputeScores(answers)
		second, secondOverall := ComputeScores(answers)

		assert.Equal(t, first, second, "pure function, identical output for identical input")
		assert.Equal(t, firstOverall, secondOverall)

		assert.GreaterOrEqual(t, firstOverall, 0.0)
		assert.LessOrEqual(t, firstOverall, 100.0)
		for _, ps := range first {
			assert.GreaterOrEqual(t, ps.Score, 0.0)
			assert.LessOrEqual(t, ps.Score, 100.0)
		}
	}
}

// ==========================
// TierFor
// ==========================

func TestTierFor_Bands(t *testing.T) {
	tests := []struct {
		score float64
		tier  string
	}{
		{0, "Emerging"},
		{39, "Emerging"},
		{39.4, "Emerging"}, // rounds to 39
		{39.5, "Developing"}, // rounds to 40
		{40, "Developing"},
		{59.4, "Developing"},
		{59.5, "Established"},
		{60, "Established"},
		{79.4, "Established"},
		{79.5, "Optimized"},
		{80, "Optimized"},
		{100, "Optimized"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tier, TierFor(tt.score), "score %v", tt.score)
	}
}

func TestTierFor_OutOfRangeFallsClosed(t *testing.T) {
	assert.Equal(t, TierUnknown, TierFor(120))
	assert.Equal(t, TierUnknown, TierFor(-5))
}

func TestTierBands_ContiguousAndExhaustive(t *testing.T) {
	assert.Equal(t, 0, TierBands[0].Lo)
	assert.Equal(t, 100, TierBands[len(TierBands)-1].Hi)
	for i := 1; i < len(TierBands); i++ {
		assert.Equal(t, TierBands[i-1].Hi+1, TierBands[i].Lo, "gap or overlap before %s", TierBands[i].Name)
	}
}

// ==========================
// Strengths / Gaps
// ==========================

func TestDeriveStrengthsGaps_PartitionsCatalog(t *testing.T) {
	scores, _ := ComputeScores(exampleAnswers())
	strengths, gaps := DeriveStrengthsGaps(scores)

	require.Len(t, strengths, 2)
	require.Len(t, gaps, 3)

	seen := make(map[string]bool)
	for _, name := range append(append([]string{}, strengths...), gaps...) {
		assert.False(t, seen[name], "pillar %s appears twice", name)
		seen[name] = true
	}
	for _, pillar := range Pillars {
		assert.True(t, seen[pillar.Name], "pillar %s missing", pillar.Name)
	}
}

func TestDeriveStrengthsGaps_Ordering(t *testing.T) {
	scores, _ := ComputeScores(exampleAnswers())
	strengths, gaps := DeriveStrengthsGaps(scores)

	// A and E tie at 100; catalog order breaks the tie.
	assert.Equal(t, []string{"A. Channel Strategy & Alignment", "E. Growth Readiness"}, strengths)
	// Gaps are the tail of the descending sort: least-bad first, worst last.
	assert.Equal(t, []string{
		"B. Partner Program Design",
		"D. Sales & Operations Integration",
		"C. Partner Enablement & Engagement",
	}, gaps)
}

func TestDeriveStrengthsGaps_DoesNotMutateInput(t *testing.T) {
	scores, _ := ComputeScores(exampleAnswers())
	before := make([]PillarScore, len(scores))
	copy(before, scores)

	DeriveStrengthsGaps(scores)

	assert.Equal(t, before, scores)
}

// ==========================
// Recommendations
// ==========================

func TestRecommendActions_WorstFirst(t *testing.T) {
	scores, _ := ComputeScores(exampleAnswers())
	recs := RecommendActions(scores)

	require.Len(t, recs, 3)
	assert.Equal(t, playbook["C. Partner Enablement & Engagement"], recs[0])
	assert.Equal(t, playbook["B. Partner Program Design"], recs[1])
	assert.Equal(t, playbook["D. Sales & Operations Integration"], recs[2])
}

func TestRecommendActions_UnknownPillarFallback(t *testing.T) {
	scores := []PillarScore{
		{Name: "X. Unlisted Pillar", Score: 10},
		{Name: "A. Channel Strategy & Alignment", Score: 20},
		{Name: "B. Partner Program Design", Score: 30},
		{Name: "C. Partner Enablement & Engagement", Score: 90},
		{Name: "D. Sales & Operations Integration", Score: 95},
	}

	recs := RecommendActions(scores)

	require.Len(t, recs, 3)
	assert.Equal(t, "Prioritize foundational improvements in x. unlisted pillar to enable scale.", recs[0])
}

// ==========================
// Commentary
// ==========================

func TestPillarCommentary_Bands(t *testing.T) {
	name := "E. Growth Readiness"

	tests := []struct {
		score float64
		want  string
	}{
		{95, "E. Growth Readiness is strong and scalable – keep reinforcing what works."},
		{80, "E. Growth Readiness is strong and scalable – keep reinforcing what works."},
		{60, "E. Growth Readiness shows a solid foundation with room to standardize and scale."},
		{40, "E. Growth Readiness is emerging – formalize structure, cadence, and measurement."},
		{39.9, "E. Growth Readiness is underdeveloped – prioritize core mechanics and minimum viable structure."},
		{0, "E. Growth Readiness is underdeveloped – prioritize core mechanics and minimum viable structure."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PillarCommentary(name, tt.score), "score %v", tt.score)
	}
}
