// internal/workers/assessment/score-submission/handler_test.go
package scoresubmission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readiness-workers/internal/common/logger"
)

func exampleInput() *Input {
	return &Input{
		Answers: map[string]int{
			"A1": 5, "A2": 5, "B1": 3, "B2": 3, "C1": 1,
			"C2": 1, "D1": 4, "D2": 2, "E1": 5, "E2": 5,
		},
	}
}

func TestHandler_Execute_MixedProfile(t *testing.T) {
	h := NewHandler(&Config{}, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), exampleInput())
	require.NoError(t, err)

	assert.Equal(t, 68.0, out.OverallScore)
	assert.Equal(t, "Established", out.Tier)

	require.Len(t, out.PillarScores, 5)
	assert.Equal(t, 100.0, out.PillarScores[0].Score)
	assert.Equal(t, 60.0, out.PillarScores[1].Score)
	assert.Equal(t, 20.0, out.PillarScores[2].Score)
	assert.Equal(t, 60.0, out.PillarScores[3].Score)
	assert.Equal(t, 100.0, out.PillarScores[4].Score)

	assert.Equal(t, []string{
		"A. Channel Strategy & Alignment",
		"E. Growth Readiness",
	}, out.Strengths)
	assert.Equal(t, []string{
		"B. Partner Program Design",
		"D. Sales & Operations Integration",
		"C. Partner Enablement & Engagement",
	}, out.Gaps)
	require.Len(t, out.Recommendations, 3)
	assert.Contains(t, out.Recommendations[0], "enablement")
}

func TestHandler_Execute_AllFives(t *testing.T) {
	h := NewHandler(&Config{}, logger.NewNoOpLogger())

	answers := map[string]int{}
	for _, code := range []string{"A1", "A2", "B1", "B2", "C1", "C2", "D1", "D2", "E1", "E2"} {
		answers[code] = 5
	}

	out, err := h.Execute(context.Background(), &Input{Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, 100.0, out.OverallScore)
	assert.Equal(t, "Optimized", out.Tier)
}

func TestHandler_Execute_NilAnswers(t *testing.T) {
	h := NewHandler(&Config{}, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.OverallScore)
	assert.Equal(t, "Emerging", out.Tier)
	require.Len(t, out.PillarScores, 5)
	for _, ps := range out.PillarScores {
		assert.Equal(t, 0.0, ps.Score)
	}
}

func TestHandler_Execute_DetailCarriesAnswers(t *testing.T) {
	h := NewHandler(&Config{}, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), exampleInput())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A1": 5, "A2": 5}, out.PillarScores[0].Detail)
	assert.Equal(t, map[string]int{"C1": 1, "C2": 1}, out.PillarScores[2].Detail)
}
