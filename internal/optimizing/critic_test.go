package optimizing

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCritique_ParsesJSONVerdict(t *testing.T) {
	client := &fakeClient{replies: []reply{
		{text: `{"score": 85, "suggestions": ["Quantify the migration impact"]}`},
	}}
	critic := NewCritic(client, llm.DefaultCriticConfig())

	critique, err := critic.Critique(context.Background(), types.SectionSummary, "original", "optimized", "")
	require.NoError(t, err)
	assert.Equal(t, 85, critique.Score)
	assert.Equal(t, []string{"Quantify the migration impact"}, critique.Suggestions)
	assert.Equal(t, llm.RoleCritic, client.roles[0])
}

func TestCritique_PropagatesGenerationError(t *testing.T) {
	client := &fakeClient{replies: []reply{
		{err: &llm.GenerationError{Kind: llm.KindRateLimit, Message: "quota"}},
	}}
	critic := NewCritic(client, llm.DefaultCriticConfig())

	_, err := critic.Critique(context.Background(), types.SectionSummary, "a", "b", "")
	var genErr *llm.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, llm.KindRateLimit, genErr.Kind)
}

func TestParseCritiqueResponse_FencedJSON(t *testing.T) {
	critique, err := parseCritiqueResponse("```json\n{\"score\": 60, \"suggestions\": [\"Tighten the opening line\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, 60, critique.Score)
	require.Len(t, critique.Suggestions, 1)
}

func TestParseCritiqueResponse_ClampsScore(t *testing.T) {
	high, err := parseCritiqueResponse(`{"score": 140, "suggestions": []}`)
	require.NoError(t, err)
	assert.Equal(t, 100, high.Score)

	low, err := parseCritiqueResponse(`{"score": -5, "suggestions": []}`)
	require.NoError(t, err)
	assert.Equal(t, 0, low.Score)
}

func TestParseCritiqueResponse_BulletFallback(t *testing.T) {
	response := "The optimized section still needs work.\n- Lead with the outcome\n- Drop the buzzwords"

	critique, err := parseCritiqueResponse(response)
	require.NoError(t, err)
	assert.Equal(t, 0, critique.Score)
	assert.Equal(t, []string{"Lead with the outcome", "Drop the buzzwords"}, critique.Suggestions)
}

func TestParseCritiqueResponse_Unparseable(t *testing.T) {
	_, err := parseCritiqueResponse("Looks fine to me.")
	var formatErr *ResponseFormatError
	require.True(t, errors.As(err, &formatErr))
}

func TestCritique_Feedback(t *testing.T) {
	critique := &Critique{Suggestions: []string{"Lead with the outcome", "Drop the buzzwords"}}
	assert.Equal(t, "- Lead with the outcome\n- Drop the buzzwords", critique.Feedback())

	empty := &Critique{Score: 90}
	assert.Equal(t, "", empty.Feedback())
}

func TestBuildCritiquePrompt_JobContext(t *testing.T) {
	withJob := buildCritiquePrompt(types.SectionSkills, "orig", "opt", "Platform engineer posting")
	assert.Contains(t, withJob, "and job requirements")
	assert.Contains(t, withJob, "Job requirements:")
	assert.Contains(t, withJob, "Platform engineer posting")
	assert.Contains(t, withJob, "Coverage of required skills")

	withoutJob := buildCritiquePrompt(types.SectionSkills, "orig", "opt", "")
	assert.NotContains(t, withoutJob, "Job requirements:")
	assert.Contains(t, withoutJob, "Relevance and currency of skills")
}
