package optimizing

import (
	"context"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
)

func newTestLoop(client *fakeClient, mode types.OptimizationMode, threshold int) *Loop {
	return NewLoop(
		NewPolisher(client, llm.DefaultPolisherConfig()),
		NewCritic(client, llm.DefaultCriticConfig()),
		mode,
		threshold,
	)
}

func TestLoop_ModeNoneIsNoOp(t *testing.T) {
	client := &fakeClient{}
	loop := newTestLoop(client, types.ModeNone, 70)

	result := loop.Run(context.Background(), types.SectionSummary, "Built internal tools.", "")

	assert.Equal(t, "Built internal tools.", result.Optimized)
	assert.Equal(t, 0, result.Iterations)
	assert.Equal(t, 0, client.callCount())
	assert.False(t, result.Failed())
}

func TestLoop_ModeNoneIdempotent(t *testing.T) {
	client := &fakeClient{}
	loop := newTestLoop(client, types.ModeNone, 70)

	once := loop.Run(context.Background(), types.SectionSummary, "Already optimized text.", "")
	twice := loop.Run(context.Background(), types.SectionSummary, once.Optimized, "")

	assert.Equal(t, once.Optimized, twice.Optimized)
	assert.Equal(t, 0, client.callCount())
}

func TestLoop_EmptySectionSkipsModel(t *testing.T) {
	client := &fakeClient{}
	loop := newTestLoop(client, types.ModeJobOptimized, 70)

	result := loop.Run(context.Background(), types.SectionSkills, "", "some job")

	assert.Equal(t, "", result.Optimized)
	assert.Equal(t, 0, result.Iterations)
	assert.Equal(t, 0, client.callCount())
}

func TestLoop_FeedbackOnly_PolishThenCritique(t *testing.T) {
	client := &fakeClient{replies: []reply{
		{text: "Shipped internal tooling adopted by 40 engineers."},
		{text: `{"score": 40, "suggestions": ["Quantify the adoption"]}`},
	}}
	loop := newTestLoop(client, types.ModeFeedbackOnly, 70)

	result := loop.Run(context.Background(), types.SectionSummary, "Built internal tools.", "")

	// Feedback-only never re-polishes, even below threshold.
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, "Shipped internal tooling adopted by 40 engineers.", result.Optimized)
	assert.Equal(t, 40, result.Score)
	assert.Contains(t, result.Feedback, "Quantify the adoption")
	assert.Equal(t, 2, client.callCount())
	assert.False(t, result.Failed())
}

func TestLoop_JobOptimized_AcceptedFirstPass(t *testing.T) {
	client := &fakeClient{replies: []reply{
		{text: "polished once"},
		{text: `{"score": 90, "suggestions": []}`},
	}}
	loop := newTestLoop(client, types.ModeJobOptimized, 70)

	result := loop.Run(context.Background(), types.SectionSummary, "original", "job posting")

	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, "polished once", result.Optimized)
	assert.Equal(t, 2, client.callCount())
}

func TestLoop_JobOptimized_RePolishBelowThreshold(t *testing.T) {
	client := &fakeClient{replies: []reply{
		{text: "polished once"},
		{text: `{"score": 50, "suggestions": ["Mirror the posting's language"]}`},
		{text: "polished twice"},
	}}
	loop := newTestLoop(client, types.ModeJobOptimized, 70)

	result := loop.Run(context.Background(), types.SectionSummary, "original", "job posting")

	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, "polished twice", result.Optimized)
	assert.Equal(t, 50, result.Score)
	assert.Contains(t, result.Feedback, "Mirror the posting's language")
	// Exactly one re-polish: polish, critique, re-polish.
	assert.Equal(t, 3, client.callCount())
	// The re-polish prompt carries the critic's suggestions and refines the
	// first polished text rather than starting over from the input.
	assert.Contains(t, client.prompts[2], "Mirror the posting's language")
	assert.Contains(t, client.prompts[2], "polished once")
}

func TestLoop_PolishFailureKeepsOriginal(t *testing.T) {
	client := &fakeClient{replies: []reply{
		{err: &llm.GenerationError{Kind: llm.KindServiceError, Message: "backend down"}},
	}}
	loop := newTestLoop(client, types.ModeJobOptimized, 70)

	result := loop.Run(context.Background(), types.SectionSummary, "original", "job")

	assert.True(t, result.Failed())
	assert.Equal(t, "original", result.Optimized)
	assert.Equal(t, 0, result.Iterations)
	assert.NotEmpty(t, result.Feedback)
	assert.Equal(t, 1, client.callCount())
}

func TestLoop_CritiqueFailureKeepsBestText(t *testing.T) {
	client := &fakeClient{replies: []reply{
		{text: "polished once"},
		{err: &llm.GenerationError{Kind: llm.KindTimeout, Message: "deadline"}},
	}}
	loop := newTestLoop(client, types.ModeFeedbackOnly, 70)

	result := loop.Run(context.Background(), types.SectionSummary, "original", "")

	assert.True(t, result.Failed())
	// Best text so far is the first polish, not the original.
	assert.Equal(t, "polished once", result.Optimized)
	assert.Equal(t, 1, result.Iterations)
}

func TestLoop_RePolishFailureKeepsFirstPolish(t *testing.T) {
	client := &fakeClient{replies: []reply{
		{text: "polished once"},
		{text: `{"score": 10, "suggestions": ["Rework everything"]}`},
		{err: &llm.GenerationError{Kind: llm.KindServiceError, Message: "backend down"}},
	}}
	loop := newTestLoop(client, types.ModeJobOptimized, 70)

	result := loop.Run(context.Background(), types.SectionSummary, "original", "job")

	assert.True(t, result.Failed())
	assert.Equal(t, "polished once", result.Optimized)
	assert.Equal(t, 1, result.Iterations)
}

func TestLoop_DefaultThreshold(t *testing.T) {
	loop := NewLoop(nil, nil, types.ModeNone, 0)
	assert.Equal(t, DefaultAcceptanceThreshold, loop.threshold)
}
