package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient is a thread-safe fake completion service. Polish requests return
// canned text; critique requests return a JSON verdict with the configured score.
type stubClient struct {
	mu      sync.Mutex
	calls   int
	failAll bool
	score   int
}

func (s *stubClient) Complete(_ context.Context, _ string, cfg llm.GenerationConfig) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.failAll {
		return "", &llm.GenerationError{Kind: llm.KindServiceError, Message: "backend down"}
	}
	if cfg.Role == llm.RoleCritic {
		return fmt.Sprintf(`{"score": %d, "suggestions": ["tighten the phrasing"]}`, s.score), nil
	}
	return "optimized text", nil
}

func (s *stubClient) Close() error { return nil }

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testRecord() *types.ResumeRecord {
	return &types.ResumeRecord{
		Summary: "Built internal tools.",
		Skills:  "",
	}
}

func fullRecord() *types.ResumeRecord {
	record := &types.ResumeRecord{}
	for _, name := range types.SectionNames() {
		record.SetSection(name, "content for "+name)
	}
	return record
}

func defaultOptions(record *types.ResumeRecord, client llm.Client, mode types.OptimizationMode) Options {
	return Options{
		Record:         record,
		Mode:           mode,
		PolisherConfig: llm.DefaultPolisherConfig(),
		CriticConfig:   llm.DefaultCriticConfig(),
		Threshold:      70,
		Client:         client,
	}
}

func TestRun_RequiresRecord(t *testing.T) {
	_, _, err := Run(context.Background(), Options{Mode: types.ModeNone})
	require.Error(t, err)
}

func TestRun_RequiresClientWhenPolishing(t *testing.T) {
	opts := defaultOptions(testRecord(), nil, types.ModeFeedbackOnly)
	opts.Client = nil

	_, _, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client")
}

func TestRun_InvalidConfigFailsFast(t *testing.T) {
	client := &stubClient{}
	opts := defaultOptions(testRecord(), client, types.ModeFeedbackOnly)
	opts.PolisherConfig.Temperature = 1.5

	_, _, err := Run(context.Background(), opts)
	require.Error(t, err)

	var cfgErr *llm.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 0, client.callCount())
}

func TestRun_ModeNonePassesThrough(t *testing.T) {
	record := fullRecord()
	optimized, report, err := Run(context.Background(), defaultOptions(record, nil, types.ModeNone))
	require.NoError(t, err)

	for _, name := range types.SectionNames() {
		assert.Equal(t, record.Section(name), optimized.Section(name), name)
		result := report.Sections[name]
		assert.Equal(t, 0, result.Iterations, name)
		assert.False(t, result.Failed(), name)
	}
}

func TestRun_FeedbackOnlyScenario(t *testing.T) {
	client := &stubClient{score: 80}
	record := testRecord()

	optimized, report, err := Run(context.Background(), defaultOptions(record, client, types.ModeFeedbackOnly))
	require.NoError(t, err)

	// Empty skills section short-circuits with no model call.
	assert.Equal(t, "", optimized.Skills)
	assert.Equal(t, 0, report.Sections[types.SectionSkills].Iterations)

	summary := report.Sections[types.SectionSummary]
	assert.Equal(t, 1, summary.Iterations)
	assert.Equal(t, "optimized text", optimized.Summary)
	assert.NotEqual(t, record.Summary, optimized.Summary)

	// Only the summary was non-empty: one polish plus one critique.
	assert.Equal(t, 2, client.callCount())
}

func TestRun_JobOptimizedRePolishesBelowThreshold(t *testing.T) {
	client := &stubClient{score: 50}
	opts := defaultOptions(testRecord(), client, types.ModeJobOptimized)
	opts.JobDescription = "Senior platform engineer"

	optimized, report, err := Run(context.Background(), opts)
	require.NoError(t, err)

	summary := report.Sections[types.SectionSummary]
	assert.Equal(t, 2, summary.Iterations)
	assert.Equal(t, 50, summary.Score)
	assert.Contains(t, summary.Feedback, "tighten the phrasing")
	assert.Equal(t, "optimized text", optimized.Summary)
}

func TestRun_DoesNotMutateCallerRecord(t *testing.T) {
	client := &stubClient{score: 90}
	record := testRecord()

	_, _, err := Run(context.Background(), defaultOptions(record, client, types.ModeFeedbackOnly))
	require.NoError(t, err)

	assert.Equal(t, "Built internal tools.", record.Summary)
}

func TestRun_AllSectionsFailStillReturnsRecord(t *testing.T) {
	client := &stubClient{failAll: true}
	record := fullRecord()

	optimized, report, err := Run(context.Background(), defaultOptions(record, client, types.ModeFeedbackOnly))
	require.NoError(t, err)
	require.NotNil(t, optimized)

	for _, name := range types.SectionNames() {
		assert.Equal(t, record.Section(name), optimized.Section(name), name)
		assert.True(t, report.Sections[name].Failed(), name)
	}
	assert.Len(t, report.FailedSections(), len(types.SectionNames()))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &stubClient{score: 90}
	record := fullRecord()

	optimized, report, err := Run(ctx, defaultOptions(record, client, types.ModeJobOptimized))
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, optimized)

	// Every section key survives cancellation with its original content.
	for _, name := range types.SectionNames() {
		assert.Equal(t, record.Section(name), optimized.Section(name), name)
	}
	assert.NotNil(t, report)
}

func TestRun_ReportMetadata(t *testing.T) {
	client := &stubClient{score: 95}
	_, report, err := Run(context.Background(), defaultOptions(testRecord(), client, types.ModeFeedbackOnly))
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", report.RunID.String())
	assert.Equal(t, types.ModeFeedbackOnly, report.Mode)
	assert.Len(t, report.Sections, len(types.SectionNames()))
}
