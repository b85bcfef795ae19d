package optimizing

import (
	"context"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// DefaultAcceptanceThreshold is the critique score below which a job-optimized
// section earns one re-polish pass.
const DefaultAcceptanceThreshold = 70

// loopState tracks progress through the per-section feedback state machine.
type loopState string

const (
	stateInit       loopState = "init"
	statePolished   loopState = "polished"
	stateCritiqued  loopState = "critiqued"
	stateRepolished loopState = "repolished"
	stateDone       loopState = "done"
)

// Loop runs the polish -> critique -> (re-polish) state machine over one
// section. The state machine enforces the bounds structurally: at most one
// re-polish pass, and re-polishing only under job-optimized mode when the
// critique score falls below the acceptance threshold.
type Loop struct {
	polisher  *Polisher
	critic    *Critic
	mode      types.OptimizationMode
	threshold int
}

// NewLoop creates a feedback loop for the given mode. A non-positive
// threshold falls back to DefaultAcceptanceThreshold.
func NewLoop(polisher *Polisher, critic *Critic, mode types.OptimizationMode, threshold int) *Loop {
	if threshold <= 0 {
		threshold = DefaultAcceptanceThreshold
	}
	return &Loop{
		polisher:  polisher,
		critic:    critic,
		mode:      mode,
		threshold: threshold,
	}
}

// Run executes the loop for one section and always returns a result: any
// stage failure terminates the loop early with the best text obtained so far
// and the failure recorded, never an error. Iterations counts polish calls.
func (l *Loop) Run(ctx context.Context, section, text, jobDescription string) types.OptimizationResult {
	result := types.OptimizationResult{
		Section:   section,
		Original:  text,
		Optimized: text,
	}

	// Unset sections and pass-through mode never touch the model.
	if !l.mode.Polishes() || strings.TrimSpace(text) == "" {
		return result
	}

	var critique *Critique
	state := stateInit

	for state != stateDone {
		switch state {
		case stateInit:
			polished, err := l.polisher.Polish(ctx, section, text, jobDescription, "")
			if err != nil {
				return l.fail(result, err)
			}
			result.Optimized = polished
			result.Iterations = 1
			state = statePolished

		case statePolished:
			if !l.mode.Critiques() {
				state = stateDone
				continue
			}
			verdict, err := l.critic.Critique(ctx, section, text, result.Optimized, jobDescription)
			if err != nil {
				return l.fail(result, err)
			}
			critique = verdict
			result.Score = critique.Score
			result.Feedback = critique.Feedback()
			state = stateCritiqued

		case stateCritiqued:
			if !l.mode.RePolishes() || critique.Score >= l.threshold {
				state = stateDone
				continue
			}
			// The critic judged the polished text, so that is what the
			// suggestions apply to and what the second pass refines.
			repolished, err := l.polisher.Polish(ctx, section, result.Optimized, jobDescription, critique.Feedback())
			if err != nil {
				return l.fail(result, err)
			}
			result.Optimized = repolished
			result.Iterations = 2
			state = stateRepolished

		case stateRepolished:
			state = stateDone
		}
	}

	return result
}

// fail records a soft, section-scoped failure. The best text obtained so far
// stays in place; a section that never polished keeps its original content.
func (l *Loop) fail(result types.OptimizationResult, err error) types.OptimizationResult {
	result.Failure = err.Error()
	if result.Feedback == "" {
		result.Feedback = "optimization incomplete: " + err.Error()
	}
	return result
}
