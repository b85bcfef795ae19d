// Package optimizing provides the AI agents that rewrite and score resume
// sections, and the feedback loop that coordinates them per section.
package optimizing

import (
	"context"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

// Polisher is the agent responsible for rewriting section content for
// clarity and impact.
type Polisher struct {
	client llm.Client
	config llm.GenerationConfig
}

// NewPolisher creates a Polisher backed by the given client and generation config.
func NewPolisher(client llm.Client, config llm.GenerationConfig) *Polisher {
	return &Polisher{client: client, config: config}
}

// Polish rewrites one section's text. The job description steers the rewrite
// toward the posting when present; criticFeedback folds a previous critique
// into the prompt for a re-polish pass. Empty section text short-circuits to
// a no-op without a model call. Factual content must be preserved; the prompt
// enforces this contract.
func (p *Polisher) Polish(ctx context.Context, section, text, jobDescription, criticFeedback string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	prompt := buildPolishPrompt(section, text, jobDescription, criticFeedback)

	polished, err := p.client.Complete(ctx, prompt, p.config)
	if err != nil {
		return "", err
	}

	polished = strings.TrimSpace(polished)
	if polished == "" {
		// Model answered but produced nothing usable. Treat like an empty
		// response so the loop can fall back to the original text.
		return "", &llm.GenerationError{
			Kind:    llm.KindEmptyResponse,
			Message: "polisher returned empty text for section " + section,
		}
	}

	return polished, nil
}

// buildPolishPrompt assembles the polisher prompt from the externalized
// templates, the section content, and the optional job and feedback blocks.
func buildPolishPrompt(section, content, jobDescription, criticFeedback string) string {
	jobBlock := ""
	if jobDescription != "" {
		jobBlock = "Job requirements:\n" + validation.QuoteExternalContent(jobDescription, "job posting") + "\n\n"
	}

	feedbackBlock := ""
	if criticFeedback != "" {
		feedbackBlock = "\nCritic's feedback:\n" + criticFeedback + "\n"
	}

	task := prompts.MustGet("optimizing.json", "polish-task")
	body := prompts.Format(task, map[string]string{
		"Section":       displayName(section),
		"JobBlock":      jobBlock,
		"Content":       content,
		"FeedbackBlock": feedbackBlock,
		"FocusPoints":   prompts.MustGet("optimizing.json", focusKey(section, jobDescription != "")),
	})

	return prompts.MustGet("optimizing.json", "polish-system") + "\n\n" + body
}

// focusKey selects the focus-point set for a section. Summary and skills have
// dedicated guidance; every other section reads as experience-style prose.
func focusKey(section string, hasJob bool) string {
	kind := "experience"
	switch section {
	case types.SectionSummary:
		kind = "summary"
	case types.SectionSkills:
		kind = "skills"
	}
	if hasJob {
		return "focus-job-" + kind
	}
	return "focus-" + kind
}

// displayName renders a section key for use inside prompt text.
func displayName(section string) string {
	return strings.ReplaceAll(section, "_", " ")
}
