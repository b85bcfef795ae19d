// Package checking runs a final quality review over rendered resume content.
// The checker estimates page count, approves or rejects the document, and
// collects concrete change suggestions from the model's structured reply.
package checking

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
)

// MaxPages is the page count above which a resume is flagged for trimming.
const MaxPages = 2.0

// CheckResult is the parsed outcome of one quality review.
type CheckResult struct {
	EstimatedPages   float64  `json:"estimated_pages"`
	Approved         bool     `json:"approved"`
	Feedback         string   `json:"feedback"`
	SuggestedChanges []string `json:"suggested_changes"`
}

// Checker reviews rendered resume content against length and quality standards.
type Checker struct {
	client llm.Client
	config llm.GenerationConfig
}

// NewChecker creates a Checker. Review uses the critic's deterministic
// generation parameters so verdicts stay stable between runs.
func NewChecker(client llm.Client) *Checker {
	return &Checker{
		client: client,
		config: llm.DefaultCriticConfig(),
	}
}

// CheckResume submits the rendered LaTeX content for review and parses the
// structured verdict. Content that cannot be parsed back into a verdict is a
// *ResponseFormatError.
func (c *Checker) CheckResume(ctx context.Context, latex string) (*CheckResult, error) {
	if strings.TrimSpace(latex) == "" {
		return nil, &ResponseFormatError{Message: "no content to check"}
	}

	prompt := buildCheckPrompt(latex)

	reply, err := c.client.Complete(ctx, prompt, c.config)
	if err != nil {
		return nil, err
	}

	return parseCheckResponse(reply)
}

func buildCheckPrompt(latex string) string {
	task := prompts.MustGet("checking.json", "check-task")
	body := prompts.Format(task, map[string]string{
		"Content": latex,
	})
	return prompts.MustGet("checking.json", "check-system") + "\n\n" + body
}

var (
	pagesPattern    = regexp.MustCompile(`(?m)^ESTIMATED_PAGES:\s*\[?([0-9]+(?:\.[0-9]+)?)\]?`)
	approvedPattern = regexp.MustCompile(`(?m)^APPROVED:\s*\[?(YES|NO)\]?`)
	feedbackPattern = regexp.MustCompile(`(?ms)^FEEDBACK:\s*(.*?)(?:^SUGGESTED_CHANGES:|\z)`)
)

// parseCheckResponse extracts the verdict fields from the model's reply. The
// APPROVED line is the one mandatory field; everything else degrades to a
// zero value when missing.
func parseCheckResponse(reply string) (*CheckResult, error) {
	approved := approvedPattern.FindStringSubmatch(reply)
	if approved == nil {
		return nil, &ResponseFormatError{
			Message: "check response missing APPROVED verdict",
		}
	}

	result := &CheckResult{
		Approved: approved[1] == "YES",
	}

	if m := pagesPattern.FindStringSubmatch(reply); m != nil {
		if pages, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.EstimatedPages = pages
		}
	}

	if m := feedbackPattern.FindStringSubmatch(reply); m != nil {
		result.Feedback = strings.TrimSpace(m[1])
	}

	if idx := strings.Index(reply, "SUGGESTED_CHANGES:"); idx >= 0 {
		for _, line := range strings.Split(reply[idx:], "\n") {
			line = strings.TrimSpace(line)
			if suggestion, ok := strings.CutPrefix(line, "- "); ok {
				result.SuggestedChanges = append(result.SuggestedChanges, strings.TrimSpace(suggestion))
			}
		}
	}

	return result, nil
}
