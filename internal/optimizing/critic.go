package optimizing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

// Critique is the critic's verdict on an optimized section.
type Critique struct {
	Score       int      `json:"score"`
	Suggestions []string `json:"suggestions"`
}

// Feedback renders the suggestions as a block suitable for embedding in a
// re-polish prompt.
func (c *Critique) Feedback() string {
	if len(c.Suggestions) == 0 {
		return ""
	}
	return "- " + strings.Join(c.Suggestions, "\n- ")
}

// Critic is the agent responsible for scoring optimized content and
// suggesting improvements.
type Critic struct {
	client llm.Client
	config llm.GenerationConfig
}

// NewCritic creates a Critic backed by the given client and generation config.
func NewCritic(client llm.Client, config llm.GenerationConfig) *Critic {
	return &Critic{client: client, config: config}
}

// Critique evaluates the optimized text against the original. With a job
// description it judges alignment with the posting; without one it evaluates
// generic resume quality only.
func (c *Critic) Critique(ctx context.Context, section, original, optimized, jobDescription string) (*Critique, error) {
	prompt := buildCritiquePrompt(section, original, optimized, jobDescription)

	response, err := c.client.Complete(ctx, prompt, c.config)
	if err != nil {
		return nil, err
	}

	return parseCritiqueResponse(response)
}

// buildCritiquePrompt assembles the critic prompt from the externalized
// templates and the original/optimized pair.
func buildCritiquePrompt(section, original, optimized, jobDescription string) string {
	jobContext := ""
	jobBlock := ""
	if jobDescription != "" {
		jobContext = " and job requirements"
		jobBlock = "Job requirements:\n" + validation.QuoteExternalContent(jobDescription, "job posting") + "\n\n"
	}

	task := prompts.MustGet("optimizing.json", "critique-task")
	body := prompts.Format(task, map[string]string{
		"Section":          displayName(section),
		"JobContext":       jobContext,
		"JobBlock":         jobBlock,
		"Original":         original,
		"Optimized":        optimized,
		"EvaluationPoints": prompts.MustGet("optimizing.json", evalKey(section, jobDescription != "")),
	})

	return prompts.MustGet("optimizing.json", "critique-system") + "\n\n" + body
}

// evalKey selects the evaluation-point set for a section, mirroring focusKey.
func evalKey(section string, hasJob bool) string {
	kind := "experience"
	switch section {
	case types.SectionSummary:
		kind = "summary"
	case types.SectionSkills:
		kind = "skills"
	}
	if hasJob {
		return "eval-job-" + kind
	}
	return "eval-" + kind
}

// parseCritiqueResponse parses the critic's JSON verdict. The model is asked
// for strict JSON but responses arrive fenced or with stray prose often
// enough that a line-based fallback is kept.
func parseCritiqueResponse(response string) (*Critique, error) {
	cleaned := llm.CleanJSONBlock(response)

	var critique Critique
	if err := json.Unmarshal([]byte(cleaned), &critique); err == nil {
		critique.clampScore()
		return &critique, nil
	}

	// Fallback: suggestions as "- " bullet lines, score left at zero so a
	// malformed verdict reads as "needs improvement" rather than approval.
	fallback := &Critique{}
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "- "); ok && rest != "" {
			fallback.Suggestions = append(fallback.Suggestions, rest)
		}
	}
	if len(fallback.Suggestions) > 0 {
		return fallback, nil
	}

	return nil, &ResponseFormatError{
		Message: "critique response is neither JSON nor a suggestion list",
	}
}

func (c *Critique) clampScore() {
	if c.Score < 0 {
		c.Score = 0
	}
	if c.Score > 100 {
		c.Score = 100
	}
}
