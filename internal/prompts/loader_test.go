package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompt(t *testing.T) {
	prompt, err := Get("optimizing.json", "polish-task")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Section}}")
	assert.Contains(t, prompt, "{{.Content}}")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("optimizing.json", "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "polish-task")
	require.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("optimizing.json", "nope")
	})
}

func TestFormat(t *testing.T) {
	template := "Enhance the {{.Section}} section:\n{{.Content}}"
	result := Format(template, map[string]string{
		"Section": "summary",
		"Content": "Built internal tools.",
	})

	assert.Equal(t, "Enhance the summary section:\nBuilt internal tools.", result)
	assert.False(t, strings.Contains(result, "{{"))
}

func TestFocusPointVariants_Present(t *testing.T) {
	for _, key := range []string{
		"focus-summary", "focus-skills", "focus-experience",
		"focus-job-summary", "focus-job-skills", "focus-job-experience",
		"eval-summary", "eval-skills", "eval-experience",
		"eval-job-summary", "eval-job-skills", "eval-job-experience",
	} {
		prompt, err := Get("optimizing.json", key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}

func TestCheckingPrompt_ResponseContract(t *testing.T) {
	prompt, err := Get("checking.json", "check-task")
	require.NoError(t, err)
	assert.Contains(t, prompt, "ESTIMATED_PAGES:")
	assert.Contains(t, prompt, "APPROVED:")
	assert.Contains(t, prompt, "SUGGESTED_CHANGES:")
}
