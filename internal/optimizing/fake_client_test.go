package optimizing

import (
	"context"

	"github.com/jonathan/resume-optimizer/internal/llm"
)

// reply scripts one fake completion.
type reply struct {
	text string
	err  error
}

// fakeClient is a scripted llm.Client for deterministic tests.
type fakeClient struct {
	replies []reply
	prompts []string
	roles   []llm.Role
}

func (f *fakeClient) Complete(_ context.Context, prompt string, cfg llm.GenerationConfig) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.roles = append(f.roles, cfg.Role)

	if len(f.replies) == 0 {
		return "", &llm.GenerationError{Kind: llm.KindServiceError, Message: "fake client out of replies"}
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	return next.text, next.err
}

func (f *fakeClient) Close() error {
	return nil
}

func (f *fakeClient) callCount() int {
	return len(f.prompts)
}
