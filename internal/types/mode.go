package types

import "fmt"

// OptimizationMode selects which stages of the feedback loop run for each section.
type OptimizationMode string

const (
	// ModeNone passes every section through unchanged. No model calls occur.
	ModeNone OptimizationMode = "none"
	// ModeFeedbackOnly polishes each section once and critiques the result.
	ModeFeedbackOnly OptimizationMode = "feedback_only"
	// ModeJobOptimized polishes, critiques, and re-polishes once more when the
	// critique score falls below the acceptance threshold.
	ModeJobOptimized OptimizationMode = "job_optimized"
)

// ParseMode converts a CLI/config string into an OptimizationMode.
func ParseMode(s string) (OptimizationMode, error) {
	switch OptimizationMode(s) {
	case ModeNone, ModeFeedbackOnly, ModeJobOptimized:
		return OptimizationMode(s), nil
	}
	return "", fmt.Errorf("unknown optimization mode %q (expected none, feedback_only, or job_optimized)", s)
}

// Polishes reports whether this mode performs any polish pass.
func (m OptimizationMode) Polishes() bool {
	return m == ModeFeedbackOnly || m == ModeJobOptimized
}

// Critiques reports whether this mode runs the critic after polishing.
func (m OptimizationMode) Critiques() bool {
	return m == ModeFeedbackOnly || m == ModeJobOptimized
}

// RePolishes reports whether this mode may run a second polish pass.
func (m OptimizationMode) RePolishes() bool {
	return m == ModeJobOptimized
}

func (m OptimizationMode) String() string {
	return string(m)
}
