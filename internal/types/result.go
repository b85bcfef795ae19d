package types

import "github.com/google/uuid"

// OptimizationResult describes the outcome for one section.
// Optimized is never empty when Original was non-empty; on failure it falls
// back to the original text rather than going missing.
type OptimizationResult struct {
	Section    string `json:"section"`
	Original   string `json:"original"`
	Optimized  string `json:"optimized"`
	Feedback   string `json:"feedback,omitempty"`
	Score      int    `json:"score,omitempty"`
	Iterations int    `json:"iterations"`
	Failure    string `json:"failure,omitempty"`
}

// Failed reports whether this section degraded to its original content
// because a stage failed after retries were exhausted.
func (r OptimizationResult) Failed() bool {
	return r.Failure != ""
}

// OptimizationReport aggregates per-section results for one pipeline run.
type OptimizationReport struct {
	RunID    uuid.UUID                     `json:"run_id"`
	Mode     OptimizationMode              `json:"mode"`
	Sections map[string]OptimizationResult `json:"sections"`
}

// FailedSections returns the names of sections whose optimization degraded
// to a soft failure, in canonical section order.
func (rep *OptimizationReport) FailedSections() []string {
	var failed []string
	for _, name := range SectionNames() {
		if res, ok := rep.Sections[name]; ok && res.Failed() {
			failed = append(failed, name)
		}
	}
	return failed
}

// TotalIterations returns the total number of polish passes across sections.
func (rep *OptimizationReport) TotalIterations() int {
	total := 0
	for _, res := range rep.Sections {
		total += res.Iterations
	}
	return total
}
