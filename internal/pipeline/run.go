// Package pipeline provides the high-level orchestration for resume content optimization.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/optimizing"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

// DefaultConcurrency bounds how many sections are optimized at once. The
// completion service is the only shared resource; a small bound keeps
// per-key rate limits comfortable.
const DefaultConcurrency = 3

// Options holds configuration for one optimization run
type Options struct {
	Record         *types.ResumeRecord // Required: the resume content to optimize
	JobDescription string              // Optional: enables job-targeted optimization
	Mode           types.OptimizationMode
	PolisherConfig llm.GenerationConfig
	CriticConfig   llm.GenerationConfig
	Threshold      int // Critique score below which job-optimized sections re-polish
	Concurrency    int
	Client         llm.Client // Required unless Mode is none
	Logger         *zap.Logger
	DatabaseURL    string // Optional: persist run and section results
}

// Run fans the feedback loop out over all sections of the record and
// aggregates the results. The caller's record is never mutated; every section
// key is present in the returned record. Section failures are soft: they are
// flagged in the report, and the record falls back to original content for
// those sections. Run returns a non-nil error only for invalid configuration
// or cancellation; even a run where every section fails returns normally.
func Run(ctx context.Context, opts Options) (*types.ResumeRecord, *types.OptimizationReport, error) {
	if opts.Record == nil {
		return nil, nil, fmt.Errorf("resume record is required")
	}
	if opts.Client == nil && opts.Mode.Polishes() {
		return nil, nil, fmt.Errorf("LLM client is required for mode %s", opts.Mode)
	}

	// Config errors are hard failures, surfaced before any model call.
	if opts.Mode.Polishes() {
		if err := opts.PolisherConfig.Validate(); err != nil {
			return nil, nil, err
		}
		if err := opts.CriticConfig.Validate(); err != nil {
			return nil, nil, err
		}
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	runID := uuid.New()
	report := &types.OptimizationReport{
		RunID:    runID,
		Mode:     opts.Mode,
		Sections: make(map[string]types.OptimizationResult, len(types.SectionNames())),
	}

	// Persistence is best effort: a missing or unreachable database never
	// blocks optimization.
	var database *db.DB
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			log.Warn("continuing without run persistence", zap.Error(err))
		} else {
			defer database.Close()
			if err := database.CreateRun(ctx, runID, opts.Mode.String(), opts.JobDescription != ""); err != nil {
				log.Warn("failed to record run start", zap.Error(err))
			}
		}
	}

	if opts.JobDescription != "" {
		if check := validation.CheckJobPosting(opts.JobDescription); !check.IsSafe {
			log.Warn("job posting looks like a prompt injection attempt",
				zap.Strings("keywords", check.DetectedKeywords))
		}
	}

	log.Info("starting optimization run",
		zap.String("run_id", runID.String()),
		zap.String("mode", opts.Mode.String()),
		zap.Bool("job_targeted", opts.JobDescription != ""),
	)

	optimized := opts.Record.Clone()
	loop := optimizing.NewLoop(
		optimizing.NewPolisher(opts.Client, opts.PolisherConfig),
		optimizing.NewCritic(opts.Client, opts.CriticConfig),
		opts.Mode,
		opts.Threshold,
	)

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, name := range types.SectionNames() {
		name := name
		g.Go(func() error {
			var result types.OptimizationResult
			if err := gCtx.Err(); err != nil {
				// Cancelled before this section started: it keeps its
				// original content, flagged so the caller can see why.
				original := opts.Record.Section(name)
				result = types.OptimizationResult{
					Section:   name,
					Original:  original,
					Optimized: original,
					Failure:   "cancelled: " + err.Error(),
				}
			} else {
				result = loop.Run(gCtx, name, opts.Record.Section(name), opts.JobDescription)
			}

			mu.Lock()
			report.Sections[name] = result
			optimized.SetSection(name, result.Optimized)
			mu.Unlock()

			if result.Failed() {
				log.Warn("section optimization degraded",
					zap.String("section", name),
					zap.String("failure", result.Failure),
				)
			} else {
				log.Debug("section optimized",
					zap.String("section", name),
					zap.Int("iterations", result.Iterations),
					zap.Int("score", result.Score),
				)
			}

			if database != nil {
				if err := database.SaveSectionResult(ctx, runID, result); err != nil {
					log.Warn("failed to persist section result",
						zap.String("section", name), zap.Error(err))
				}
			}
			return nil
		})
	}

	// Workers never return errors; soft failures live in the report.
	_ = g.Wait()

	status := db.StatusCompleted
	if len(report.FailedSections()) > 0 {
		status = db.StatusPartial
	}
	if database != nil {
		if err := database.CompleteRun(ctx, runID, status); err != nil {
			log.Warn("failed to record run completion", zap.Error(err))
		}
	}

	log.Info("optimization run finished",
		zap.String("run_id", runID.String()),
		zap.String("status", status),
		zap.Int("iterations", report.TotalIterations()),
		zap.Strings("failed_sections", report.FailedSections()),
	)

	if err := ctx.Err(); err != nil {
		return optimized, report, err
	}
	return optimized, report, nil
}
