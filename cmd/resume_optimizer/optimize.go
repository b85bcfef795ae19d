package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/types"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize resume content through the polish/critique loop",
	Long:  "Rewrites every non-empty resume section through the polisher and critic agents. With a job posting the loop targets the posting and re-polishes sections the critic scores below the acceptance threshold.",
	RunE:  runOptimize,
}

var (
	optimizeResumeFile  string
	optimizeJobFile     string
	optimizeMode        string
	optimizeConfigFile  string
	optimizeOutputFile  string
	optimizeReportFile  string
	optimizeThreshold   int
	optimizeConcurrency int
	optimizeAPIKey      string
	optimizeDatabaseURL string
	optimizeVerbose     bool
	optimizeJSONLogs    bool
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeResumeFile, "resume", "r", "", "Path to resume record JSON file (required)")
	optimizeCmd.Flags().StringVarP(&optimizeJobFile, "job", "j", "", "Path to job posting text file (enables job-targeted optimization)")
	optimizeCmd.Flags().StringVarP(&optimizeMode, "mode", "m", "", "Optimization mode: none, feedback_only, job_optimized (default inferred from --job)")
	optimizeCmd.Flags().StringVarP(&optimizeConfigFile, "config", "c", "", "Path to JSON config file")
	optimizeCmd.Flags().StringVarP(&optimizeOutputFile, "out", "o", "-", "Path to output record JSON ('-' for stdout)")
	optimizeCmd.Flags().StringVar(&optimizeReportFile, "report", "", "Path to write the optimization report JSON (optional)")
	optimizeCmd.Flags().IntVar(&optimizeThreshold, "threshold", 0, "Critic score accepted without re-polish, 1-100 (default 70)")
	optimizeCmd.Flags().IntVar(&optimizeConcurrency, "concurrency", 0, "Sections optimized in parallel (default 3)")
	optimizeCmd.Flags().StringVar(&optimizeAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	optimizeCmd.Flags().StringVar(&optimizeDatabaseURL, "db-url", "", "PostgreSQL URL for persisting run results (optional)")
	optimizeCmd.Flags().BoolVarP(&optimizeVerbose, "verbose", "v", false, "Print detailed debug information")
	optimizeCmd.Flags().BoolVar(&optimizeJSONLogs, "json-logs", false, "Emit logs as JSON")

	if err := optimizeCmd.MarkFlagRequired("resume"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(optimizeConfigFile)
	if err != nil {
		return err
	}
	if optimizeJobFile == "" {
		optimizeJobFile = cfg.Job
	}
	if optimizeDatabaseURL == "" {
		optimizeDatabaseURL = cfg.DatabaseURL
	}
	if optimizeDatabaseURL == "" {
		optimizeDatabaseURL = os.Getenv("DATABASE_URL")
	}
	if optimizeThreshold == 0 {
		optimizeThreshold = cfg.AcceptanceThreshold
	}
	if optimizeConcurrency == 0 {
		optimizeConcurrency = cfg.Concurrency
	}

	record, err := loadRecord(optimizeResumeFile)
	if err != nil {
		return err
	}

	jobDescription, err := loadJobDescription(optimizeJobFile)
	if err != nil {
		return err
	}

	mode, err := resolveMode(optimizeMode, jobDescription != "")
	if err != nil {
		return err
	}
	if mode == types.ModeJobOptimized && jobDescription == "" {
		return fmt.Errorf("job_optimized mode requires --job")
	}

	zapLogger, err := newLogger(optimizeVerbose || cfg.Verbose, optimizeJSONLogs)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	var client llm.Client
	if mode.Polishes() {
		apiKey, err := resolveAPIKey(optimizeAPIKey, cfg)
		if err != nil {
			return err
		}
		client, err = llm.NewClient(ctx, modelConfig(cfg), apiKey, retryPolicy(cfg))
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
	}

	polisherConfig, criticConfig := generationConfigs(cfg)

	optimized, report, err := pipeline.Run(ctx, pipeline.Options{
		Record:         record,
		JobDescription: jobDescription,
		Mode:           mode,
		PolisherConfig: polisherConfig,
		CriticConfig:   criticConfig,
		Threshold:      optimizeThreshold,
		Concurrency:    optimizeConcurrency,
		Client:         client,
		Logger:         zapLogger,
		DatabaseURL:    optimizeDatabaseURL,
	})
	if err != nil {
		return err
	}

	if err := writeJSON(optimizeOutputFile, optimized); err != nil {
		return err
	}
	if optimizeReportFile != "" {
		if err := writeJSON(optimizeReportFile, report); err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(os.Stderr)
	printer.PrintReport(report)
	if optimizeVerbose || cfg.Verbose {
		printer.PrintSectionFeedback(report)
	}
	return nil
}
