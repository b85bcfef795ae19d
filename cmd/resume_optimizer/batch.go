package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Optimize a CSV of resume records",
	Long:  "Reads resume records from a CSV file (one per row, columns named like the record JSON fields, plus an optional job_description column), optimizes each through the feedback loop, and writes a copy of the CSV with optimized_* columns and a run_id appended.",
	RunE:  runBatch,
}

var (
	batchInputFile   string
	batchOutputDir   string
	batchMode        string
	batchConfigFile  string
	batchAPIKey      string
	batchDatabaseURL string
	batchVerbose     bool
	batchJSONLogs    bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchInputFile, "input", "i", "", "Path to input CSV file (required)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", ".", "Directory for the output CSV")
	batchCmd.Flags().StringVarP(&batchMode, "mode", "m", "", "Optimization mode: none, feedback_only, job_optimized (default inferred per row)")
	batchCmd.Flags().StringVarP(&batchConfigFile, "config", "c", "", "Path to JSON config file")
	batchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	batchCmd.Flags().StringVar(&batchDatabaseURL, "db-url", "", "PostgreSQL URL for persisting run results (optional)")
	batchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print detailed debug information")
	batchCmd.Flags().BoolVar(&batchJSONLogs, "json-logs", false, "Emit logs as JSON")

	if err := batchCmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(batchCmd)
}

// jobDescriptionColumn is the optional CSV column holding a per-row job posting.
const jobDescriptionColumn = "job_description"

func runBatch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(batchConfigFile)
	if err != nil {
		return err
	}
	if batchDatabaseURL == "" {
		batchDatabaseURL = cfg.DatabaseURL
	}

	rows, err := readBatchCSV(batchInputFile)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("input CSV has no data rows")
	}

	header := rows[0]
	columns, err := batchColumns(header)
	if err != nil {
		return err
	}

	zapLogger, err := newLogger(batchVerbose || cfg.Verbose, batchJSONLogs)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Rows that skip polishing never touch the API, so the key is only
	// resolved once a row actually needs the client.
	var client llm.Client
	ensureClient := func() error {
		if client != nil {
			return nil
		}
		apiKey, err := resolveAPIKey(batchAPIKey, cfg)
		if err != nil {
			return err
		}
		client, err = llm.NewClient(ctx, modelConfig(cfg), apiKey, retryPolicy(cfg))
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		return nil
	}
	defer func() {
		if client != nil {
			_ = client.Close()
		}
	}()

	polisherConfig, criticConfig := generationConfigs(cfg)

	output := [][]string{batchOutputHeader(header)}
	for i, row := range rows[1:] {
		record, jobDescription := recordFromRow(columns, row)

		mode, err := resolveMode(batchMode, jobDescription != "")
		if err != nil {
			return err
		}
		if mode.Polishes() {
			if err := ensureClient(); err != nil {
				return err
			}
		}

		optimized, report, err := pipeline.Run(ctx, pipeline.Options{
			Record:         record,
			JobDescription: jobDescription,
			Mode:           mode,
			PolisherConfig: polisherConfig,
			CriticConfig:   criticConfig,
			Threshold:      cfg.AcceptanceThreshold,
			Concurrency:    cfg.Concurrency,
			Client:         client,
			Logger:         zapLogger,
			DatabaseURL:    batchDatabaseURL,
		})
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}

		output = append(output, batchOutputRow(row, optimized, report))
	}

	outputPath := batchOutputPath(batchInputFile, batchOutputDir)
	if err := writeBatchCSV(outputPath, output); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d optimized record(s) to %s\n", len(output)-1, outputPath)
	return nil
}

func readBatchCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse input CSV: %w", err)
	}
	return rows, nil
}

func writeBatchCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write output CSV: %w", err)
	}
	return nil
}

// batchColumns maps header names to column indices. Contact columns are
// optional; the header must name at least one resume section, otherwise
// there is nothing to optimize.
func batchColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, section := range types.SectionNames() {
		if _, ok := columns[section]; ok {
			return columns, nil
		}
	}
	return nil, fmt.Errorf("input CSV has no resume section columns (expected one of: %s)",
		strings.Join(types.SectionNames(), ", "))
}

// recordFromRow builds a resume record from one CSV row, returning the row's
// job description alongside it.
func recordFromRow(columns map[string]int, row []string) (*types.ResumeRecord, string) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	record := &types.ResumeRecord{
		Name:  cell("name"),
		Email: cell("email"),
		Phone: cell("phone"),
	}
	for _, section := range types.SectionNames() {
		record.SetSection(section, cell(section))
	}

	return record, cell(jobDescriptionColumn)
}

// batchOutputHeader appends the optimized section columns and the run ID to
// the input header.
func batchOutputHeader(header []string) []string {
	out := append([]string{}, header...)
	for _, section := range types.SectionNames() {
		out = append(out, "optimized_"+section)
	}
	return append(out, "run_id")
}

// batchOutputRow appends each section's optimized content and the run ID to
// the input row.
func batchOutputRow(row []string, optimized *types.ResumeRecord, report *types.OptimizationReport) []string {
	out := append([]string{}, row...)
	for _, section := range types.SectionNames() {
		out = append(out, optimized.Section(section))
	}
	return append(out, report.RunID.String())
}

// batchOutputPath names the output file after the input with a timestamp so
// repeated experiments never clobber each other.
func batchOutputPath(inputPath, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(outputDir, fmt.Sprintf("%s_optimized_%s.csv", base, stamp))
}
