package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/checking"
	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/rendering"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume record to LaTeX or PDF",
	Long:  "Renders a resume record JSON file to LaTeX source using the embedded template or a custom one, optionally compiles it to PDF with pdflatex, and optionally runs an AI quality check over the result.",
	RunE:  runRender,
}

var (
	renderResumeFile   string
	renderTemplateFile string
	renderOutputFile   string
	renderPDF          bool
	renderOutputDir    string
	renderCheck        bool
	renderConfigFile   string
	renderAPIKey       string
)

func init() {
	renderCmd.Flags().StringVarP(&renderResumeFile, "resume", "r", "", "Path to resume record JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplateFile, "template", "t", "", "Path to LaTeX template file (default: embedded template)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output LaTeX file (default: <resume>.tex in --output-dir)")
	renderCmd.Flags().BoolVar(&renderPDF, "pdf", false, "Compile the LaTeX output to PDF with pdflatex")
	renderCmd.Flags().StringVar(&renderOutputDir, "output-dir", ".", "Directory for rendered output")
	renderCmd.Flags().BoolVar(&renderCheck, "check", false, "Run an AI quality check over the rendered content")
	renderCmd.Flags().StringVarP(&renderConfigFile, "config", "c", "", "Path to JSON config file")
	renderCmd.Flags().StringVar(&renderAPIKey, "api-key", "", "Gemini API key, used with --check (defaults to GEMINI_API_KEY)")

	if err := renderCmd.MarkFlagRequired("resume"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(renderConfigFile)
	if err != nil {
		return err
	}
	if renderTemplateFile == "" {
		renderTemplateFile = cfg.Template
	}

	record, err := loadRecord(renderResumeFile)
	if err != nil {
		return err
	}

	latex, err := rendering.RenderLaTeX(record, renderTemplateFile)
	if err != nil {
		return err
	}

	baseName := strings.TrimSuffix(filepath.Base(renderResumeFile), filepath.Ext(renderResumeFile))

	texPath := renderOutputFile
	if texPath == "" {
		texPath = filepath.Join(renderOutputDir, baseName+".tex")
	}
	if err := os.MkdirAll(filepath.Dir(texPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(texPath, []byte(latex), 0644); err != nil {
		return fmt.Errorf("failed to write LaTeX output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", texPath)

	if renderPDF {
		result, err := rendering.CompilePDF(latex, renderOutputDir, baseName)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", result.PDFPath)

		if pages, err := rendering.CountPDFPages(result.PDFPath); err == nil && float64(pages) > checking.MaxPages {
			fmt.Fprintf(os.Stderr, "Warning: resume is %d pages (target: %.0f)\n", pages, checking.MaxPages)
		}
	}

	if renderCheck {
		if err := runQualityCheck(ctx, cfg, latex); err != nil {
			return err
		}
	}

	return nil
}

// runQualityCheck reviews the rendered LaTeX and prints the verdict. A NO
// verdict is reported through the exit code so scripts can gate on it.
func runQualityCheck(ctx context.Context, cfg config.Config, latex string) error {
	apiKey, err := resolveAPIKey(renderAPIKey, cfg)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, modelConfig(cfg), apiKey, retryPolicy(cfg))
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	result, err := checking.NewChecker(client).CheckResume(ctx, latex)
	if err != nil {
		return fmt.Errorf("quality check failed: %w", err)
	}

	observability.NewPrinter(os.Stderr).PrintCheckResult(result)

	if !result.Approved {
		return fmt.Errorf("resume did not pass the quality check")
	}
	return nil
}
