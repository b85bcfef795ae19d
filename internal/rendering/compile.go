package rendering

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CompilationTimeout is the maximum time to wait for LaTeX compilation
const CompilationTimeout = 30 * time.Second

// CompileResult holds the outcome of a pdflatex run
type CompileResult struct {
	PDFPath string
	Log     string
}

// CompilePDF compiles LaTeX source to a PDF in outputDir using pdflatex.
// baseName names the .tex and .pdf files. The compilation log is returned
// even on failure so callers can surface it.
func CompilePDF(latex, outputDir, baseName string) (*CompileResult, error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return nil, &CompilationError{
			Message: "pdflatex not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)",
			Cause:   err,
		}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, &CompilationError{
			Message: fmt.Sprintf("failed to create output directory: %s", outputDir),
			Cause:   err,
		}
	}

	texPath := filepath.Join(outputDir, baseName+".tex")
	if err := os.WriteFile(texPath, []byte(latex), 0644); err != nil {
		return nil, &CompilationError{
			Message: fmt.Sprintf("failed to write LaTeX file: %s", texPath),
			Cause:   err,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), CompilationTimeout)
	defer cancel()

	// nonstopmode prevents pdflatex from waiting on interactive prompts
	cmd := exec.CommandContext(ctx, "pdflatex",
		"-interaction=nonstopmode", "-output-directory", outputDir, texPath)

	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()
	result := &CompileResult{
		PDFPath: filepath.Join(outputDir, baseName+".pdf"),
		Log:     output.String(),
	}

	if runErr != nil {
		return result, &CompilationError{
			Message: "pdflatex failed",
			Cause:   runErr,
		}
	}

	if _, err := os.Stat(result.PDFPath); err != nil {
		return result, &CompilationError{
			Message: "pdflatex reported success but produced no PDF",
			Cause:   err,
		}
	}

	return result, nil
}
