package rendering

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CountPDFPages counts the number of pages in a PDF file.
// It tries pdfinfo first, then falls back to ghostscript.
func CountPDFPages(pdfPath string) (int, error) {
	if count, err := countPagesWithPdfinfo(pdfPath); err == nil {
		return count, nil
	}

	if count, err := countPagesWithGhostscript(pdfPath); err == nil {
		return count, nil
	}

	return 0, fmt.Errorf("failed to count PDF pages: neither pdfinfo nor ghostscript available")
}

// countPagesWithPdfinfo uses pdfinfo (poppler-utils) to count PDF pages.
func countPagesWithPdfinfo(pdfPath string) (int, error) {
	output, err := exec.Command("pdfinfo", pdfPath).Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo command failed: %w", err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				if count, err := strconv.Atoi(parts[1]); err == nil {
					return count, nil
				}
			}
		}
	}

	return 0, fmt.Errorf("could not parse page count from pdfinfo output")
}

// countPagesWithGhostscript uses ghostscript to count PDF pages.
func countPagesWithGhostscript(pdfPath string) (int, error) {
	script := fmt.Sprintf("(%s) (r) file runpdfbegin pdfpagecount = quit", pdfPath)
	output, err := exec.Command("gs", "-q", "-dNODISPLAY", "-c", script).Output()
	if err != nil {
		return 0, fmt.Errorf("ghostscript command failed: %w", err)
	}

	outputStr := strings.TrimSpace(string(output))
	count, err := strconv.Atoi(outputStr)
	if err != nil {
		return 0, fmt.Errorf("could not parse page count from ghostscript output: %s", outputStr)
	}

	return count, nil
}
