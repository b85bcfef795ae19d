package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/types"
)

func TestBatchColumns(t *testing.T) {
	columns, err := batchColumns([]string{"Name", " email", "summary", "job_description"})
	require.NoError(t, err)

	assert.Equal(t, 0, columns["name"])
	assert.Equal(t, 1, columns["email"])
	assert.Equal(t, 3, columns["job_description"])
}

func TestBatchColumns_SectionsOnly(t *testing.T) {
	columns, err := batchColumns([]string{"summary", "skills", "work_experience", "projects", "job_description"})
	require.NoError(t, err)
	assert.Equal(t, 0, columns["summary"])
	assert.Equal(t, 4, columns["job_description"])
}

func TestBatchColumns_NoSections(t *testing.T) {
	_, err := batchColumns([]string{"name", "email", "phone"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resume section columns")
}

func TestRecordFromRow(t *testing.T) {
	columns, err := batchColumns([]string{"name", "email", "summary", "skills", "job_description"})
	require.NoError(t, err)

	record, job := recordFromRow(columns, []string{
		"Ada Lovelace", "ada@example.com", "Engineer.", "Go, SQL", "Looking for a Go engineer",
	})

	assert.Equal(t, "Ada Lovelace", record.Name)
	assert.Equal(t, "ada@example.com", record.Email)
	assert.Equal(t, "Engineer.", record.Summary)
	assert.Equal(t, "Go, SQL", record.Skills)
	assert.Empty(t, record.WorkExperience)
	assert.Equal(t, "Looking for a Go engineer", job)
}

func TestRecordFromRow_ShortRow(t *testing.T) {
	columns, err := batchColumns([]string{"name", "email", "summary"})
	require.NoError(t, err)

	record, job := recordFromRow(columns, []string{"Ada"})
	assert.Equal(t, "Ada", record.Name)
	assert.Empty(t, record.Email)
	assert.Empty(t, job)
}

func TestBatchOutputHeaderAndRow(t *testing.T) {
	header := batchOutputHeader([]string{"name", "summary"})
	require.Len(t, header, 2+len(types.SectionNames())+1)
	assert.Equal(t, "optimized_summary", header[2])
	assert.Equal(t, "run_id", header[len(header)-1])

	record := &types.ResumeRecord{Name: "Ada", Summary: "Polished summary."}
	report := &types.OptimizationReport{RunID: uuid.New()}

	row := batchOutputRow([]string{"Ada", "Original summary."}, record, report)
	require.Len(t, row, len(header))
	assert.Equal(t, "Polished summary.", row[2])
	assert.Equal(t, report.RunID.String(), row[len(row)-1])
}

func TestBatchOutputPath(t *testing.T) {
	path := batchOutputPath("/data/candidates.csv", "/tmp/out")

	assert.True(t, strings.HasPrefix(path, "/tmp/out/candidates_optimized_"))
	assert.True(t, strings.HasSuffix(path, ".csv"))
}

func TestRunBatch_ModeNoneNeedsNoAPIKey(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "candidates.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(
		"name,summary,skills\nAda Lovelace,Engineer.,\"Go, SQL\"\n",
	), 0644))

	t.Setenv("GEMINI_API_KEY", "")
	batchInputFile = inputPath
	batchOutputDir = dir
	batchMode = "none"
	defer func() {
		batchInputFile = ""
		batchOutputDir = "."
		batchMode = ""
	}()

	require.NoError(t, runBatch(nil, nil))

	matches, err := filepath.Glob(filepath.Join(dir, "candidates_optimized_*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Mode none carries sections through unchanged.
	assert.Equal(t, "Engineer.", rows[1][1])
	assert.Equal(t, "Engineer.", rows[1][3])
}

func TestResolveMode(t *testing.T) {
	mode, err := resolveMode("", true)
	require.NoError(t, err)
	assert.Equal(t, types.ModeJobOptimized, mode)

	mode, err = resolveMode("", false)
	require.NoError(t, err)
	assert.Equal(t, types.ModeFeedbackOnly, mode)

	mode, err = resolveMode("none", true)
	require.NoError(t, err)
	assert.Equal(t, types.ModeNone, mode)

	_, err = resolveMode("aggressive", false)
	assert.Error(t, err)
}
