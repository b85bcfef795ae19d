package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// SaveSectionResult stores the outcome for one section of a run.
// Re-saving a section overwrites the earlier row.
func (db *DB) SaveSectionResult(ctx context.Context, runID uuid.UUID, result types.OptimizationResult) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO section_results (run_id, section, original, optimized, feedback, score, iterations, failure)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (run_id, section) DO UPDATE
		 SET original = $3, optimized = $4, feedback = $5, score = $6, iterations = $7, failure = $8, created_at = NOW()`,
		runID, result.Section, result.Original, result.Optimized,
		result.Feedback, result.Score, result.Iterations, result.Failure,
	)
	if err != nil {
		return fmt.Errorf("failed to save section result %s: %w", result.Section, err)
	}
	return nil
}

// GetSectionResult retrieves one section's stored outcome for a run.
// Returns nil without error when the section has no row.
func (db *DB) GetSectionResult(ctx context.Context, runID uuid.UUID, section string) (*types.OptimizationResult, error) {
	var result types.OptimizationResult
	err := db.pool.QueryRow(ctx,
		`SELECT section, original, optimized, feedback, score, iterations, failure
		 FROM section_results WHERE run_id = $1 AND section = $2`,
		runID, section,
	).Scan(&result.Section, &result.Original, &result.Optimized,
		&result.Feedback, &result.Score, &result.Iterations, &result.Failure)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get section result %s: %w", section, err)
	}
	return &result, nil
}

// GetRunSections retrieves all stored section outcomes for a run, keyed by section.
func (db *DB) GetRunSections(ctx context.Context, runID uuid.UUID) (map[string]types.OptimizationResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT section, original, optimized, feedback, score, iterations, failure
		 FROM section_results WHERE run_id = $1`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query section results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]types.OptimizationResult)
	for rows.Next() {
		var result types.OptimizationResult
		if err := rows.Scan(&result.Section, &result.Original, &result.Optimized,
			&result.Feedback, &result.Score, &result.Iterations, &result.Failure); err != nil {
			return nil, fmt.Errorf("failed to scan section result: %w", err)
		}
		results[result.Section] = result
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading section results: %w", err)
	}
	return results, nil
}
