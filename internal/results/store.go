// internal/results/store.go

// Package results persists finished assessment results in postgres. A result
// row is written exactly once; retried pipeline runs for the same result id
// are no-ops.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"careercompass-workers/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts the bundle. Returns (false, nil) when a row with the same
// result id already exists, so a retried job completes without duplicating.
func (s *Store) Save(ctx context.Context, bundle *models.ResultBundle) (bool, error) {
	rawScores, err := json.Marshal(bundle.RawScores)
	if err != nil {
		return false, fmt.Errorf("encode raw scores: %w", err)
	}
	normalized, err := json.Marshal(bundle.NormalizedScores)
	if err != nil {
		return false, fmt.Errorf("encode normalized scores: %w", err)
	}
	codes, err := json.Marshal(bundle.RiasecCodes)
	if err != nil {
		return false, fmt.Errorf("encode riasec codes: %w", err)
	}
	profile, err := json.Marshal(bundle.Profile)
	if err != nil {
		return false, fmt.Errorf("encode profile: %w", err)
	}
	matches, err := json.Marshal(bundle.Matches)
	if err != nil {
		return false, fmt.Errorf("encode matches: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO results (id, assessment_id, user_id, raw_scores, normalized_scores, riasec_codes, profile, matches, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		bundle.ResultID, bundle.AssessmentID, bundle.UserID,
		rawScores, normalized, codes, profile, matches, bundle.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert result %s: %w", bundle.ResultID, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert result %s: %w", bundle.ResultID, err)
	}
	return inserted > 0, nil
}

// Get returns the stored bundle, or (nil, nil) when the result does not
// exist yet. A pending pipeline run and an unknown id look the same here.
func (s *Store) Get(ctx context.Context, resultID string) (*models.ResultBundle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, assessment_id, user_id, raw_scores, normalized_scores, riasec_codes, profile, matches, created_at
		FROM results WHERE id = $1`, resultID)

	var bundle models.ResultBundle
	var rawScores, normalized, codes, profile, matches []byte
	err := row.Scan(&bundle.ResultID, &bundle.AssessmentID, &bundle.UserID,
		&rawScores, &normalized, &codes, &profile, &matches, &bundle.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load result %s: %w", resultID, err)
	}

	if err := json.Unmarshal(rawScores, &bundle.RawScores); err != nil {
		return nil, fmt.Errorf("decode result %s raw scores: %w", resultID, err)
	}
	if err := json.Unmarshal(normalized, &bundle.NormalizedScores); err != nil {
		return nil, fmt.Errorf("decode result %s normalized scores: %w", resultID, err)
	}
	if err := json.Unmarshal(codes, &bundle.RiasecCodes); err != nil {
		return nil, fmt.Errorf("decode result %s riasec codes: %w", resultID, err)
	}
	if err := json.Unmarshal(profile, &bundle.Profile); err != nil {
		return nil, fmt.Errorf("decode result %s profile: %w", resultID, err)
	}
	if err := json.Unmarshal(matches, &bundle.Matches); err != nil {
		return nil, fmt.Errorf("decode result %s matches: %w", resultID, err)
	}

	return &bundle, nil
}
