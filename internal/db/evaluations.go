package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/brand-compliance/internal/types"
)

// Evaluation is a stored evaluation result
type Evaluation struct {
	ID         uuid.UUID              `json:"id"`
	BrandID    string                 `json:"brandId"`
	DocumentID string                 `json:"documentId"`
	TotalScore int                    `json:"totalScore"`
	Result     types.EvaluationResult `json:"result"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// SaveEvaluation records an evaluation result and returns its ID
func (db *DB) SaveEvaluation(ctx context.Context, brandID string, result *types.EvaluationResult) (uuid.UUID, error) {
	if result == nil {
		return uuid.Nil, fmt.Errorf("evaluation result is required")
	}
	content, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO evaluations (id, brand_id, document_id, total_score, result)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, brandID, result.DocumentID, result.Score.Total, content,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save evaluation: %w", err)
	}
	return id, nil
}

// GetEvaluation retrieves a stored evaluation, or nil if it does not exist
func (db *DB) GetEvaluation(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	var e Evaluation
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, brand_id, document_id, total_score, result, created_at
		 FROM evaluations WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.BrandID, &e.DocumentID, &e.TotalScore, &content, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	if err := json.Unmarshal(content, &e.Result); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation: %w", err)
	}
	return &e, nil
}
