package storage

import (
	"context"

	"github.com/google/uuid"

	"refund-evaluator/models"
)

// EvaluationWriter is the interface any results backend must satisfy.
type EvaluationWriter interface {
	Write(ctx context.Context, runID uuid.UUID, evals []*models.Evaluation) error
	Close() error
}

var (
	_ EvaluationWriter = (*CSVWriter)(nil)
	_ EvaluationWriter = (*PostgresWriter)(nil)
)
