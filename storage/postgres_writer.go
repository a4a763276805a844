package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"refund-evaluator/models"
	"refund-evaluator/utils"
)

// PostgresWriter persists evaluation runs to PostgreSQL.
type PostgresWriter struct {
	db *sqlx.DB
}

// evaluationRow mirrors one row of the refund_evaluations table.
type evaluationRow struct {
	ID                int64     `db:"id"`
	RunID             uuid.UUID `db:"run_id"`
	Name              string    `db:"name"`
	Location          string    `db:"location"`
	Source            string    `db:"source"`
	SignupAt          time.Time `db:"signup_at"`
	InvestedAt        time.Time `db:"invested_at"`
	RefundedAt        time.Time `db:"refunded_at"`
	ElapsedHours      float64   `db:"elapsed_hours"`
	RefundWindowHours int       `db:"refund_window_hours"`
	IsEligible        bool      `db:"is_eligible"`
	CreatedAt         time.Time `db:"created_at"`
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter. The first ping is retried
// according to retry.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS refund_evaluations (
			id                  SERIAL PRIMARY KEY,
			run_id              UUID             NOT NULL,
			name                TEXT             NOT NULL,
			location            VARCHAR(16)      NOT NULL,
			source              VARCHAR(16)      NOT NULL,
			signup_at           TIMESTAMP        NOT NULL,
			invested_at         TIMESTAMP        NOT NULL,
			refunded_at         TIMESTAMP        NOT NULL,
			elapsed_hours       DOUBLE PRECISION NOT NULL,
			refund_window_hours INTEGER          NOT NULL,
			is_eligible         BOOLEAN          NOT NULL,
			created_at          TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_refund_evaluations_run_id   ON refund_evaluations(run_id);
		CREATE INDEX IF NOT EXISTS idx_refund_evaluations_eligible ON refund_evaluations(is_eligible);
	`)
	return err
}

// Write batch-inserts every evaluation of a run.
func (pw *PostgresWriter) Write(ctx context.Context, runID uuid.UUID, evals []*models.Evaluation) error {
	const batchSize = 50
	for i := 0; i < len(evals); i += batchSize {
		end := i + batchSize
		if end > len(evals) {
			end = len(evals)
		}
		if err := pw.insertBatch(ctx, runID, evals[i:end]); err != nil {
			return fmt.Errorf("postgres: insert: %w", err)
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, runID uuid.UUID, batch []*models.Evaluation) error {
	const cols = 10
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, e := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, e.Name, string(e.Location), string(e.Source),
			e.SignupAt, e.InvestedAt, e.RefundedAt,
			e.ElapsedHours, e.RefundWindowHours, e.IsEligible)
	}

	query := fmt.Sprintf(`
		INSERT INTO refund_evaluations
			(run_id, name, location, source, signup_at, invested_at, refunded_at,
			 elapsed_hours, refund_window_hours, is_eligible)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.ExecContext(ctx, query, valueArgs...)
	return err
}

// DeleteRun removes every stored evaluation for the given run.
func (pw *PostgresWriter) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	if _, err := pw.db.ExecContext(ctx, "DELETE FROM refund_evaluations WHERE run_id = $1", runID); err != nil {
		return fmt.Errorf("postgres: delete run: %w", err)
	}
	return nil
}

// FetchRun retrieves the evaluations stored for a run in insertion order.
func (pw *PostgresWriter) FetchRun(ctx context.Context, runID uuid.UUID) ([]*models.Evaluation, error) {
	var rows []evaluationRow
	err := pw.db.SelectContext(ctx, &rows, `
		SELECT id, run_id, name, location, source, signup_at, invested_at, refunded_at,
		       elapsed_hours, refund_window_hours, is_eligible, created_at
		FROM refund_evaluations
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch run: %w", err)
	}

	evals := make([]*models.Evaluation, 0, len(rows))
	for _, r := range rows {
		evals = append(evals, &models.Evaluation{
			Customer: models.Customer{
				Name:       r.Name,
				Location:   models.Location(r.Location),
				Source:     models.Source(r.Source),
				SignupAt:   wallClock(r.SignupAt),
				InvestedAt: wallClock(r.InvestedAt),
				RefundedAt: wallClock(r.RefundedAt),
			},
			ElapsedHours:      r.ElapsedHours,
			RefundWindowHours: r.RefundWindowHours,
			IsEligible:        r.IsEligible,
		})
	}
	return evals, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// wallClock re-reads a TIMESTAMP column as the UTC wall clock it was stored as.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
