package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"refund-evaluator/models"
)

const csvTimeLayout = "02/01/2006 15:04"

// evaluationCSV is one row of the results export.
type evaluationCSV struct {
	RunID             string `csv:"run_id"`
	Name              string `csv:"name"`
	Location          string `csv:"location"`
	Source            string `csv:"source"`
	SignupDate        string `csv:"signup_date"`
	InvestedAt        string `csv:"invested_at"`
	RefundedAt        string `csv:"refunded_at"`
	ElapsedHours      string `csv:"elapsed_hours"`
	RefundWindowHours int    `csv:"refund_window_hours"`
	Verdict           string `csv:"verdict"`
}

// CSVWriter exports evaluations to a CSV file.
type CSVWriter struct {
	file *os.File
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f}, nil
}

// Write writes a header row followed by one row per evaluation.
func (c *CSVWriter) Write(_ context.Context, runID uuid.UUID, evals []*models.Evaluation) error {
	rows := make([]*evaluationCSV, 0, len(evals))
	for _, e := range evals {
		rows = append(rows, &evaluationCSV{
			RunID:             runID.String(),
			Name:              e.Name,
			Location:          string(e.Location),
			Source:            string(e.Source),
			SignupDate:        e.SignupAt.Format("02/01/2006"),
			InvestedAt:        e.InvestedAt.Format(csvTimeLayout),
			RefundedAt:        e.RefundedAt.Format(csvTimeLayout),
			ElapsedHours:      strconv.FormatFloat(e.ElapsedHours, 'f', 2, 64),
			RefundWindowHours: e.RefundWindowHours,
			Verdict:           e.Verdict(),
		})
	}

	if err := gocsv.Marshal(&rows, c.file); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (c *CSVWriter) Close() error {
	return c.file.Close()
}
