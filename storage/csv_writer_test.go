package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refund-evaluator/models"
)

func sampleEvaluations() []*models.Evaluation {
	invested := time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)
	return []*models.Evaluation{
		{
			Customer: models.Customer{
				Name:       "Ada",
				Location:   models.LocationUS,
				Source:     models.SourcePhone,
				SignupAt:   time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC),
				InvestedAt: invested,
				RefundedAt: invested.Add(3 * time.Hour),
			},
			ElapsedHours:      3,
			RefundWindowHours: 4,
			IsEligible:        true,
		},
		{
			Customer: models.Customer{
				Name:       "Bruno",
				Location:   models.LocationEurope,
				Source:     models.SourceWebApp,
				SignupAt:   time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC),
				InvestedAt: invested,
				RefundedAt: invested.Add(17*time.Hour + 30*time.Minute),
			},
			ElapsedHours:      17.5,
			RefundWindowHours: 16,
			IsEligible:        false,
		},
	}
}

func TestCSVWriterWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	runID := uuid.New()
	require.NoError(t, w.Write(context.Background(), runID, sampleEvaluations()))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"run_id,name,location,source,signup_date,invested_at,refunded_at,elapsed_hours,refund_window_hours,verdict",
		lines[0])
	assert.Equal(t,
		runID.String()+",Ada,US,phone,01/01/2019,10/01/2024 10:00,10/01/2024 13:00,3.00,4,Valid",
		lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",17.50,16,Invalid"), lines[2])
}
