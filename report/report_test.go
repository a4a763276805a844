package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refund-evaluator/models"
	"refund-evaluator/utils"
)

func samplePage() Page {
	invested := time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)
	return Page{
		Title: "Refund requests",
		RunID: uuid.MustParse("8f14e45f-ceea-4e6a-9e2b-1c1d2a3b4c5d"),
		Evaluations: []*models.Evaluation{
			{
				Customer: models.Customer{
					Name:       "Ada <admin>",
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
					InvestedAt: invested,
					RefundedAt: invested.Add(20 * time.Hour),
				},
				ElapsedHours:      20,
				RefundWindowHours: 16,
			},
		},
		Failures: []*models.RecordError{
			{Index: 2, Name: "Carl", Field: models.FieldSource, Err: fmt.Errorf("%w: %q", models.ErrInvalidSource, "mail")},
		},
		Summary: &models.Summary{Valid: 1, Invalid: 1, Failed: 1},
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(samplePage())
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, "<title>Refund requests</title>")
	assert.Contains(t, out, "8f14e45f-ceea-4e6a-9e2b-1c1d2a3b4c5d")
	assert.Contains(t, out, `<tr class="valid">`)
	assert.Contains(t, out, `<tr class="invalid">`)
	assert.Contains(t, out, `<tr class="failed">`)
	assert.Contains(t, out, "10/01/2024 13:00")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "Ada &lt;admin&gt;")
	assert.NotContains(t, out, "Ada <admin>")
	assert.Equal(t, 1, strings.Count(out, "Valid</td>"))
}

func TestRenderHTMLWithoutSummary(t *testing.T) {
	p := samplePage()
	p.Summary = nil

	_, err := RenderHTML(p)
	require.NoError(t, err)
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.html")
	require.NoError(t, WriteHTML(path, samplePage()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<table>")
}

func TestPDFExport(t *testing.T) {
	if findChromeBinary() == "" && os.Getenv("CHROME_BIN") == "" {
		t.Skip("Skipping PDF export - no Chrome binary available")
	}

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "report.html")
	pdfPath := filepath.Join(dir, "report.pdf")
	require.NoError(t, WriteHTML(htmlPath, samplePage()))

	exp := NewPDFExporter(os.Getenv("CHROME_BIN"), utils.NewLoggerWithLevel("error"))
	require.NoError(t, exp.Export(context.Background(), htmlPath, pdfPath))

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
