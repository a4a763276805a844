// Package report renders evaluation results for people: an HTML table and a
// PDF printed from it.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"refund-evaluator/models"
)

//go:embed tmpl/*.tmpl
var tmplFS embed.FS

// Page is the data the evaluations template renders.
type Page struct {
	Title       string
	RunID       uuid.UUID
	Evaluations []*models.Evaluation
	Failures    []*models.RecordError
	Summary     *models.Summary
}

var funcMap = template.FuncMap{
	"date":     func(t time.Time) string { return t.Format("02/01/2006") },
	"datetime": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	"rowClass": func(eligible bool) string {
		if eligible {
			return "valid"
		}
		return "invalid"
	},
}

// RenderHTML executes the evaluations template.
func RenderHTML(page Page) ([]byte, error) {
	t, err := template.New("").Funcs(funcMap).ParseFS(tmplFS, "tmpl/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("report: parse templates: %w", err)
	}

	if page.Summary == nil {
		page.Summary = &models.Summary{}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "evaluations.tmpl", page); err != nil {
		return nil, fmt.Errorf("report: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML renders page and writes it to path, creating parent directories.
func WriteHTML(path string, page Page) error {
	html, err := RenderHTML(page)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	if err := os.WriteFile(path, html, 0644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}
	return nil
}
