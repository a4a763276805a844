package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"refund-evaluator/models"
	"refund-evaluator/utils"
)

//go:embed data/customers.yaml
var defaultCustomers []byte

// Format identifies an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath detects the input format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("loader: unsupported file extension %q", filepath.Ext(path))
}

// Loader reads raw customer records from files or the embedded default batch.
type Loader struct {
	logger *utils.Logger
}

func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadFile reads raw customers from path, picking the decoder by extension.
func (l *Loader) LoadFile(path string) ([]*models.RawCustomer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %q: %w", path, err)
	}
	defer f.Close()

	records, err := l.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	l.logger.Info("[loader] Loaded %d records from %s", len(records), path)
	return records, nil
}

// LoadDefault returns the embedded default batch.
func (l *Loader) LoadDefault() ([]*models.RawCustomer, error) {
	records, err := l.Decode(bytes.NewReader(defaultCustomers), FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("loader: default batch: %w", err)
	}
	l.logger.Info("[loader] Loaded %d records from the built-in batch", len(records))
	return records, nil
}

// Decode parses raw customers from r in the given format.
func (l *Loader) Decode(r io.Reader, format Format) ([]*models.RawCustomer, error) {
	var records []*models.RawCustomer

	switch format {
	case FormatCSV:
		if err := gocsv.Unmarshal(r, &records); err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	l.warnDuplicateNames(records)
	return records, nil
}

// warnDuplicateNames flags names that appear more than once; the display
// uses names as row keys.
func (l *Loader) warnDuplicateNames(records []*models.RawCustomer) {
	names := utils.NewNameSet()
	for i, r := range records {
		if r == nil {
			continue
		}
		if !names.Add(strings.TrimSpace(r.Name)) {
			l.logger.Warn("[loader] Duplicate customer name %q at record %d", r.Name, i)
		}
	}
}
