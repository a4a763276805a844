package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refund-evaluator/utils"
)

func newTestLoader() *Loader { return NewLoader(utils.NewLoggerWithLevel("error")) }

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"customers.csv", FormatCSV, false},
		{"customers.YAML", FormatYAML, false},
		{"dir/customers.yml", FormatYAML, false},
		{"customers.json", FormatJSON, false},
		{"customers.txt", "", true},
		{"customers", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestDecodeCSV(t *testing.T) {
	in := "name,location,signup_date,source,investment_date,investment_time,refund_date,refund_time\n" +
		"Ada,US,01/01/2019,phone,01/10/2024,10:00,01/10/2024,13:00\n" +
		"Bruno,Europe,15/03/2021,web-app,01/06/2024,09:00,02/06/2024,00:00\n"

	records, err := newTestLoader().Decode(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Ada", records[0].Name)
	assert.Equal(t, "US", records[0].Location)
	assert.Equal(t, "01/10/2024", records[0].InvestmentDate)
	assert.Equal(t, "13:00", records[0].RefundTime)
	assert.Equal(t, "web-app", records[1].Source)
	assert.Equal(t, "15/03/2021", records[1].SignupDate)
}

func TestDecodeJSON(t *testing.T) {
	in := `[{"name":"Ada","location":"US","signup_date":"01/01/2019","source":"phone",
		"investment_date":"01/10/2024","investment_time":"10:00",
		"refund_date":"01/10/2024","refund_time":"13:00"}]`

	records, err := newTestLoader().Decode(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "phone", records[0].Source)
	assert.Equal(t, "10:00", records[0].InvestmentTime)
}

func TestDecodeYAML(t *testing.T) {
	in := `
- name: Ada
  location: US
  signup_date: 01/01/2019
  source: phone
  investment_date: 01/10/2024
  investment_time: "10:00"
  refund_date: 01/10/2024
  refund_time: "13:00"
`
	records, err := newTestLoader().Decode(strings.NewReader(in), FormatYAML)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "01/01/2019", records[0].SignupDate)
}

func TestDecodeEmptyYAML(t *testing.T) {
	records, err := newTestLoader().Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := newTestLoader().Decode(strings.NewReader("{not json"), FormatJSON)
	assert.Error(t, err)

	_, err = newTestLoader().Decode(strings.NewReader("x"), Format("xml"))
	assert.Error(t, err)
}

func TestLoadDefault(t *testing.T) {
	records, err := newTestLoader().LoadDefault()
	require.NoError(t, err)
	require.Len(t, records, 8)

	for _, r := range records {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.InvestmentTime)
		assert.NotEmpty(t, r.RefundTime)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Ada","location":"US"}]`), 0o644))

	records, err := newTestLoader().LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ada", records[0].Name)

	_, err = newTestLoader().LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
