package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Client Profitability",
		Columns: []string{"Client", "Hours", "Margin"},
		Rows: []map[string]string{
			{"Client": "Acme", "Hours": "20.0", "Margin": "2500.00"},
			{"Client": "Globex", "Hours": "8.5", "Margin": "-120.00"},
		},
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := Render(sampleDataset(), FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Client,Hours,Margin", lines[0])
	assert.Equal(t, "Acme,20.0,2500.00", lines[1])
	assert.Equal(t, "Globex,8.5,-120.00", lines[2])
}

func TestRenderPDF(t *testing.T) {
	out, err := Render(sampleDataset(), FormatPDF)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestRenderRejectsEmptyColumns(t *testing.T) {
	_, err := Render(Dataset{}, FormatCSV)
	assert.Error(t, err)
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := Render(sampleDataset(), Format("xml"))
	assert.Error(t, err)
}

func TestFormatContentType(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}
