package spreadsheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"royalty-analytics-service/internal/ingestion/core/domain"
)

func TestRead_CSV(t *testing.T) {
	data := "\ufeffTrack,Revenue,Date\n" +
		"Hoot,10.50,2024-01-03\n" +
		",,\n" +
		"Dusk,bad\n"

	rows, err := Read("report.CSV", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []domain.RawRow{
		{"Track": "Hoot", "Revenue": "10.50", "Date": "2024-01-03"},
		{"Track": "Dusk", "Revenue": "bad", "Date": ""},
	}, rows)
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Artist", "Track", "Streams"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Night Owls", "Hoot", 1204}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Lark", "Dawn"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := Read("royalties.xlsx", &buf)
	require.NoError(t, err)

	assert.Equal(t, []domain.RawRow{
		{"Artist": "Night Owls", "Track": "Hoot", "Streams": "1204"},
		{"Artist": "Lark", "Track": "Dawn", "Streams": ""},
	}, rows)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read("notes.pdf", strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Read("empty.csv", strings.NewReader("\n\n"))
	assert.True(t, errors.Is(err, ErrNoHeader))

	_, err = Read("broken.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)
}
