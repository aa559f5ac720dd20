package export_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/goleads/internal/export"
)

var (
	testHeader = []string{"name", "address", "phone"}
	testRows   = [][]string{
		{"Blue Tokai", "12 FC Road", "123"},
		{"Third Wave", "Koregaon Park, Lane 5", "456"},
	}
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{in: "csv", want: export.FormatCSV},
		{in: ".csv", want: export.FormatCSV},
		{in: "XLSX", want: export.FormatXLSX},
		{in: "xls", want: export.FormatXLSX},
		{in: "pdf", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := export.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFile_CSV(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "leads.csv")

	require.NoError(t, export.WriteFile(path, testHeader, testRows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, testHeader, records[0])
	assert.Equal(t, testRows[0], records[1])
	assert.Equal(t, testRows[1], records[2])
}

func TestWriteFile_CSVCreateError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "absent", "leads.csv")

	err := export.WriteFile(path, testHeader, testRows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create export file")
}

func TestWriteFile_XLSX(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	require.NoError(t, export.WriteFile(path, testHeader, testRows))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, testHeader, rows[0])
	assert.Equal(t, testRows[0], rows[1])
	assert.Equal(t, testRows[1], rows[2])
}

func TestWriteFile_UnsupportedExtension(t *testing.T) {
	t.Parallel()
	err := export.WriteFile(filepath.Join(t.TempDir(), "leads.pdf"), testHeader, testRows)
	assert.Error(t, err)
}

func TestWrite_EmptyRows(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, export.Write(path, export.FormatCSV, testHeader, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testHeader, records[0])
}
