// Package export writes a query's stored records to spreadsheet files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format selects an export file format.
type Format string

const (
	// FormatCSV exports a comma-separated file.
	FormatCSV Format = "csv"
	// FormatXLSX exports an Excel workbook.
	FormatXLSX Format = "xlsx"
)

// sheetName is the single worksheet every workbook export writes into.
const sheetName = "Leads"

// ParseFormat resolves a format name or filename extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "xls":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// Write writes header and rows to path in the given format.
func Write(path string, format Format, header []string, rows [][]string) error {
	switch format {
	case FormatCSV:
		return writeCSV(path, header, rows)
	case FormatXLSX:
		return writeXLSX(path, header, rows)
	default:
		return fmt.Errorf("unsupported export format: %q", format)
	}
}

// WriteFile picks the format from path's extension and writes the export.
func WriteFile(path string, header []string, rows [][]string) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	return Write(path, format, header, rows)
}

func writeCSV(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	// Close exactly once; a close failure surfaces unless a write already failed.
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}
	return nil
}

func writeXLSX(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("name worksheet: %w", err)
	}

	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("address row %d: %w", rowNum, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
