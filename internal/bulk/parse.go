package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a parsed upload: a header row plus raw string cells. Short data
// rows are padded with blanks to the header width.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ParseFile parses an uploaded tabular file, dispatching on the filename
// extension.
func ParseFile(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q: expected .csv or .xlsx", filepath.Ext(filename))
	}
}

// ParseCSV reads a comma-delimited table. Invalid UTF-8 bytes are replaced
// rather than rejected.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	for _, record := range records {
		for i, cell := range record {
			record[i] = strings.ToValidUTF8(cell, "�")
		}
	}
	return tableFromRecords(records)
}

// ParseXLSX reads the first sheet of a spreadsheet
func ParseXLSX(r io.Reader) (*Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	records, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return tableFromRecords(records)
}

func tableFromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	columns := make([]string, len(records[0]))
	for i, name := range records[0] {
		columns[i] = strings.TrimSpace(name)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(columns))
		copy(row, record)
		rows = append(rows, row)
	}
	return &Table{Columns: columns, Rows: rows}, nil
}
