package bulk

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders normalized rows back into a spreadsheet with the
// template's headers, for download after validation.
func WriteXLSX(schema *Schema, rows []map[string]interface{}) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := writeHeader(file, sheet, schema); err != nil {
		return nil, err
	}
	for i, row := range rows {
		for j, col := range schema.Columns {
			if row[col.Name] == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+firstDataRow)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, row[col.Name]); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateXLSX produces a blank template spreadsheet containing only the
// schema's header row.
func TemplateXLSX(schema *Schema) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := writeHeader(file, file.GetSheetName(0), schema); err != nil {
		return nil, err
	}
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(file *excelize.File, sheet string, schema *Schema) error {
	for i, col := range schema.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, col.Name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", col.Name, err)
		}
	}
	return nil
}
