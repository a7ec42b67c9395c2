package bulk

import (
	"strconv"
	"strings"
)

// Normalize converts raw cells into typed row maps keyed by template
// column name. Blank cells become null; flag columns map the accepted
// boolean tokens and turn anything else into null; numeric cells that do
// not parse keep their raw string so validation can report them. Columns
// outside the template are dropped.
func Normalize(schema *Schema, table *Table) []map[string]interface{} {
	index := make(map[string]int, len(table.Columns))
	for i, name := range table.Columns {
		index[name] = i
	}

	rows := make([]map[string]interface{}, 0, len(table.Rows))
	for _, raw := range table.Rows {
		row := make(map[string]interface{}, len(schema.Columns))
		for _, col := range schema.Columns {
			cell := ""
			if i, ok := index[col.Name]; ok && i < len(raw) {
				cell = raw[i]
			}
			row[col.Name] = normalizeCell(col, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func normalizeCell(col Column, cell string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}

	switch col.Kind {
	case KindFlag:
		return normalizeFlag(trimmed)
	case KindNumeric, KindNumericOptional:
		return normalizeNumber(col, trimmed)
	case KindIdentifier:
		return trimmed
	default:
		return cell
	}
}

// normalizeFlag maps boolean-like tokens; unrecognized tokens become null
func normalizeFlag(token string) interface{} {
	switch strings.ToLower(token) {
	case "true", "1", "ya":
		return true
	case "false", "0", "tidak":
		return false
	default:
		return nil
	}
}

// normalizeNumber parses a numeric cell, folding spreadsheet floats like
// "3.0" into whole numbers for integer columns. An unparseable cell keeps
// its raw text.
func normalizeNumber(col Column, cell string) interface{} {
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return cell
	}
	if col.Integer && value == float64(int64(value)) {
		return int64(value)
	}
	return value
}
