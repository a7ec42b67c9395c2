package bulk

import (
	"fmt"
	"strings"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/models"
)

// firstDataRow is the reported row number of the first data row; row 1 is
// the header
const firstDataRow = 2

// RowError is one violated rule in an uploaded table
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Message)
}

// Validate checks every normalized row against the template's column
// rules and, for the business template, the per-category conditional
// requirements. All violations are collected; validation never stops at
// the first error.
func Validate(schema *Schema, rows []map[string]interface{}) []RowError {
	var errs []RowError
	for i, row := range rows {
		number := i + firstDataRow
		for _, col := range schema.Columns {
			if msg := checkCell(col, row[col.Name]); msg != "" {
				errs = append(errs, RowError{Row: number, Column: col.Name, Message: msg})
			}
		}
		if _, ok := schema.Column("Jenis_Industri"); ok {
			errs = append(errs, checkConditional(number, row)...)
		}
	}
	return errs
}

func checkCell(col Column, value interface{}) string {
	switch col.Kind {
	case KindText:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return "value is required"
		}
	case KindNumeric:
		if value == nil {
			return "value is required"
		}
		return checkNumber(col, value)
	case KindNumericOptional:
		if value != nil {
			return checkNumber(col, value)
		}
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return "value is required"
		}
		return checkEnum(col, s)
	case KindEnumOptional:
		if s, ok := value.(string); ok {
			return checkEnum(col, s)
		}
	}
	// flags, identifiers and optional text accept anything they normalize
	// to
	return ""
}

func checkNumber(col Column, value interface{}) string {
	var n float64
	switch v := value.(type) {
	case int64:
		n = float64(v)
	case float64:
		n = v
	default:
		return "value is not numeric"
	}
	// normalization folds integral floats into int64, so a float64 left in
	// an integer column is fractional
	if col.Integer {
		if _, ok := value.(int64); !ok {
			return "value must be a whole number"
		}
	}
	if n < col.Min {
		return fmt.Sprintf("value must be at least %g", col.Min)
	}
	if col.Max > 0 && n > col.Max {
		return fmt.Sprintf("value must be between %g and %g", col.Min, col.Max)
	}
	return ""
}

func checkEnum(col Column, value string) string {
	for _, allowed := range col.Enum {
		if value == allowed {
			return ""
		}
	}
	return "value must be one of: " + strings.Join(col.Enum, ", ")
}

// checkConditional re-applies the industry-type conditional requirements
// to one business row
func checkConditional(number int, row map[string]interface{}) []RowError {
	name, _ := row["Jenis_Industri"].(string)
	industry, ok := models.ParseIndustryType(name)
	if !ok {
		// the enum check already reported the bad type
		return nil
	}

	var errs []RowError
	rule := models.ConditionalRuleFor(industry)
	for _, column := range rule.Required {
		if row[column] == nil {
			errs = append(errs, RowError{
				Row:     number,
				Column:  column,
				Message: fmt.Sprintf("value is required for %s", industry),
			})
		}
	}
	for flag, column := range rule.ValueIfTrue {
		if enabled, _ := row[flag].(bool); enabled && row[column] == nil {
			errs = append(errs, RowError{
				Row:     number,
				Column:  column,
				Message: fmt.Sprintf("value is required when %s is true", flag),
			})
		}
	}
	return errs
}
