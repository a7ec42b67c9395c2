package models

import "strings"

// NormalizeRegion normalizes a region name for matching: lower-cased with
// locale prefixes stripped, so "Kabupaten Gowa", "Kab. Gowa" and "gowa"
// all compare equal.
func NormalizeRegion(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.TrimPrefix(normalized, "kabupaten ")
	normalized = strings.TrimPrefix(normalized, "kab. ")
	return strings.TrimSpace(normalized)
}
