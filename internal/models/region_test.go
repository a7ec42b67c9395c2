package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRegion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Kota Makassar", "kota makassar"},
		{"Kabupaten Gowa", "gowa"},
		{"Kab. Gowa", "gowa"},
		{"  Kabupaten Maros  ", "maros"},
		{"TORAJA UTARA", "toraja utara"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeRegion(tt.input), "input %q", tt.input)
	}
}
