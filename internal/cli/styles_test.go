package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"4.5", "$4.50"},
		{"999.999", "$1,000.00"},
		{"1234567.8", "$1,234,567.80"},
		{"-1500", "-$1,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Key", "Category"}, [][]string{
		{"NETFLIX|OUT", "Streaming"},
		{"RENT|ANY", "Rent"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Key")
	assert.Equal(t, "-----------  ---------", lines[1])
	assert.Equal(t, "NETFLIX|OUT  Streaming", lines[2])
	assert.Equal(t, "RENT|ANY     Rent     ", lines[3])
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("done"), "done")
	assert.Contains(t, FormatError("bad"), ErrorIcon)
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("note"), "note")
	assert.Contains(t, FormatTitle("Budget"), "Budget")
	assert.Contains(t, RenderBox("Title", "body"), "body")
}
