package exporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatColumnName(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{column: "productName", want: "Product Name"},
		{column: "averagePrice", want: "Average Price"},
		{column: "marketName", want: "Market Name"},
		{column: "priceChange", want: "Price Change"},
		{column: "category", want: "Category"},
		{column: "date", want: "Date"},
		{column: "id", want: "ID"},
		{column: "some_snake_field", want: "Some Snake Field"},
		{column: "kebab-case-field", want: "Kebab Case Field"},
		{column: "minPrice", want: "Min Price"},
		{column: "", want: "Field"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, formatColumnName(tt.column))
		})
	}
}

func TestHeaderPriority(t *testing.T) {
	assert.Equal(t, 1, headerPriority("productName"))
	assert.Equal(t, 1, headerPriority("date"))
	assert.Equal(t, 1, headerPriority("priceID"))
	assert.Equal(t, 2, headerPriority("description"))
	assert.Equal(t, 3, headerPriority("averagePrice"))
	assert.Equal(t, 3, headerPriority("productCount"))
	assert.Equal(t, 4, headerPriority("volume"))
}

func TestOrderedColumns(t *testing.T) {
	in := []string{"averagePrice", "productName", "marketCount", "minPrice", "maxPrice"}

	got := orderedColumns(in)

	// Name first, then the measure band alphabetically.
	assert.Equal(t, []string{"productName", "averagePrice", "marketCount", "maxPrice", "minPrice"}, got)
	// Input slice untouched.
	assert.Equal(t, []string{"averagePrice", "productName", "marketCount", "minPrice", "maxPrice"}, in)
}

func TestFormatCellText(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		column string
		want   string
	}{
		{name: "nil is N/A", value: nil, column: "x", want: "N/A"},
		{name: "empty string is N/A", value: "", column: "x", want: "N/A"},
		{name: "plain string", value: "Phnom Penh", column: "marketName", want: "Phnom Penh"},
		{name: "non ascii stripped to N/A", value: "ផ្សារ", column: "marketName", want: "N/A"},
		{name: "mixed keeps ascii part", value: "Market ផ្សារ 1", column: "marketName", want: "Market  1"},
		{name: "date column reformatted", value: "2024-01-05", column: "date", want: "1/5/2024"},
		{name: "currency column", value: 4100.0, column: "averagePrice", want: "$4,100.00"},
		{name: "negative currency", value: -1234.5, column: "minPrice", want: "-$1,234.50"},
		{name: "percent column", value: 2.5, column: "priceChange", want: "2.50%"},
		{name: "whole number grouped", value: 1234567.0, column: "productCount", want: "1,234,567"},
		{name: "int value", value: 42, column: "marketCount", want: "42"},
		{name: "decimal", value: 3.14159, column: "volume", want: "3.14"},
		{name: "bool true", value: true, column: "active", want: "Yes"},
		{name: "bool false", value: false, column: "active", want: "No"},
		{name: "string slice joined", value: []string{"a", "b"}, column: "tags", want: "a, b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCellText(tt.value, tt.column))
		})
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0"},
		{in: "999", want: "999"},
		{in: "1000", want: "1,000"},
		{in: "1234567", want: "1,234,567"},
		{in: "1234.56", want: "1,234.56"},
		{in: "-1234567.89", want: "-1,234,567.89"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, groupThousands(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces become underscores", in: "My Report 2024", want: "My_Report_2024"},
		{name: "special characters dropped", in: "a/b\\c:d*e?f", want: "abcdef"},
		{name: "whitespace runs collapse", in: "a   b", want: "a_b"},
		{name: "hyphens survive", in: "Report_2024-01-01_2024-01-31", want: "Report_2024-01-01_2024-01-31"},
		{name: "blank falls back", in: "   ", want: "report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFileName(tt.in))
		})
	}

	long := strings.Repeat("a", 150)
	assert.Len(t, sanitizeFileName(long), 100)
}

func TestSafeSheetName(t *testing.T) {
	assert.Equal(t, "Price Trends", safeSheetName("Price Trends"))
	assert.Equal(t, "ab", safeSheetName("a[]b"))
	assert.Equal(t, "Sheet1", safeSheetName(""))
	assert.Equal(t, "Sheet1", safeSheetName("[]:*?/\\"))
	assert.LessOrEqual(t, len([]rune(safeSheetName(strings.Repeat("x", 40)))), 31)
}
