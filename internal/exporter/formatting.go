package exporter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"camprice/pkg/contracts/domain"
)

// columnLabels maps internal column identifiers to human-readable labels.
// Unmapped identifiers fall back to a generic Title-Case conversion.
var columnLabels = map[string]string{
	// Price trends
	"productname":      "Product Name",
	"product":          "Product",
	"currentprice":     "Current Price",
	"price":            "Price",
	"changepercent":    "Change %",
	"percentagechange": "Change %",
	"previousprice":    "Previous Price",
	"pricedifference":  "Price Difference",

	// Market stats
	"market":       "Market",
	"region":       "Region",
	"volume":       "Volume",
	"totalvolume":  "Total Volume",
	"averageprice": "Average Price",
	"avgprice":     "Average Price",
	"totalvalue":   "Total Value",
	"transactions": "Transactions",

	// Product stats
	"productid": "Product ID",
	"category":  "Category",
	"unitssold": "Units Sold",
	"revenue":   "Revenue",
	"profit":    "Profit",
	"margin":    "Margin",

	// Category stats
	"categoryname":  "Category Name",
	"totalproducts": "Total Products",
	"totalsales":    "Total Sales",

	// Common fields
	"id":        "ID",
	"name":      "Name",
	"date":      "Date",
	"time":      "Time",
	"createdat": "Created At",
	"updatedat": "Updated At",
	"status":    "Status",
	"type":      "Type",
}

// formatColumnName converts an internal identifier to its display label.
func formatColumnName(column string) string {
	if column == "" {
		return "Field"
	}

	if label, ok := columnLabels[strings.ToLower(column)]; ok {
		return label
	}

	return titleCase(column)
}

// titleCase converts camelCase, snake_case or kebab-case identifiers to
// a space-separated Title Case label.
func titleCase(column string) string {
	var b strings.Builder
	for i, r := range column {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte(' ')
		}
		switch r {
		case '_', '-':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// headerPriority assigns the ordering band for a column identifier:
// identifier/name/date/code fields first, descriptive fields second,
// numeric measures third, everything else last.
func headerPriority(header string) int {
	h := strings.ToLower(header)

	switch {
	case strings.Contains(h, "id") || strings.Contains(h, "name") ||
		strings.Contains(h, "date") || strings.Contains(h, "code"):
		return 1
	case strings.Contains(h, "description") || strings.Contains(h, "note") ||
		strings.Contains(h, "comment") || strings.Contains(h, "remark"):
		return 2
	case strings.Contains(h, "price") || strings.Contains(h, "amount") ||
		strings.Contains(h, "total") || strings.Contains(h, "count") ||
		strings.Contains(h, "percent") || strings.Contains(h, "rate"):
		return 3
	default:
		return 4
	}
}

// orderedColumns returns a copy of the columns sorted by priority band
// with an alphabetical tie-break within each band.
func orderedColumns(columns []string) []string {
	out := make([]string, len(columns))
	copy(out, columns)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := headerPriority(out[i]), headerPriority(out[j])
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})

	return out
}

// isCurrencyColumn reports whether the column name implies a money value.
func isCurrencyColumn(column string) bool {
	h := strings.ToLower(column)
	return strings.Contains(h, "price") || strings.Contains(h, "cost") ||
		strings.Contains(h, "revenue") || strings.Contains(h, "profit") ||
		strings.Contains(h, "value") || strings.Contains(h, "amount")
}

// isPercentColumn reports whether the column name implies a percentage.
func isPercentColumn(column string) bool {
	h := strings.ToLower(column)
	return strings.Contains(h, "percent") || strings.Contains(h, "percentage") ||
		strings.Contains(h, "rate") || strings.Contains(h, "margin") ||
		strings.Contains(h, "change")
}

// isDateColumn reports whether the column name implies a calendar date.
func isDateColumn(column string) bool {
	return strings.Contains(strings.ToLower(column), "date")
}

// cleanString strips non-printable and non-ASCII bytes, matching the
// character repertoire of the PDF core fonts, and trims whitespace.
func cleanString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// formatCellText renders one cell value as display text. Used by the PDF
// backend; the Excel backend keeps native types where the host format
// can represent them.
func formatCellText(value any, columnName string) string {
	if value == nil {
		return "N/A"
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return "N/A"
		}
		if isDateColumn(columnName) {
			if d, err := time.ParseInLocation(domain.DateLayout, v, time.UTC); err == nil {
				return d.Format("1/2/2006")
			}
		}
		cleaned := cleanString(v)
		if cleaned == "" {
			return "N/A"
		}
		return cleaned

	case time.Time:
		return v.Format("1/2/2006")

	case bool:
		if v {
			return "Yes"
		}
		return "No"

	case int:
		return formatNumber(float64(v), columnName)
	case int64:
		return formatNumber(float64(v), columnName)
	case float64:
		return formatNumber(v, columnName)

	case []string:
		return strings.Join(v, ", ")

	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatNumber applies the column-driven numeric formatting rules:
// currency columns render as dollars, percentage columns with a percent
// suffix, whole numbers with thousands grouping, the rest as decimals.
func formatNumber(v float64, columnName string) string {
	// Percent wins over currency: "priceChange" is a percentage even
	// though it mentions price.
	switch {
	case isPercentColumn(columnName):
		return strconv.FormatFloat(v, 'f', 2, 64) + "%"
	case isCurrencyColumn(columnName):
		if v < 0 {
			return "-$" + groupThousands(strconv.FormatFloat(-v, 'f', 2, 64))
		}
		return "$" + groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
	case v == math.Trunc(v):
		return groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// groupThousands inserts comma separators into the integer part of a
// plain decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// sanitizeFileName strips disallowed characters, collapses whitespace
// runs to underscores and caps the result at 100 runes.
func sanitizeFileName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r) || r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "_")
	runes := []rune(out)
	if len(runes) > 100 {
		out = string(runes[:100])
	}
	if out == "" {
		out = "report"
	}
	return out
}

// safeSheetName sanitizes a worksheet name to the host format's
// 31-character limit and disallowed-character set.
func safeSheetName(name string) string {
	cleaned := strings.NewReplacer(
		"\\", "", "/", "", "*", "", "[", "", "]", "", ":", "", "?", "",
	).Replace(name)

	runes := []rune(cleaned)
	if len(runes) > 31 {
		cleaned = string(runes[:31])
	}
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "Sheet1"
	}
	return cleaned
}
