// Package reports derives the statistical views behind the market-price
// report screens and exports.
package reports

import "strings"

// OtherCategory is the sentinel returned when no keyword matches.
const OtherCategory = "ផ្សេងៗ"

// CategoryRule maps a product-name keyword to a category name.
type CategoryRule struct {
	Keyword  string
	Category string
}

// DefaultCategoryRules returns the built-in keyword table.
// Rule order is significant: overlapping keywords resolve to the
// first declared match, not the longest or most specific one.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Keyword: "ស្រូវ", Category: "ស្រូវ"},
		{Keyword: "ដំឡូង", Category: "បន្លែ"},
		{Keyword: "ខ្ទឹម", Category: "គ្រឿងទេស"},
		{Keyword: "ធុរ៉េន", Category: "ផ្លែឈើ"},
	}
}

// Categorizer classifies product names into categories by ordered
// keyword containment. It is stateless and safe for concurrent use.
type Categorizer struct {
	rules []CategoryRule
}

// NewCategorizer creates a categorizer with the given ordered rules.
// With no rules it falls back to the default table.
func NewCategorizer(rules ...CategoryRule) *Categorizer {
	if len(rules) == 0 {
		rules = DefaultCategoryRules()
	}
	return &Categorizer{rules: rules}
}

// Resolve returns the category of the first rule whose keyword appears
// as a substring of the product name, or OtherCategory when none match.
// It is total: every input yields a non-empty category.
func (c *Categorizer) Resolve(productName string) string {
	for _, rule := range c.rules {
		if strings.Contains(productName, rule.Keyword) {
			return rule.Category
		}
	}
	return OtherCategory
}
