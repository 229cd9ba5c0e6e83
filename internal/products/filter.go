package product

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxCodepointSuffix closes the coarse title range the same way the document
// stores do: first character plus a maximal codepoint.
const maxCodepointSuffix = "\uf8ff"

// Filter carries the product search criteria for one request.
type Filter struct {
	CategoryID string
	Title      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// HasCategory reports whether the filter restricts by category.
func (f Filter) HasCategory() bool {
	return f.CategoryID != "" && f.CategoryID != AllCategoriesID
}

// TitleFragment returns the trimmed search fragment, empty when unset.
func (f Filter) TitleFragment() string {
	return strings.TrimSpace(f.Title)
}

// TitleRange returns the coarse server-side bounds derived from the fragment's
// first character. The range only narrows by leading character; exact substring
// matching happens after the rows come back.
func (f Filter) TitleRange() (lower, upper string, ok bool) {
	frag := f.TitleFragment()
	if frag == "" {
		return "", "", false
	}
	first := string([]rune(frag)[0])
	return first, first + maxCodepointSuffix, true
}

// MatchesTitle reports case-insensitive substring containment.
func (f Filter) MatchesTitle(title string) bool {
	frag := f.TitleFragment()
	if frag == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(frag))
}
