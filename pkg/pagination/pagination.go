package pagination

const (
	// DefaultPageSize is the standard page size when none is provided.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the parameters using the provided defaults. Zero or
// negative defaults fall back to the package constants.
func (p Params) Normalize(defaultSize, maxSize int) Params {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	out := p
	if out.Page <= 0 {
		out.Page = 1
	}
	if out.PageSize <= 0 {
		out.PageSize = defaultSize
	}
	if out.PageSize > maxSize {
		out.PageSize = maxSize
	}
	return out
}

// Offset returns the zero-based index of the first row on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// HasNextPage reports whether rows remain past this page given the total
// number of matching rows.
func (p Params) HasNextPage(totalCount int) bool {
	return p.Offset()+p.PageSize < totalCount
}

// Window slices one page out of the full result set. The slice aliases the
// input, callers must not mutate it.
func Window[T any](items []T, p Params) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
