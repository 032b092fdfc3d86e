package paging

import "github.com/charmbracelet/bubbles/paginator"

// DefaultPerPage is used whenever a per-page count is zero or unset.
const DefaultPerPage = 20

// PerPageOptions are the choices offered by the per-page menu. Counts above
// [AllThreshold] are labelled "all".
var PerPageOptions = []int{20, 50, 100, 1000}

// AllThreshold is the largest per-page count shown as a number.
const AllThreshold = 100

// State is the pagination state owned by a container view. Children only read
// it and emit intents; the container applies them.
type State struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	PerPage     int `json:"perPage"`
}

// NewState returns a [State] on page 1 with no known pages.
func NewState(perPage int) State {
	return State{
		CurrentPage: 1,
		PerPage:     NormalizePerPage(perPage),
	}
}

// NormalizePerPage returns count, or [DefaultPerPage] when count is zero or
// negative (an unset count).
func NormalizePerPage(count int) int {
	if count <= 0 {
		return DefaultPerPage
	}

	return count
}

// TotalPagesFor returns the number of pages needed for totalItems rows.
func TotalPagesFor(totalItems, perPage int) int {
	if totalItems <= 0 {
		return 0
	}

	p := paginator.New()
	p.PerPage = NormalizePerPage(perPage)

	return p.SetTotalPages(totalItems)
}

// Clamp returns s with CurrentPage in [1, max(TotalPages, 1)] and a valid
// PerPage.
func (s State) Clamp() State {
	s.PerPage = NormalizePerPage(s.PerPage)
	s.TotalPages = max(s.TotalPages, 0)
	s.CurrentPage = min(max(s.CurrentPage, 1), max(s.TotalPages, 1))

	return s
}

// WithTotal returns s with TotalPages derived from totalItems, clamped.
func (s State) WithTotal(totalItems int) State {
	s.TotalPages = TotalPagesFor(totalItems, s.PerPage)

	return s.Clamp()
}

// Paginator returns a bubbles paginator positioned on the clamped current
// page. Its Page is zero-based.
func (s State) Paginator() paginator.Model {
	s = s.Clamp()

	p := paginator.New()
	p.PerPage = s.PerPage
	p.TotalPages = max(s.TotalPages, 1)
	p.Page = s.CurrentPage - 1

	return p
}

// Offset returns the zero-based index of the first row on the current page.
func (s State) Offset() int {
	s = s.Clamp()
	start, _ := s.SliceBounds(s.CurrentPage * s.PerPage)

	return start
}

// SliceBounds returns the bounds of the current page within a slice of
// length rows.
func (s State) SliceBounds(length int) (int, int) {
	p := s.Paginator()

	return p.GetSliceBounds(length)
}

// RowNumber returns the 1-based row number of the i-th row on the current page.
func (s State) RowNumber(i int) int {
	return s.Offset() + i + 1
}

// Window returns the page window for s.
func (s State) Window() Window {
	return ComputeWindow(s.CurrentPage, s.TotalPages)
}
