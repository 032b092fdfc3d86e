package paging

import "strconv"

const (
	// DefaultDelta is the number of neighbours shown on each side of the
	// current page.
	DefaultDelta = 2

	// compactThreshold is the largest page count rendered without ellipses.
	compactThreshold = 5
)

// Entry is a single slot in a [Window]: either a page number (>= 1) or the
// [Ellipsis] marker.
type Entry int

// Ellipsis marks a gap of one or more omitted pages.
const Ellipsis Entry = 0

// Page returns an [Entry] for page n.
func Page(n int) Entry {
	return Entry(n)
}

// IsEllipsis reports whether e is the [Ellipsis] marker.
func (e Entry) IsEllipsis() bool {
	return e == Ellipsis
}

// Page returns the page number, or 0 for the [Ellipsis] marker.
func (e Entry) Page() int {
	return int(e)
}

func (e Entry) String() string {
	if e.IsEllipsis() {
		return "..."
	}

	return strconv.Itoa(int(e))
}

// Window is the ordered sequence of page numbers and ellipses rendered by a
// paginator. A window is built fresh for every render and never mutated.
type Window []Entry

// Pages returns the page numbers in w, skipping ellipses.
func (w Window) Pages() []int {
	pages := make([]int, 0, len(w))
	for _, e := range w {
		if !e.IsEllipsis() {
			pages = append(pages, e.Page())
		}
	}

	return pages
}

func (w Window) Strings() []string {
	s := make([]string, len(w))
	for i, e := range w {
		s[i] = e.String()
	}

	return s
}

// ComputeWindow returns the page window for current out of total pages using
// [DefaultDelta].
func ComputeWindow(current, total int) Window {
	return ComputeWindowDelta(current, total, DefaultDelta)
}

// ComputeWindowDelta returns the page window for current out of total pages,
// showing delta pages on each side of current.
//
// A total of zero or less yields an empty window. Up to five pages are all
// listed. Otherwise the window always starts with page 1 and ends with page
// total, and an ellipsis replaces each gap between them and the neighbourhood
// of current. The current page is not clamped: callers that allow it to leave
// [1, total] still get a window relative to that value.
func ComputeWindowDelta(current, total, delta int) Window {
	if total <= 0 {
		return Window{}
	}

	if total <= compactThreshold {
		w := make(Window, 0, total)
		for i := 1; i <= total; i++ {
			w = append(w, Page(i))
		}

		return w
	}

	start := max(2, current-delta)
	end := min(total-1, current+delta)

	w := make(Window, 0, 2*delta+5)
	w = append(w, Page(1))

	if start > 2 {
		w = append(w, Ellipsis)
	}

	for i := start; i <= end; i++ {
		w = append(w, Page(i))
	}

	if end < total-1 {
		w = append(w, Ellipsis)
	}

	return append(w, Page(total))
}
