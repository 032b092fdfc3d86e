package paging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wplibs/nodata/pkg/paging"
)

func TestComputeWindow(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    []string
		current int
		total   int
	}{
		"no pages": {
			current: 1,
			total:   0,
			want:    []string{},
		},
		"negative total": {
			current: 1,
			total:   -3,
			want:    []string{},
		},
		"first of twenty": {
			current: 1,
			total:   20,
			want:    []string{"1", "2", "3", "...", "20"},
		},
		"middle of twenty": {
			current: 10,
			total:   20,
			want:    []string{"1", "...", "8", "9", "10", "11", "12", "...", "20"},
		},
		"last of twenty": {
			current: 20,
			total:   20,
			want:    []string{"1", "...", "18", "19", "20"},
		},
		"near start has no leading gap": {
			current: 4,
			total:   20,
			want:    []string{"1", "2", "3", "4", "5", "6", "...", "20"},
		},
		"near end has no trailing gap": {
			current: 17,
			total:   20,
			want:    []string{"1", "...", "15", "16", "17", "18", "19", "20"},
		},
		"six pages": {
			current: 3,
			total:   6,
			want:    []string{"1", "2", "3", "4", "5", "6"},
		},
		"current beyond total is not clamped": {
			current: 30,
			total:   20,
			want:    []string{"1", "...", "20"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := paging.ComputeWindow(tc.current, tc.total)
			assert.Equal(t, tc.want, got.Strings())
		})
	}
}

func TestComputeWindow_Compact(t *testing.T) {
	t.Parallel()

	for total := range 6 {
		for current := 1; current <= max(total, 1); current++ {
			w := paging.ComputeWindow(current, total)
			require.Len(t, w, total)

			for i, e := range w {
				assert.False(t, e.IsEllipsis())
				assert.Equal(t, i+1, e.Page())
			}
		}
	}
}

func TestComputeWindow_Bounds(t *testing.T) {
	t.Parallel()

	for total := 6; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			w := paging.ComputeWindow(current, total)
			require.NotEmpty(t, w)

			assert.Equal(t, 1, w[0].Page(), "window %v", w.Strings())
			assert.Equal(t, total, w[len(w)-1].Page(), "window %v", w.Strings())
			assert.Contains(t, w.Pages(), current)

			pages := w.Pages()
			for i := 1; i < len(pages); i++ {
				assert.Less(t, pages[i-1], pages[i])
			}

			for i := 1; i < len(w); i++ {
				assert.False(t, w[i-1].IsEllipsis() && w[i].IsEllipsis())
			}
		}
	}
}

func TestComputeWindowDelta(t *testing.T) {
	t.Parallel()

	w := paging.ComputeWindowDelta(10, 20, 1)
	assert.Equal(t, []string{"1", "...", "9", "10", "11", "...", "20"}, w.Strings())

	w = paging.ComputeWindowDelta(10, 20, 0)
	assert.Equal(t, []string{"1", "...", "10", "...", "20"}, w.Strings())
}

func TestEntry(t *testing.T) {
	t.Parallel()

	assert.True(t, paging.Ellipsis.IsEllipsis())
	assert.Equal(t, "...", paging.Ellipsis.String())
	assert.Equal(t, 0, paging.Ellipsis.Page())

	e := paging.Page(7)
	assert.False(t, e.IsEllipsis())
	assert.Equal(t, 7, e.Page())
	assert.Equal(t, "7", e.String())
}
