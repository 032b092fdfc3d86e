package paging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wplibs/nodata/pkg/paging"
)

func newControl(current, total, perPage int) paging.Control {
	return paging.NewControl(paging.State{
		CurrentPage: current,
		TotalPages:  total,
		PerPage:     perPage,
	})
}

func TestControl_GoToPage(t *testing.T) {
	t.Parallel()

	c := newControl(3, 10, 20)

	assert.Nil(t, c.GoToPage(paging.Ellipsis))
	assert.Nil(t, c.GoToPage(paging.Page(3)))

	cmd := c.GoToPage(paging.Page(7))
	require.NotNil(t, cmd)
	assert.Equal(t, paging.PageChangedMsg{Page: 7}, cmd())
}

func TestControl_PrevNext(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		prev    tea.Msg
		next    tea.Msg
		current int
		total   int
	}{
		"first page": {
			current: 1,
			total:   5,
			next:    paging.PageChangedMsg{Page: 2},
		},
		"middle page": {
			current: 3,
			total:   5,
			prev:    paging.PageChangedMsg{Page: 2},
			next:    paging.PageChangedMsg{Page: 4},
		},
		"last page": {
			current: 5,
			total:   5,
			prev:    paging.PageChangedMsg{Page: 4},
		},
		"single page": {
			current: 1,
			total:   1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newControl(tc.current, tc.total, 20)

			assertMsg(t, tc.prev, c.PrevPage())
			assertMsg(t, tc.next, c.NextPage())
		})
	}
}

func TestControl_SetPerPage(t *testing.T) {
	t.Parallel()

	c := newControl(1, 3, 20)

	assertMsg(t, paging.PerPageMsg{Count: 50}, c.SetPerPage(50))
	assertMsg(t, paging.PerPageMsg{Count: 20}, c.SetPerPage(0))
}

func TestControl_CyclePerPage(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		perPage int
		want    int
	}{
		"20 to 50":     {perPage: 20, want: 50},
		"100 to 1000":  {perPage: 100, want: 1000},
		"wraps around": {perPage: 1000, want: 20},
		"unknown size": {perPage: 33, want: 20},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newControl(1, 3, tc.perPage)
			assertMsg(t, paging.PerPageMsg{Count: tc.want}, c.CyclePerPage())
		})
	}
}

func TestControl_Update(t *testing.T) {
	t.Parallel()

	c := newControl(1, 4, 20)

	cmd, handled := c.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, handled)
	assert.Nil(t, cmd)

	cmd, handled = c.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, handled)
	assertMsg(t, paging.PageChangedMsg{Page: 2}, cmd)

	cmd, handled = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.True(t, handled)
	assertMsg(t, paging.PageChangedMsg{Page: 4}, cmd)

	cmd, handled = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.True(t, handled)
	assertMsg(t, paging.PerPageMsg{Count: 50}, cmd)

	cmd, handled = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.False(t, handled)
	assert.Nil(t, cmd)
}

func TestControl_PerPageLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "20", newControl(1, 1, 20).PerPageLabel())
	assert.Equal(t, "100", newControl(1, 1, 100).PerPageLabel())
	assert.Equal(t, "all", newControl(1, 1, 1000).PerPageLabel())
}

func TestControl_View(t *testing.T) {
	t.Parallel()

	single := newControl(1, 1, 20).View()
	assert.Contains(t, single, "20")
	assert.NotContains(t, single, "Next")

	many := newControl(10, 20, 20).View()
	assert.Contains(t, many, "[10]")
	assert.Contains(t, many, "...")
	assert.Contains(t, many, "Prev")
	assert.Contains(t, many, "Next")
}

func assertMsg(t *testing.T, want tea.Msg, cmd tea.Cmd) {
	t.Helper()

	if want == nil {
		assert.Nil(t, cmd)

		return
	}

	require.NotNil(t, cmd)
	assert.Equal(t, want, cmd())
}
