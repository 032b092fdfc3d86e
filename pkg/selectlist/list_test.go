package selectlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wplibs/nodata/pkg/selectlist"
)

func records() []selectlist.Item {
	return selectlist.NewItems([]any{
		map[string]any{"id": "price", "value": "Price", "color": "success"},
		map[string]any{"id": "state_at", "value": "Updated", "color": "warning"},
		map[string]any{"id": "days_state_at", "value": "Age"},
	})
}

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	cfg := selectlist.Config{}
	cfg.EnsureDefaults()

	assert.Equal(t, "value", cfg.LabelKey)
	assert.Equal(t, "id", cfg.ValueKey)
	assert.Equal(t, "Select an option", cfg.Placeholder)
	assert.False(t, cfg.UseBadge)
}

func TestNewItem(t *testing.T) {
	t.Parallel()

	assert.Equal(t, selectlist.KindPrimitive, selectlist.NewItem("USD").Kind())
	assert.Equal(t, selectlist.KindPrimitive, selectlist.NewItem(42).Kind())
	assert.Equal(t, selectlist.KindRecord, selectlist.NewItem(map[string]any{"id": 1}).Kind())
	assert.Equal(t, selectlist.KindRecord, selectlist.NewItem(map[string]string{"id": "1"}).Kind())

	_, ok := selectlist.Primitive("USD").Field("id")
	assert.False(t, ok)
}

func TestModel_Resolve(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		item      selectlist.Item
		wantLabel any
		wantValue any
	}{
		"primitive string": {
			item:      selectlist.Primitive("USD"),
			wantLabel: "USD",
			wantValue: "USD",
		},
		"primitive number": {
			item:      selectlist.Primitive(7),
			wantLabel: 7,
			wantValue: 7,
		},
		"record": {
			item:      selectlist.Record(map[string]any{"id": 3, "value": "Euro"}),
			wantLabel: "Euro",
			wantValue: 3,
		},
		"record missing fields": {
			item: selectlist.Record(nil),
		},
	}

	m := selectlist.New(selectlist.Config{}, nil)

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.wantLabel, m.ResolveLabel(tc.item))
			assert.Equal(t, tc.wantValue, m.ResolveValue(tc.item))
		})
	}
}

func TestModel_CustomKeys(t *testing.T) {
	t.Parallel()

	items := selectlist.NewItems([]any{
		map[string]any{"code": "USD", "name": "US Dollar"},
		map[string]any{"code": "EUR", "name": "Euro"},
	})
	m := selectlist.New(selectlist.Config{LabelKey: "name", ValueKey: "code"}, items)

	m.SetValue("EUR")

	label, ok := m.CurrentLabel()
	require.True(t, ok)
	assert.Equal(t, "Euro", label)
}

func TestModel_Reindex(t *testing.T) {
	t.Parallel()

	m := selectlist.New(selectlist.Config{}, records())

	first := m.Index()
	m.Reindex()
	assert.Equal(t, first, m.Index())

	for _, it := range m.Items() {
		got, ok := m.Index().Lookup(m.ResolveValue(it))
		require.True(t, ok)
		assert.Equal(t, it, got)
	}
}

func TestModel_SetItemsReindexes(t *testing.T) {
	t.Parallel()

	m := selectlist.New(selectlist.Config{}, records())
	m.SetValue("usd")

	_, ok := m.CurrentLabel()
	assert.False(t, ok)

	m.SetItems(selectlist.NewItems([]any{
		map[string]any{"id": "usd", "value": "US Dollar"},
		map[string]any{"id": "eur", "value": "Euro"},
	}))

	label, ok := m.CurrentLabel()
	require.True(t, ok)
	assert.Equal(t, "US Dollar", label)
}

func TestIndex_LastWriteWins(t *testing.T) {
	t.Parallel()

	items := selectlist.NewItems([]any{
		map[string]any{"id": 1, "value": "first"},
		map[string]any{"id": "1", "value": "second"},
	})
	idx := selectlist.BuildIndex(items, "id")

	require.Len(t, idx, 1)

	it, ok := idx.Lookup(1)
	require.True(t, ok)

	v, _ := it.Field("value")
	assert.Equal(t, "second", v)
}

func TestModel_Select(t *testing.T) {
	t.Parallel()

	m := selectlist.New(selectlist.Config{}, records(), selectlist.WithID("sort"))

	cmd := m.Select(m.Items()[1])
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)

	assert.Equal(t, selectlist.SelectionChangedMsg{ID: "sort", Value: "state_at"}, batch[0]())
	assert.Equal(t, selectlist.StatusChangedMsg{ID: "sort", Value: "state_at"}, batch[1]())

	// Selection is owned by the container.
	_, selected := m.Value()
	assert.False(t, selected)
}

func TestModel_CurrentLabel(t *testing.T) {
	t.Parallel()

	m := selectlist.New(selectlist.Config{}, records())

	_, ok := m.CurrentLabel()
	assert.False(t, ok)

	m.SetValue("price")

	label, ok := m.CurrentLabel()
	require.True(t, ok)
	assert.Equal(t, "Price", label)

	m.SetValue(nil)

	_, ok = m.CurrentLabel()
	assert.False(t, ok)
}

func TestModel_Badges(t *testing.T) {
	t.Parallel()

	items := records()

	off := selectlist.New(selectlist.Config{}, items)
	assert.Empty(t, off.BadgeClass(items[0]))
	assert.Empty(t, off.CurrentBadgeClass())

	on := selectlist.New(selectlist.Config{UseBadge: true}, items)
	assert.Equal(t, "badge me-2 bg-success", on.BadgeClass(items[0]))
	assert.Equal(t, "badge me-2 bg-primary", on.BadgeClass(items[2]))
	assert.Equal(t, "badge me-2 bg-primary", on.BadgeClass(selectlist.Primitive("x")))
	assert.Equal(t, "badge bg-primary", on.CurrentBadgeClass())

	on.SetValue("state_at")
	assert.Equal(t, "badge bg-warning", on.CurrentBadgeClass())
}

func TestModel_Visible(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		items []selectlist.Item
		want  bool
	}{
		"empty":  {items: nil, want: false},
		"single": {items: selectlist.Strings("USD"), want: false},
		"two":    {items: selectlist.Strings("USD", "EUR"), want: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := selectlist.New(selectlist.Config{}, tc.items)
			assert.Equal(t, tc.want, m.Visible())

			if !tc.want {
				assert.Empty(t, m.View())

				cmd, handled := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
				assert.False(t, handled)
				assert.Nil(t, cmd)
			}
		})
	}
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	m := selectlist.New(selectlist.Config{}, records())

	_, handled := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.False(t, handled)

	_, handled = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.True(t, handled)
	assert.True(t, m.Open())
	assert.Contains(t, m.View(), "Updated")

	_, handled = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.True(t, handled)

	cmd, handled := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, handled)
	require.NotNil(t, cmd)
	assert.False(t, m.Open())

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	assert.Equal(t, selectlist.SelectionChangedMsg{Value: "state_at"}, batch[0]())
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	m := selectlist.New(selectlist.Config{Placeholder: "Sort by"}, records())
	assert.Contains(t, m.View(), "Sort by")

	m.SetValue("days_state_at")
	assert.Contains(t, m.View(), "Age")
}
