package currency

import (
	"errors"
	"fmt"

	xstrings "github.com/charmbracelet/x/exp/strings"
)

type (
	Column string
	Order  string
)

const (
	ColumnPrice       Column = "price"
	ColumnStateAt     Column = "state_at"
	ColumnDaysStateAt Column = "days_state_at"

	OrderNone Order = ""
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

var (
	ErrUnknownColumn = errors.New("unknown sort column")

	// SortableColumns lists the columns the list endpoint can sort by.
	SortableColumns = []Column{ColumnPrice, ColumnStateAt, ColumnDaysStateAt}

	columnTitles = map[Column]string{
		ColumnPrice:       "Price",
		ColumnStateAt:     "Updated",
		ColumnDaysStateAt: "Days",
	}
)

func ParseColumn(s string) (Column, error) {
	for _, c := range SortableColumns {
		if string(c) == s {
			return c, nil
		}
	}

	names := make([]string, 0, len(SortableColumns))
	for _, c := range SortableColumns {
		names = append(names, string(c))
	}

	return "", fmt.Errorf("%w: %q (sortable columns are %s)", ErrUnknownColumn, s, xstrings.EnglishJoin(names, true))
}

func (c Column) Title() string {
	if t, ok := columnTitles[c]; ok {
		return t
	}

	return string(c)
}

// Sort is the active sort. The zero value is unsorted.
type Sort struct {
	Column Column `json:"column,omitempty" yaml:"column,omitempty"`
	Order  Order  `json:"order,omitempty" yaml:"order,omitempty"`
}

// Toggle returns the sort after clicking col: a new column starts ascending,
// then the same column goes descending, then back to unsorted.
func (s Sort) Toggle(col Column) Sort {
	if s.Column != col || s.Order == OrderNone {
		return Sort{Column: col, Order: OrderAsc}
	}

	if s.Order == OrderAsc {
		return Sort{Column: col, Order: OrderDesc}
	}

	return Sort{Column: col, Order: OrderNone}
}

// OrderOf returns the order applied to col.
func (s Sort) OrderOf(col Column) Order {
	if s.Column != col {
		return OrderNone
	}

	return s.Order
}

func (s Sort) Active() bool {
	return s.Column != "" && s.Order != OrderNone
}

// Indicator returns the header arrow for col.
func (s Sort) Indicator(col Column) string {
	switch s.OrderOf(col) {
	case OrderAsc:
		return "▲"
	case OrderDesc:
		return "▼"
	default:
		return "↕"
	}
}
