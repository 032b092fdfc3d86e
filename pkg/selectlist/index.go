package selectlist

// Index maps the string form of each item's value to the item.
//
// When two items share a value the later one wins, matching a plain map
// assignment in list order.
type Index map[string]Item

// BuildIndex indexes items by the value projected with valueKey. It has no
// side effects, so calling it again on the same list yields an equal index.
func BuildIndex(items []Item, valueKey string) Index {
	idx := make(Index, len(items))
	for _, it := range items {
		idx[keyOf(it.project(valueKey))] = it
	}

	return idx
}

// Lookup returns the item whose value has the same string form as v.
func (idx Index) Lookup(v any) (Item, bool) {
	it, ok := idx[keyOf(v)]

	return it, ok
}
