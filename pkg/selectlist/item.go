package selectlist

import (
	"fmt"
	"strconv"
)

// Kind tells the two [Item] variants apart.
type Kind int

const (
	KindPrimitive Kind = iota
	KindRecord
)

// Item is a list entry: either a primitive (string, number, bool) or a record
// of named fields. The variant is decided once, when the item is created.
type Item struct {
	value  any
	record map[string]any
	kind   Kind
}

// Primitive returns an [Item] holding v as-is. Its label and value are both v.
func Primitive(v any) Item {
	return Item{kind: KindPrimitive, value: v}
}

// Record returns an [Item] whose label and value are projected from fields.
func Record(fields map[string]any) Item {
	if fields == nil {
		fields = map[string]any{}
	}

	return Item{kind: KindRecord, record: fields}
}

// NewItem picks the variant for v: maps become records, anything else is a
// primitive.
func NewItem(v any) Item {
	switch x := v.(type) {
	case Item:
		return x
	case map[string]any:
		return Record(x)
	case map[string]string:
		m := make(map[string]any, len(x))
		for k, s := range x {
			m[k] = s
		}

		return Record(m)
	default:
		return Primitive(v)
	}
}

func NewItems(vs []any) []Item {
	items := make([]Item, 0, len(vs))
	for _, v := range vs {
		items = append(items, NewItem(v))
	}

	return items
}

// Strings converts a list of strings into primitive items.
func Strings(vs ...string) []Item {
	items := make([]Item, 0, len(vs))
	for _, v := range vs {
		items = append(items, Primitive(v))
	}

	return items
}

func (i Item) Kind() Kind {
	return i.kind
}

func (i Item) IsRecord() bool {
	return i.kind == KindRecord
}

// Field returns a record field. Primitives have no fields.
func (i Item) Field(key string) (any, bool) {
	if i.kind != KindRecord {
		return nil, false
	}

	v, ok := i.record[key]

	return v, ok
}

// project returns the record field key, or the primitive itself.
func (i Item) project(key string) any {
	if i.kind == KindRecord {
		return i.record[key]
	}

	return i.value
}

// color returns the record's "color" field, if it is a non-empty string.
func (i Item) color() string {
	v, ok := i.Field("color")
	if !ok {
		return ""
	}

	s, _ := v.(string)

	return s
}

// keyOf returns the string form used as the [Index] key for v, so 1, "1" and
// 1.0 all address the same entry.
func keyOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}

func display(v any) string {
	if v == nil {
		return ""
	}

	return keyOf(v)
}
