package uitest

// Size is a terminal size in cells.
type Size struct {
	Width  int
	Height int
}

// Standard fits every column of the currency table.
const (
	StandardWidth  = 120
	StandardHeight = 40
)

var Standard = Size{Width: StandardWidth, Height: StandardHeight}
