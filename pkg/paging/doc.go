// Package paging provides page-window computation and a pagination control
// for Bubble Tea containers.
//
// [ComputeWindow] returns the page numbers to show around the current page,
// with [Ellipsis] entries standing in for skipped ranges:
//
//	ComputeWindow(6, 12) // 1 ... 4 5 6 7 8 ... 12
//
// [Control] is stateless. The container owns a [State], builds a control from
// it on every render, and applies the [PageChangedMsg] and [PerPageMsg]
// intents the control emits.
package paging
