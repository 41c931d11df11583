package model

// WindowKind names a singleton window.
type WindowKind string

const (
	WindowMain    WindowKind = "main"
	WindowForm    WindowKind = "form"
	WindowSummary WindowKind = "summary"
)

// WindowKinds lists every known kind in display order.
var WindowKinds = []WindowKind{WindowMain, WindowForm, WindowSummary}

// Valid reports whether the kind is a known window kind.
func (kind WindowKind) Valid() bool {
	switch kind {
	case WindowMain, WindowForm, WindowSummary:
		return true
	default:
		return false
	}
}
