package views

import (
	"strconv"
	"strings"

	"recipegrip/internal/paging"
)

// PaginationRenderer draws the page window as a bar like
// « ‹ 1 … 4 5 [6] 7 8 … 10 › »
type PaginationRenderer struct {
	styles *Styles
}

// NewPaginationRenderer creates a new pagination renderer
func NewPaginationRenderer(styles *Styles) *PaginationRenderer {
	return &PaginationRenderer{styles: styles}
}

// Label returns the unstyled text of a control
func Label(c paging.Control) string {
	switch c.Kind {
	case paging.KindPage:
		if c.Active {
			return "[" + strconv.Itoa(c.Page) + "]"
		}
		return strconv.Itoa(c.Page)
	case paging.KindEllipsis:
		return "…"
	case paging.KindFirst:
		return "«"
	case paging.KindPrev:
		return "‹"
	case paging.KindNext:
		return "›"
	case paging.KindLast:
		return "»"
	}
	return "?"
}

// Labels returns the unstyled text of every control in w
func Labels(w paging.Window) []string {
	labels := make([]string, len(w))
	for i, c := range w {
		labels[i] = Label(c)
	}
	return labels
}

// Render draws the bar. focus is the index of the focused control, or -1.
func (r *PaginationRenderer) Render(w paging.Window, focus int) string {
	if len(w) == 0 {
		return ""
	}
	parts := make([]string, len(w))
	for i, c := range w {
		label := Label(c)
		style := r.styles.PageControl
		switch {
		case c.Active:
			style = r.styles.PageActive
		case c.Kind == paging.KindEllipsis:
			style = r.styles.Dim
		}
		if i == focus {
			style = style.Inherit(r.styles.PageFocus)
		}
		parts[i] = style.Render(label)
	}
	return strings.Join(parts, " ")
}

// NextFocus moves focus by delta to the next interactive control, staying
// put at either end
func NextFocus(w paging.Window, focus, delta int) int {
	if len(w) == 0 {
		return -1
	}
	if focus < 0 || focus >= len(w) {
		return w.ActiveIndex()
	}
	for i := focus + delta; i >= 0 && i < len(w); i += delta {
		if w[i].Interactive() {
			return i
		}
	}
	return focus
}
