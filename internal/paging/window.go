package paging

import (
	"strconv"
	"strings"
)

// DefaultWindowSize is the number of page numbers visible before collapsing
const DefaultWindowSize = 5

// ControlKind identifies a pagination control
type ControlKind int

const (
	KindPage ControlKind = iota
	KindEllipsis
	KindFirst
	KindPrev
	KindNext
	KindLast
)

func (k ControlKind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindEllipsis:
		return "ellipsis"
	case KindFirst:
		return "first"
	case KindPrev:
		return "prev"
	case KindNext:
		return "next"
	case KindLast:
		return "last"
	default:
		return "unknown"
	}
}

// Control is one item of the pagination bar
type Control struct {
	Kind   ControlKind
	Page   int  // only set for KindPage
	Active bool // only ever true for the KindPage equal to the current page
}

// Interactive reports whether activating the control navigates somewhere
func (c Control) Interactive() bool {
	return c.Kind != KindEllipsis
}

// Intent returns the navigation intent the control triggers
func (c Control) Intent() (Intent, bool) {
	switch c.Kind {
	case KindPage:
		return JumpTo(c.Page), true
	case KindFirst:
		return First(), true
	case KindPrev:
		return Prev(), true
	case KindNext:
		return Next(), true
	case KindLast:
		return Last(), true
	default:
		return Intent{}, false
	}
}

func (c Control) String() string {
	switch c.Kind {
	case KindPage:
		if c.Active {
			return "[" + strconv.Itoa(c.Page) + "]"
		}
		return strconv.Itoa(c.Page)
	case KindEllipsis:
		return "..."
	default:
		return c.Kind.String()
	}
}

// Window is the ordered list of controls for one pagination state
type Window []Control

// ActiveIndex returns the position of the active page control, or -1
func (w Window) ActiveIndex() int {
	for i, c := range w {
		if c.Kind == KindPage && c.Active {
			return i
		}
	}
	return -1
}

// Pages returns the page numbers in display order
func (w Window) Pages() []int {
	pages := make([]int, 0, len(w))
	for _, c := range w {
		if c.Kind == KindPage {
			pages = append(pages, c.Page)
		}
	}
	return pages
}

// Has reports whether a control of the given kind is present
func (w Window) Has(kind ControlKind) bool {
	for _, c := range w {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func (w Window) String() string {
	parts := make([]string, len(w))
	for i, c := range w {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ComputeWindow builds the pagination bar for the given page.
//
// When every page fits no collapsing happens. Otherwise the bar is in one of
// three regions: near the left edge (the first windowSize pages and Next),
// near the right edge (Prev and the last windowSize pages), or in between
// (edge jumps, both boundary pages and a run of windowSize pages centred on
// current, separated by ellipses).
func ComputeWindow(current, total, windowSize int) Window {
	if total < 1 {
		return Window{}
	}
	if windowSize < 1 {
		windowSize = DefaultWindowSize
	}
	current = clamp(current, 1, total)

	if total <= windowSize {
		return pageRun(make(Window, 0, total), 1, total, current)
	}

	half := windowSize / 2
	tail := windowSize - 1 - half

	switch {
	case current <= half+1:
		w := make(Window, 0, windowSize+1)
		w = pageRun(w, 1, windowSize, current)
		return append(w, Control{Kind: KindNext})

	case current >= total-tail:
		w := make(Window, 0, windowSize+1)
		w = append(w, Control{Kind: KindPrev})
		return pageRun(w, total-windowSize+1, total, current)

	default:
		lo := clamp(current-half, 2, total-1)
		hi := clamp(current+tail, 2, total-1)

		w := make(Window, 0, windowSize+8)
		w = append(w,
			Control{Kind: KindFirst},
			Control{Kind: KindPrev},
			pageControl(1, current),
			Control{Kind: KindEllipsis},
		)
		w = pageRun(w, lo, hi, current)
		return append(w,
			Control{Kind: KindEllipsis},
			pageControl(total, current),
			Control{Kind: KindNext},
			Control{Kind: KindLast},
		)
	}
}

func pageRun(w Window, from, to, current int) Window {
	for n := from; n <= to; n++ {
		w = append(w, pageControl(n, current))
	}
	return w
}

func pageControl(n, current int) Control {
	return Control{Kind: KindPage, Page: n, Active: n == current}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
