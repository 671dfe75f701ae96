package paging

import (
	"fmt"

	"github.com/pkg/errors"
)

// IntentKind identifies a navigation request
type IntentKind int

const (
	IntentJumpTo IntentKind = iota
	IntentNext
	IntentPrev
	IntentFirst
	IntentLast
	IntentSkip
)

// Intent is a navigation request from the user
type Intent struct {
	Kind  IntentKind
	Page  int // target for IntentJumpTo
	Delta int // distance for IntentSkip
}

func JumpTo(page int) Intent { return Intent{Kind: IntentJumpTo, Page: page} }
func Next() Intent { return Intent{Kind: IntentNext} }
func Prev() Intent { return Intent{Kind: IntentPrev} }
func First() Intent { return Intent{Kind: IntentFirst} }
func Last() Intent { return Intent{Kind: IntentLast} }
func Skip(delta int) Intent { return Intent{Kind: IntentSkip, Delta: delta} }

func (i Intent) String() string {
	switch i.Kind {
	case IntentJumpTo:
		return fmt.Sprintf("jump(%d)", i.Page)
	case IntentNext:
		return "next"
	case IntentPrev:
		return "prev"
	case IntentFirst:
		return "first"
	case IntentLast:
		return "last"
	case IntentSkip:
		return fmt.Sprintf("skip(%+d)", i.Delta)
	default:
		return "unknown"
	}
}

// Target resolves the intent against the committed page
func (i Intent) Target(s State) int {
	switch i.Kind {
	case IntentJumpTo:
		return i.Page
	case IntentNext:
		return s.Current() + 1
	case IntentPrev:
		return s.Current() - 1
	case IntentFirst:
		return 1
	case IntentLast:
		return s.TotalPages()
	case IntentSkip:
		return s.Current() + i.Delta
	default:
		return 0
	}
}

// apply moves s to the intent's target, or rejects it
func (i Intent) apply(s *State) error {
	switch i.Kind {
	case IntentNext:
		return s.Advance(1)
	case IntentPrev:
		return s.Advance(-1)
	case IntentSkip:
		return s.Advance(i.Delta)
	case IntentJumpTo, IntentFirst, IntentLast:
		return s.JumpTo(i.Target(*s))
	default:
		return errors.Errorf("unknown intent kind %d", i.Kind)
	}
}
