package paging

import "github.com/pkg/errors"

var (
	// ErrOutOfRange is returned when a page lies outside [1, TotalPages]
	ErrOutOfRange = errors.New("page out of range")
	// ErrInvalidTotal is returned when a session would have no pages
	ErrInvalidTotal = errors.New("total pages must be at least 1")
)

// State is the pagination position of one search session.
// The zero value has no pages; use NewState or Reset.
type State struct {
	current int
	total   int
}

// NewState returns a state positioned on page 1
func NewState(totalPages int) (State, error) {
	var s State
	if err := s.Reset(totalPages); err != nil {
		return State{}, err
	}
	return s, nil
}

// Current returns the 1-indexed current page
func (s State) Current() int { return s.current }

// TotalPages returns the number of pages in the session
func (s State) TotalPages() int { return s.total }

// Contains reports whether page is a valid target
func (s State) Contains(page int) bool {
	return page >= 1 && page <= s.total
}

// JumpTo moves to page. Targets outside the valid range are rejected and
// leave the state untouched.
func (s *State) JumpTo(page int) error {
	if !s.Contains(page) {
		return errors.Wrapf(ErrOutOfRange, "page %d of %d", page, s.total)
	}
	s.current = page
	return nil
}

// Advance moves delta pages forward (negative delta moves back)
func (s *State) Advance(delta int) error {
	return s.JumpTo(s.current + delta)
}

// Reset starts over on page 1 with a new page count
func (s *State) Reset(totalPages int) error {
	if totalPages < 1 {
		return errors.Wrapf(ErrInvalidTotal, "got %d", totalPages)
	}
	s.total = totalPages
	s.current = 1
	return nil
}
