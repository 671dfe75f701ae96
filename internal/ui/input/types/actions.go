package types

import "recipegrip/internal/paging"

// Cursor movement over the results of the current page
type NavigateAction struct {
	Direction string // "up", "down", "top", "bottom"
}

func (a NavigateAction) Type() string { return "navigate" }

// Page navigation
type PageAction struct {
	Intent paging.Intent
}

func (a PageAction) Type() string { return "page" }

// Pagination bar actions
type FocusBarAction struct{}

func (a FocusBarAction) Type() string { return "focus_bar" }

type MoveBarAction struct {
	Delta int // -1 left, +1 right
}

func (a MoveBarAction) Type() string { return "move_bar" }

type ActivateBarAction struct{}

func (a ActivateBarAction) Type() string { return "activate_bar" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Command actions
type OpenRecipeAction struct{}

func (a OpenRecipeAction) Type() string { return "open_recipe" }

type CancelFetchAction struct{}

func (a CancelFetchAction) Type() string { return "cancel_fetch" }

type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
