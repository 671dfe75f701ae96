package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"recipegrip/internal/paging"
	"recipegrip/internal/ui/input/types"
)

type NormalMode struct {
	keys KeyMap
}

func NewNormalMode() *NormalMode {
	return &NormalMode{keys: Keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyCtrlC {
		return []types.Action{types.QuitAction{Force: true}}, true
	}

	if ctx.BarFocused() {
		if actions, ok := m.handleBarKey(msg); ok {
			return actions, true
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{Force: false}}, true

	case key.Matches(msg, m.keys.Search):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.Query()}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true

	case key.Matches(msg, m.keys.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, m.keys.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, m.keys.Cancel):
		if ctx.InFlight() {
			return []types.Action{types.CancelFetchAction{}}, true
		}
		return nil, true // Consume the key even if no action

	// A failed first search leaves no session but can be retried
	case key.Matches(msg, m.keys.Retry):
		if ctx.CanRetry() {
			return []types.Action{types.RetryAction{}}, true
		}
		return nil, true
	}

	// Everything below needs a search to work on
	if !ctx.HasSession() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return page(paging.Next()), true

	case key.Matches(msg, m.keys.Prev):
		return page(paging.Prev()), true

	case key.Matches(msg, m.keys.First):
		return page(paging.First()), true

	case key.Matches(msg, m.keys.Last):
		return page(paging.Last()), true

	case key.Matches(msg, m.keys.SkipFwd):
		return page(paging.Skip(ctx.WindowSize())), true

	case key.Matches(msg, m.keys.SkipBack):
		return page(paging.Skip(-ctx.WindowSize())), true

	case key.Matches(msg, m.keys.FocusBar):
		return []types.Action{types.FocusBarAction{}}, true

	case key.Matches(msg, m.keys.Jump):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeJump}}, true


	case key.Matches(msg, m.keys.Open):
		if ctx.TotalItems() > 0 {
			return []types.Action{types.OpenRecipeAction{}}, true
		}
		return nil, false
	}

	return nil, false
}

// handleBarKey handles keys while the pagination bar has focus
func (m *NormalMode) handleBarKey(msg tea.KeyMsg) ([]types.Action, bool) {
	switch msg.String() {
	case "left", "h":
		return []types.Action{types.MoveBarAction{Delta: -1}}, true
	case "right", "l":
		return []types.Action{types.MoveBarAction{Delta: 1}}, true
	case "enter", " ":
		return []types.Action{types.ActivateBarAction{}}, true
	case "tab", "esc":
		return []types.Action{types.FocusBarAction{}}, true
	}
	return nil, false
}

func page(intent paging.Intent) []types.Action {
	return []types.Action{types.PageAction{Intent: intent}}
}
