package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipegrip/internal/paging"
	"recipegrip/internal/ui/input/types"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sessionCtx() *ModelContext {
	return &ModelContext{
		ResultCount: 10,
		SearchQuery: "pasta",
		Session:     true,
		Window:      5,
	}
}

func TestNormalModePageKeys(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want paging.Intent
	}{
		{runes("n"), paging.Next()},
		{tea.KeyMsg{Type: tea.KeyRight}, paging.Next()},
		{runes("l"), paging.Next()},
		{runes("b"), paging.Prev()},
		{tea.KeyMsg{Type: tea.KeyLeft}, paging.Prev()},
		{runes("g"), paging.First()},
		{tea.KeyMsg{Type: tea.KeyHome}, paging.First()},
		{runes("G"), paging.Last()},
		{tea.KeyMsg{Type: tea.KeyEnd}, paging.Last()},
		{runes("]"), paging.Skip(5)},
		{runes("["), paging.Skip(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			h := New()
			actions, _ := h.HandleKey(tt.key, sessionCtx())
			require.Len(t, actions, 1)
			assert.Equal(t, types.PageAction{Intent: tt.want}, actions[0])
		})
	}
}

func TestNormalModeWithoutSession(t *testing.T) {
	h := New()
	ctx := &ModelContext{Window: 5}

	actions, _ := h.HandleKey(runes("n"), ctx)
	assert.Empty(t, actions, "paging keys need a search")

	actions, _ = h.HandleKey(runes("q"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.QuitAction{Force: false}, actions[0])

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.QuitAction{Force: true}, actions[0])
}

func TestSearchModeSubmit(t *testing.T) {
	h := New()
	ctx := sessionCtx()

	actions, cmd := h.HandleKey(runes("/"), ctx)
	assert.Empty(t, actions)
	assert.NotNil(t, cmd, "entering a text mode starts the cursor blink")
	assert.Equal(t, types.ModeSearch, h.CurrentMode())
	assert.Equal(t, "Search recipes: ", h.Prompt())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "pasta", h.TextInput().Value(), "search starts from the current query")

	// Clear the prefilled query
	for range "pasta" {
		h.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace}, ctx)
	}
	actions, _ = h.HandleKey(runes("soup"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "soup"}, actions[0])

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.SubmitTextAction{Text: "soup", Mode: types.ModeSearch}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestSearchModeEscCancels(t *testing.T) {
	h := New()
	ctx := sessionCtx()
	h.HandleKey(runes("/"), ctx)
	h.HandleKey(runes("x"), ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.CancelTextAction{}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestJumpModeAcceptsDigitsOnly(t *testing.T) {
	h := New()
	ctx := sessionCtx()

	h.HandleKey(runes(":"), ctx)
	require.Equal(t, types.ModeJump, h.CurrentMode())
	assert.Empty(t, h.TextInput().Value())

	h.HandleKey(runes("7"), ctx)
	h.HandleKey(runes("a"), ctx)
	h.HandleKey(runes("3"), ctx)
	assert.Equal(t, "73", h.TextInput().Value())

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.SubmitTextAction{Text: "73", Mode: types.ModeJump}, actions[0])
}

func TestBarFocusKeys(t *testing.T) {
	h := New()
	ctx := sessionCtx()

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.FocusBarAction{}, actions[0])

	ctx.BarFocus = true
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyLeft}, ctx)
	assert.Equal(t, []types.Action{types.MoveBarAction{Delta: -1}}, actions)

	actions, _ = h.HandleKey(runes("l"), ctx)
	assert.Equal(t, []types.Action{types.MoveBarAction{Delta: 1}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Equal(t, []types.Action{types.ActivateBarAction{}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.FocusBarAction{}}, actions)

	// Other keys keep working while the bar has focus
	actions, _ = h.HandleKey(runes("G"), ctx)
	assert.Equal(t, []types.Action{types.PageAction{Intent: paging.Last()}}, actions)
}

func TestCancelAndRetryKeys(t *testing.T) {
	h := New()
	ctx := sessionCtx()

	actions, _ := h.HandleKey(runes("x"), ctx)
	assert.Empty(t, actions, "nothing to cancel")

	ctx.Fetching = true
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.CancelFetchAction{}}, actions)

	actions, _ = h.HandleKey(runes("r"), ctx)
	assert.Empty(t, actions)
	ctx.Retryable = true
	actions, _ = h.HandleKey(runes("r"), ctx)
	assert.Equal(t, []types.Action{types.RetryAction{}}, actions)
}

func TestOpenRecipeNeedsResults(t *testing.T) {
	h := New()
	ctx := sessionCtx()

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Equal(t, []types.Action{types.OpenRecipeAction{}}, actions)

	ctx.ResultCount = 0
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Empty(t, actions)
}

func TestRetryWithoutSession(t *testing.T) {
	h := New()
	ctx := &ModelContext{Window: 5, Retryable: true}

	actions, _ := h.HandleKey(runes("r"), ctx)
	assert.Equal(t, []types.Action{types.RetryAction{}}, actions, "a failed first search can be retried")
}
