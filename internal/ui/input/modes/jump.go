package modes

import (
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"recipegrip/internal/ui/input/types"
)

// JumpMode reads a page number
type JumpMode struct {
	TextInputMode
}

func NewJumpMode(ti *textinput.Model) *JumpMode {
	return &JumpMode{
		TextInputMode: NewTextInputMode(types.ModeJump, "jump", "Go to page: ", ti),
	}
}

func (m *JumpMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return nil, true // Swallow anything that is not a digit
			}
		}
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
