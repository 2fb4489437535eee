package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginState backs the sign-in prompt. The backend identifies users by a
// bare numeric id from the ratings dataset.
type loginState struct {
	input   textinput.Model
	busy    bool
	errText string
}

func newLoginState() loginState {
	in := textinput.New()
	in.Placeholder = "user id"
	in.CharLimit = 10
	in.Width = 20
	return loginState{input: in}
}

func (m *Model) loginKey(msg tea.KeyMsg) tea.Cmd {
	if m.login.busy {
		return nil
	}
	switch msg.String() {
	case "esc":
		return m.enterPage(m.prevPage)
	case "enter":
		raw := strings.TrimSpace(m.login.input.Value())
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			m.login.errText = "user id must be a non-negative number"
			return nil
		}
		m.login.busy = true
		m.login.errText = ""
		return loginCmd(m.Session, id)
	}
	var cmd tea.Cmd
	m.login.input, cmd = m.login.input.Update(msg)
	return cmd
}
