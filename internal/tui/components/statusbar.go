package components

import (
	"fmt"
	"strings"

	"github.com/rsawada/aniterm/internal/tui/styles"
)

// StatusBar is the single footer line: identity on the left, transient
// status message on the right.
type StatusBar struct {
	width    int
	identity string
	message  string
	isErr    bool
	link     string
}

// NewStatusBar creates an empty status bar.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) { s.width = width }

// SetIdentity sets the left-hand identity text ("user 42" or "anonymous").
func (s *StatusBar) SetIdentity(identity string) { s.identity = identity }

// SetMessage sets a transient status message.
func (s *StatusBar) SetMessage(msg string, isErr bool) {
	s.message = msg
	s.isErr = isErr
}

// ClearMessage removes the transient message.
func (s *StatusBar) ClearMessage() {
	s.message = ""
	s.isErr = false
}

// SetLink sets the shareable deep link for the current view.
func (s *StatusBar) SetLink(link string) { s.link = link }

// View renders the bar.
func (s StatusBar) View() string {
	left := styles.AccentStyle.Render(s.identity)
	if s.link != "" {
		left = fmt.Sprintf("%s  %s", left, styles.DimStyle.Render(s.link))
	}

	right := s.message
	if right != "" {
		if s.isErr {
			right = styles.ErrorStyle.Render(right)
		} else {
			right = styles.SuccessStyle.Render(right)
		}
	}

	gap := s.width - visibleLen(left) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// visibleLen approximates printable width by stripping ANSI sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			n++
		}
	}
	return n
}
