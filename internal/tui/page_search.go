package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/tui/components"
)

// searchState backs the search screen. The input's live value and the
// query the visible results answer are tracked separately; the debouncer
// sits between them.
type searchState struct {
	input     textinput.Model
	list      components.ItemList
	resultsOf string // query the current results belong to
	vector    bool   // semantic search toggle
	probed    bool   // availability probe already ran
}

func newSearchState() searchState {
	in := textinput.New()
	in.Placeholder = "search anime (min 2 chars)"
	in.CharLimit = 120
	return searchState{
		input: in,
		list:  components.NewItemList(),
	}
}

func (s *searchState) resize(w, h int) {
	s.input.Width = w - 4
	s.list.SetSize(w, h-3)
}

func (m *Model) enterSearch() tea.Cmd {
	m.search.input.Focus()
	cmds := []tea.Cmd{textinput.Blink}
	// A seeded query (deep link) runs immediately, no debounce.
	if q := m.search.input.Value(); q != "" && q != m.search.resultsOf {
		cmds = append(cmds, m.fireSearch(q))
	}
	return tea.Batch(cmds...)
}

// fireSearch runs a search for a settled query. Queries below the length
// floor clear the results without touching the network.
func (m *Model) fireSearch(q string) tea.Cmd {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		m.search.resultsOf = q
		m.search.list.SetItems(nil)
		m.Coord.Reset(sectionSearch)
		return nil
	}
	epoch := m.Coord.Begin(sectionSearch)
	return searchCmd(m.Catalog, epoch, q, m.search.vector, m.Cfg.UI.PageSize*2)
}

func (m *Model) updateSearch(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SearchResultsMsg:
		if m.Coord.Complete(sectionSearch, msg.Epoch, msg.Err) && msg.Err == nil {
			m.search.resultsOf = msg.Query
			m.search.list.SetItems(msg.Items)
		}
	case VectorProbeMsg:
		m.search.probed = true
		if !msg.OK {
			m.search.vector = false
			return statusCmd("semantic search unavailable on this backend", true)
		}
	}
	return nil
}

func (m *Model) searchKey(msg tea.KeyMsg) tea.Cmd {
	if m.search.input.Focused() {
		switch msg.String() {
		case "esc":
			m.search.input.Blur()
			return nil
		case "enter":
			m.Debounce.Flush()
			m.search.input.Blur()
			return nil
		case "down":
			m.search.input.Blur()
			m.search.list.CursorDown()
			return nil
		}
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		m.Debounce.Set(m.search.input.Value())
		m.refreshLink()
		return cmd
	}

	switch {
	case key.Matches(msg, Keys.Filter):
		m.search.input.Focus()
		return textinput.Blink
	case key.Matches(msg, Keys.Up):
		m.search.list.CursorUp()
	case key.Matches(msg, Keys.Down):
		m.search.list.CursorDown()
	case key.Matches(msg, Keys.Enter):
		if item := m.search.list.Selected(); item != nil {
			return m.openDetail(item.ID)
		}
	case key.Matches(msg, Keys.VectorToggle):
		m.search.vector = !m.search.vector
		var cmds []tea.Cmd
		if m.search.vector && !m.search.probed {
			cmds = append(cmds, probeVectorCmd(m.Catalog))
		}
		if q := m.search.input.Value(); len(strings.TrimSpace(q)) >= 2 {
			cmds = append(cmds, m.fireSearch(q))
		}
		return tea.Batch(cmds...)
	case key.Matches(msg, Keys.Escape):
		m.search.input.SetValue("")
		m.Debounce.Cancel()
		m.search.resultsOf = ""
		m.search.list.SetItems(nil)
		m.Coord.Reset(sectionSearch)
		m.refreshLink()
	}
	return nil
}
