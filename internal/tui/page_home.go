package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/tui/components"
)

// homeState backs the landing screen: a public top-anime rail plus two
// signed-in sections (personal recommendations, recent history). Each
// section loads and fails independently.
type homeState struct {
	top     components.ItemList
	recs    components.ItemList
	recent  []domain.HistoryEntry
	recsVia string // model the backend actually used
	focus   int    // 0 = top, 1 = recs
}

func newHomeState() homeState {
	return homeState{
		top:  components.NewItemList(),
		recs: components.NewItemList(),
	}
}

func (h *homeState) resize(w, height int) {
	listH := height / 2
	h.top.SetSize(w, listH)
	h.recs.SetSize(w, listH)
}

func (m *Model) enterHome() tea.Cmd {
	// Paint the cached top list immediately; the fetch replaces it.
	if m.home.top.Len() == 0 {
		if cached, ok := m.Catalog.CachedTop(); ok {
			m.home.top.SetItems(cached)
		}
	}
	cmds := []tea.Cmd{
		loadTopCmd(m.Catalog, m.Coord.Begin(sectionHomeTop), m.Cfg.UI.PageSize),
	}
	if m.Session.IsAuthenticated() {
		token := m.Session.Token()
		cmds = append(cmds,
			loadRecsCmd(m.Rec, m.Coord.Begin(sectionHomeRecs), token, m.Cfg.UI.PageSize),
			loadRecentHistoryCmd(m.Profile, m.Coord.Begin(sectionHomeHistory), token, 5),
		)
	} else {
		// Anonymous users simply have no personal sections; the absence
		// is not an error state.
		m.Coord.Reset(sectionHomeRecs)
		m.Coord.Reset(sectionHomeHistory)
		m.home.recs.SetItems(nil)
		m.home.recent = nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateHome(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TopLoadedMsg:
		if m.Coord.Complete(sectionHomeTop, msg.Epoch, msg.Err) && msg.Err == nil {
			m.home.top.SetItems(msg.Items)
		}
	case RecsLoadedMsg:
		if m.Coord.Complete(sectionHomeRecs, msg.Epoch, msg.Err) {
			if msg.Err != nil {
				return m.maybeInvalidate(msg.Err)
			}
			m.home.recs.SetItems(msg.Set.Items)
			m.home.recsVia = msg.Set.ModelUsed
		}
	case RecentHistoryMsg:
		if m.Coord.Complete(sectionHomeHistory, msg.Epoch, msg.Err) {
			if msg.Err != nil {
				return m.maybeInvalidate(msg.Err)
			}
			m.home.recent = msg.Page.Items
		}
	}
	return nil
}

func (m *Model) homeKey(msg tea.KeyMsg) tea.Cmd {
	list := &m.home.top
	if m.home.focus == 1 {
		list = &m.home.recs
	}
	switch {
	case key.Matches(msg, Keys.Tab):
		if m.Session.IsAuthenticated() {
			m.home.focus = 1 - m.home.focus
		}
	case key.Matches(msg, Keys.Up):
		list.CursorUp()
	case key.Matches(msg, Keys.Down):
		list.CursorDown()
	case key.Matches(msg, Keys.Enter):
		if item := list.Selected(); item != nil {
			return m.openDetail(item.ID)
		}
	case key.Matches(msg, Keys.Refresh):
		return m.enterHome()
	}
	return nil
}

// maybeInvalidate demotes the session to anonymous when the backend
// rejected its token, clearing the personal sections.
func (m *Model) maybeInvalidate(err error) tea.Cmd {
	if !errors.Is(err, domain.ErrUnauthorized) {
		return nil
	}
	m.Session.Invalidate(err)
	m.sessState = m.Session.State()
	m.StatusBar.SetIdentity("anonymous")
	return statusCmd("session expired, signed out", true)
}
