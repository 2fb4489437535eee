package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/domain"
)

// historyState backs the profile screen with two panes: watch history
// and the user's own ratings, each paginated server-side.
type historyState struct {
	tab     int // 0 = history, 1 = ratings
	hist    domain.Page[domain.HistoryEntry]
	ratings domain.Page[domain.Rating]
	histPg  int
	ratePg  int
	cursor  int
	width   int
	height  int
}

func newHistoryState() historyState {
	return historyState{histPg: 1, ratePg: 1}
}

func (h *historyState) resize(w, height int) {
	h.width = w
	h.height = height
}

func (m *Model) enterHistory() tea.Cmd {
	if !m.Session.IsAuthenticated() {
		return statusCmd("sign in to see your history", true)
	}
	token := m.Session.Token()
	userID := m.Session.Current().User.UserID
	return tea.Batch(
		loadHistoryPageCmd(m.Profile, m.Coord.Begin(sectionHistory), token, m.history.histPg, m.Cfg.UI.PageSize),
		loadRatingsPageCmd(m.Profile, m.Coord.Begin(sectionRatings), userID, m.history.ratePg, m.Cfg.UI.PageSize),
	)
}

func (m *Model) updateHistory(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case HistoryPageMsg:
		if m.Coord.Complete(sectionHistory, msg.Epoch, msg.Err) {
			if msg.Err != nil {
				return m.maybeInvalidate(msg.Err)
			}
			m.history.hist = msg.Page
			m.clampHistoryCursor()
		}
	case RatingsPageMsg:
		if m.Coord.Complete(sectionRatings, msg.Epoch, msg.Err) {
			if msg.Err != nil {
				return m.maybeInvalidate(msg.Err)
			}
			m.history.ratings = msg.Page
			m.clampHistoryCursor()
		}
	case HistoryRemovedMsg:
		if msg.Err != nil {
			if cmd := m.maybeInvalidate(msg.Err); cmd != nil {
				return cmd
			}
			return statusCmd(humanizeErr(msg.Err), true)
		}
		return tea.Batch(statusCmd("removed from history", false), m.reloadHistoryTab())
	case RatingSavedMsg:
		// A rating deleted from this screen; refresh the ratings pane.
		if m.page == PageHistory && msg.Err == nil {
			return m.reloadHistoryTab()
		}
	}
	return nil
}

func (m *Model) reloadHistoryTab() tea.Cmd {
	if !m.Session.IsAuthenticated() {
		return nil
	}
	if m.history.tab == 0 {
		token := m.Session.Token()
		return loadHistoryPageCmd(m.Profile, m.Coord.Begin(sectionHistory), token, m.history.histPg, m.Cfg.UI.PageSize)
	}
	userID := m.Session.Current().User.UserID
	return loadRatingsPageCmd(m.Profile, m.Coord.Begin(sectionRatings), userID, m.history.ratePg, m.Cfg.UI.PageSize)
}

func (m *Model) historyKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Tab):
		m.history.tab = 1 - m.history.tab
		m.history.cursor = 0
	case key.Matches(msg, Keys.Up):
		if m.history.cursor > 0 {
			m.history.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.history.cursor < m.historyTabLen()-1 {
			m.history.cursor++
		}
	case key.Matches(msg, Keys.NextPage):
		return m.historyTurnPage(1)
	case key.Matches(msg, Keys.PrevPage):
		return m.historyTurnPage(-1)
	case key.Matches(msg, Keys.Enter):
		if id := m.historySelectedID(); id != 0 {
			return m.openDetail(id)
		}
	case key.Matches(msg, Keys.Unrate):
		id := m.historySelectedID()
		if id == 0 || !m.Session.IsAuthenticated() {
			return nil
		}
		if m.history.tab == 0 {
			return unwatchCmd(m.Profile, m.Session.Token(), id)
		}
		return unrateCmd(m.Profile, m.Session.Token(), id)
	case key.Matches(msg, Keys.Refresh):
		return m.enterHistory()
	}
	return nil
}

func (m *Model) historyTurnPage(delta int) tea.Cmd {
	if m.history.tab == 0 {
		next := m.history.histPg + delta
		if next < 1 || (m.history.hist.Pages > 0 && next > m.history.hist.Pages) {
			return nil
		}
		m.history.histPg = next
	} else {
		next := m.history.ratePg + delta
		if next < 1 || (m.history.ratings.Pages > 0 && next > m.history.ratings.Pages) {
			return nil
		}
		m.history.ratePg = next
	}
	m.history.cursor = 0
	return m.reloadHistoryTab()
}

func (m *Model) historyTabLen() int {
	if m.history.tab == 0 {
		return len(m.history.hist.Items)
	}
	return len(m.history.ratings.Items)
}

func (m *Model) historySelectedID() int {
	if m.history.tab == 0 {
		if m.history.cursor < len(m.history.hist.Items) {
			return m.history.hist.Items[m.history.cursor].AnimeID
		}
		return 0
	}
	if m.history.cursor < len(m.history.ratings.Items) {
		return m.history.ratings.Items[m.history.cursor].AnimeID
	}
	return 0
}

func (m *Model) clampHistoryCursor() {
	if n := m.historyTabLen(); m.history.cursor >= n && n > 0 {
		m.history.cursor = n - 1
	} else if n == 0 {
		m.history.cursor = 0
	}
}
