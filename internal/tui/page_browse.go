package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/query"
	"github.com/rsawada/aniterm/internal/service"
	"github.com/rsawada/aniterm/internal/tui/components"
)

// browseState backs the paginated catalog screen. Its filter state is the
// canonical query.State; every change goes through a With* transition so
// filter edits reset the page and the shareable link stays accurate.
type browseState struct {
	state query.State
	list  components.ItemList
	page  domain.Page[domain.DisplayItem]

	genres []string

	pickerOpen   bool
	pickerCursor int
	pickerInput  textinput.Model
	pickerItems  []string

	// Local quick-filter over the loaded page; never touches the network.
	filterOpen  bool
	filterInput textinput.Model
}

func newBrowseState() browseState {
	in := textinput.New()
	in.Placeholder = "filter genres"
	in.CharLimit = 40
	fin := textinput.New()
	fin.Placeholder = "filter this page"
	fin.CharLimit = 60
	return browseState{
		state:       query.New(),
		list:        components.NewItemList(),
		pickerInput: in,
		filterInput: fin,
	}
}

// applyQuickFilter narrows the visible list to fuzzy matches of the filter
// text within the already-loaded page.
func (m *Model) applyQuickFilter() {
	q := m.browse.filterInput.Value()
	if q == "" {
		m.browse.list.SetItems(m.browse.page.Items)
		return
	}
	results := service.FilterItems(m.browse.page.Items, q)
	items := make([]domain.DisplayItem, 0, len(results))
	for _, r := range results {
		items = append(items, r.Item)
	}
	m.browse.list.SetItems(items)
}

func (b *browseState) resize(w, h int) {
	b.list.SetSize(w, h-2)
}

func (m *Model) enterBrowse() tea.Cmd {
	cmds := []tea.Cmd{
		loadBrowseCmd(m.Catalog, m.Coord.Begin(sectionBrowse), m.browse.state, m.Cfg.UI.PageSize),
	}
	if len(m.browse.genres) == 0 {
		cmds = append(cmds, loadGenresCmd(m.Catalog, m.Coord.Begin(sectionGenres)))
	}
	return tea.Batch(cmds...)
}

// setBrowseState applies a filter transition and reloads under a fresh
// epoch; a response for the previous filter that is still in flight will
// complete under a stale epoch and be dropped.
func (m *Model) setBrowseState(st query.State) tea.Cmd {
	if st.Equal(m.browse.state) {
		return nil
	}
	m.browse.state = st
	m.refreshLink()
	return loadBrowseCmd(m.Catalog, m.Coord.Begin(sectionBrowse), st, m.Cfg.UI.PageSize)
}

func (m *Model) updateBrowse(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case BrowseLoadedMsg:
		if m.Coord.Complete(sectionBrowse, msg.Epoch, msg.Err) && msg.Err == nil {
			m.browse.page = msg.Page
			m.applyQuickFilter()
		}
	case GenresLoadedMsg:
		if m.Coord.Complete(sectionGenres, msg.Epoch, msg.Err) && msg.Err == nil {
			m.browse.genres = msg.Genres
		}
	}
	return nil
}

func (m *Model) browseKey(msg tea.KeyMsg) tea.Cmd {
	if m.browse.pickerOpen {
		return m.genrePickerKey(msg)
	}
	if m.browse.filterOpen {
		return m.browseFilterKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Filter):
		m.browse.filterOpen = true
		m.browse.filterInput.Focus()
		return textinput.Blink
	case key.Matches(msg, Keys.Up):
		m.browse.list.CursorUp()
	case key.Matches(msg, Keys.Down):
		m.browse.list.CursorDown()
	case key.Matches(msg, Keys.Enter):
		if item := m.browse.list.Selected(); item != nil {
			return m.openDetail(item.ID)
		}
	case key.Matches(msg, Keys.NextPage):
		if m.browse.page.Pages == 0 || m.browse.state.Page < m.browse.page.Pages {
			return m.setBrowseState(m.browse.state.WithPage(m.browse.state.Page + 1))
		}
	case key.Matches(msg, Keys.PrevPage):
		if m.browse.state.Page > 1 {
			return m.setBrowseState(m.browse.state.WithPage(m.browse.state.Page - 1))
		}
	case key.Matches(msg, Keys.Genre):
		m.browse.pickerOpen = true
		m.browse.pickerCursor = 0
		m.browse.pickerInput.SetValue("")
		m.browse.pickerInput.Focus()
		m.browse.pickerItems = m.browse.genres
	case key.Matches(msg, Keys.Sort):
		next := query.SortScore
		if m.browse.state.Sort == query.SortScore {
			next = query.SortName
		}
		return m.setBrowseState(m.browse.state.WithSort(next, m.browse.state.Order))
	case key.Matches(msg, Keys.Order):
		next := query.OrderDesc
		if m.browse.state.Order == query.OrderDesc {
			next = query.OrderAsc
		}
		return m.setBrowseState(m.browse.state.WithSort(m.browse.state.Sort, next))
	case key.Matches(msg, Keys.Escape):
		if m.browse.filterInput.Value() != "" {
			m.browse.filterInput.SetValue("")
			m.applyQuickFilter()
		} else if m.browse.state.Genre != "" {
			return m.setBrowseState(m.browse.state.WithGenre(""))
		}
	case key.Matches(msg, Keys.Refresh):
		return m.enterBrowse()
	}
	return nil
}

func (m *Model) browseFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.browse.filterOpen = false
		m.browse.filterInput.Blur()
		m.browse.filterInput.SetValue("")
		m.applyQuickFilter()
		return nil
	case "enter":
		m.browse.filterOpen = false
		m.browse.filterInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.browse.filterInput, cmd = m.browse.filterInput.Update(msg)
	m.applyQuickFilter()
	return cmd
}

func (m *Model) genrePickerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.browse.pickerOpen = false
		m.browse.pickerInput.Blur()
		return nil
	case "up", "ctrl+k":
		if m.browse.pickerCursor > 0 {
			m.browse.pickerCursor--
		}
		return nil
	case "down", "ctrl+j":
		if m.browse.pickerCursor < len(m.browse.pickerItems)-1 {
			m.browse.pickerCursor++
		}
		return nil
	case "enter":
		m.browse.pickerOpen = false
		m.browse.pickerInput.Blur()
		if m.browse.pickerCursor < len(m.browse.pickerItems) {
			genre := m.browse.pickerItems[m.browse.pickerCursor]
			return m.setBrowseState(m.browse.state.WithGenre(genre))
		}
		return nil
	}

	var cmd tea.Cmd
	m.browse.pickerInput, cmd = m.browse.pickerInput.Update(msg)
	if q := m.browse.pickerInput.Value(); q == "" {
		m.browse.pickerItems = m.browse.genres
	} else {
		m.browse.pickerItems = service.RankGenres(m.browse.genres, q)
	}
	if m.browse.pickerCursor >= len(m.browse.pickerItems) {
		m.browse.pickerCursor = 0
	}
	return cmd
}
