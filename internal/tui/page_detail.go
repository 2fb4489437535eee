package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/tui/components"
)

// detailState backs the single-anime screen: the catalog record, a
// similar-items lane, and the signed-in user's own rating. The three
// sections load independently.
type detailState struct {
	animeID    int
	detail     *domain.AnimeDetail
	similar    components.ItemList
	similarVia string
	myRating   *domain.Rating

	ratingPrompt bool
	ratingDigits string
}

func newDetailState() detailState {
	return detailState{similar: components.NewItemList()}
}

func (d *detailState) resize(w, h int) {
	d.similar.SetSize(w, h/2)
}

// openDetail navigates to an anime's detail screen and issues its
// section fetches. Reached from every list screen.
func (m *Model) openDetail(animeID int) tea.Cmd {
	m.prevPage = m.page
	m.page = PageDetail
	m.detail = newDetailState()
	m.detail.animeID = animeID
	m.resizeLists()
	m.refreshLink()

	cmds := []tea.Cmd{
		loadDetailCmd(m.Catalog, m.Coord.Begin(sectionDetail), animeID),
		loadSimilarCmd(m.Rec, m.Coord.Begin(sectionSimilar), animeID, 10),
	}
	if m.Session.IsAuthenticated() {
		cmds = append(cmds, loadMyRatingCmd(m.Profile, m.Coord.Begin(sectionMyRating), m.Session.Token(), animeID))
	} else {
		m.Coord.Reset(sectionMyRating)
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateDetail(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		if m.Coord.Complete(sectionDetail, msg.Epoch, msg.Err) && msg.Err == nil {
			m.detail.detail = msg.Detail
		}
	case SimilarLoadedMsg:
		if m.Coord.Complete(sectionSimilar, msg.Epoch, msg.Err) && msg.Err == nil {
			m.detail.similar.SetItems(msg.Set.Items)
			m.detail.similarVia = msg.Set.Method
		}
	case MyRatingLoadedMsg:
		if m.Coord.Complete(sectionMyRating, msg.Epoch, msg.Err) {
			if msg.Err != nil {
				return m.maybeInvalidate(msg.Err)
			}
			m.detail.myRating = msg.Rating
		}
	case RatingSavedMsg:
		if msg.AnimeID != m.detail.animeID {
			return nil
		}
		if msg.Err != nil {
			if cmd := m.maybeInvalidate(msg.Err); cmd != nil {
				return cmd
			}
			return statusCmd(humanizeErr(msg.Err), true)
		}
		if msg.Rating == 0 {
			m.detail.myRating = nil
			return statusCmd("rating removed", false)
		}
		m.detail.myRating = &domain.Rating{AnimeID: msg.AnimeID, Rating: msg.Rating}
		return statusCmd(fmt.Sprintf("rated %d/10", msg.Rating), false)
	case WatchedMsg:
		if msg.AnimeID != m.detail.animeID {
			return nil
		}
		if msg.Err != nil {
			if cmd := m.maybeInvalidate(msg.Err); cmd != nil {
				return cmd
			}
			return statusCmd(humanizeErr(msg.Err), true)
		}
		return statusCmd("added to watch history", false)
	}
	return nil
}

func (m *Model) detailKey(msg tea.KeyMsg) tea.Cmd {
	if m.detail.ratingPrompt {
		return m.ratingPromptKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Escape):
		return m.enterPage(m.prevPage)
	case key.Matches(msg, Keys.Up):
		m.detail.similar.CursorUp()
	case key.Matches(msg, Keys.Down):
		m.detail.similar.CursorDown()
	case key.Matches(msg, Keys.Enter):
		if item := m.detail.similar.Selected(); item != nil {
			return m.openDetail(item.ID)
		}
	case key.Matches(msg, Keys.Rate):
		if !m.Session.IsAuthenticated() {
			return statusCmd("sign in to rate", true)
		}
		m.detail.ratingPrompt = true
		m.detail.ratingDigits = ""
	case key.Matches(msg, Keys.Unrate):
		if m.detail.myRating == nil {
			return nil
		}
		return unrateCmd(m.Profile, m.Session.Token(), m.detail.animeID)
	case key.Matches(msg, Keys.MarkWatched):
		if !m.Session.IsAuthenticated() {
			return statusCmd("sign in to track history", true)
		}
		return markWatchedCmd(m.Profile, m.Session.Token(), m.detail.animeID)
	case key.Matches(msg, Keys.Refresh):
		return m.openDetail(m.detail.animeID)
	}
	return nil
}

func (m *Model) ratingPromptKey(msg tea.KeyMsg) tea.Cmd {
	switch s := msg.String(); s {
	case "esc":
		m.detail.ratingPrompt = false
	case "enter":
		m.detail.ratingPrompt = false
		n, err := strconv.Atoi(m.detail.ratingDigits)
		if err != nil || n < 1 || n > 10 {
			return statusCmd("rating must be 1-10", true)
		}
		return rateCmd(m.Profile, m.Session.Token(), m.detail.animeID, n)
	case "backspace":
		if len(m.detail.ratingDigits) > 0 {
			m.detail.ratingDigits = m.detail.ratingDigits[:len(m.detail.ratingDigits)-1]
		}
	default:
		if len(s) == 1 && s[0] >= '0' && s[0] <= '9' && len(m.detail.ratingDigits) < 2 {
			m.detail.ratingDigits += s
		}
	}
	return nil
}
