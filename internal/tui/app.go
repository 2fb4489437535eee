package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/config"
	"github.com/rsawada/aniterm/internal/fetch"
	"github.com/rsawada/aniterm/internal/query"
	"github.com/rsawada/aniterm/internal/service"
	"github.com/rsawada/aniterm/internal/session"
	"github.com/rsawada/aniterm/internal/tui/components"
	"github.com/rsawada/aniterm/internal/tui/styles"
)

// Page identifies the active screen
type Page int

const (
	PageHome Page = iota
	PageBrowse
	PageSearch
	PageLanes
	PageHistory
	PageDetail
	PageAdmin
	PageLogin
	PageHelp
)

const statusClearAfter = 4 * time.Second

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	Session *session.Store
	Catalog *service.CatalogService
	Rec     *service.RecommendService
	Profile *service.ProfileService
	Admin   *service.AdminService

	// Fetch lifecycle
	Coord      *fetch.Coordinator
	Debounce   *query.Debouncer
	debounceCh chan string

	Cfg    *config.Config
	Logger *slog.Logger

	// Navigation
	page     Page
	prevPage Page
	seedLink string // deep link to open once the session settles

	// Per-page state
	home    homeState
	browse  browseState
	search  searchState
	lanes   lanesState
	history historyState
	detail  detailState
	admin   adminState
	login   loginState

	// Session
	sessState session.State

	// Chrome
	StatusBar    components.StatusBar
	Width        int
	Height       int
	Ready        bool
	SpinnerFrame int
}

// NewModel creates the application model. seedLink is an optional deep
// link (e.g. "browse?genre=Action&page=2") to open on startup.
func NewModel(
	sess *session.Store,
	catalog *service.CatalogService,
	rec *service.RecommendService,
	profile *service.ProfileService,
	admin *service.AdminService,
	cfg *config.Config,
	logger *slog.Logger,
	seedLink string,
) Model {
	debounceCh := make(chan string, 8)
	quiet := time.Duration(cfg.UI.DebounceMillis) * time.Millisecond
	browse := newBrowseState()
	if cfg.UI.DefaultSort == query.SortName {
		browse.state = browse.state.WithSort(query.SortName, browse.state.Order)
	}
	return Model{
		Session:    sess,
		Catalog:    catalog,
		Rec:        rec,
		Profile:    profile,
		Admin:      admin,
		Coord:      fetch.NewCoordinator(),
		Debounce:   query.NewDebouncer(quiet, func(q string) { debounceCh <- q }),
		debounceCh: debounceCh,
		Cfg:        cfg,
		Logger:     logger,
		page:       PageHome,
		seedLink:   seedLink,
		home:       newHomeState(),
		browse:     browse,
		search:     newSearchState(),
		lanes:      newLanesState(),
		history:    newHistoryState(),
		detail:     newDetailState(),
		admin:      newAdminState(),
		login:      newLoginState(),
	}
}

// Init kicks off session resolution; page loads start once the session
// state settles so auth-dependent sections see a known state.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		initSessionCmd(m.Session),
		listenForDebounceCmd(m.debounceCh),
		spinnerTickCmd(),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.StatusBar.SetWidth(msg.Width)
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case SpinnerTickMsg:
		if m.Coord.AnyLoading() {
			m.SpinnerFrame = (m.SpinnerFrame + 1) % len(styles.SpinnerFrames)
		}
		return m, spinnerTickCmd()

	case StatusMsg:
		m.StatusBar.SetMessage(msg.Message, msg.IsError)
		return m, clearStatusCmd(statusClearAfter)

	case ClearStatusMsg:
		m.StatusBar.ClearMessage()
		return m, nil

	case SessionStateMsg:
		cmd := m.handleSessionSettled(msg)
		return m, cmd

	case LoginResultMsg:
		cmd := m.handleLoginResult(msg)
		return m, cmd

	case LogoutDoneMsg:
		m.sessState = m.Session.State()
		m.StatusBar.SetIdentity("anonymous")
		cmd := m.enterPage(PageHome)
		return m, tea.Batch(cmd, statusCmd("signed out", false))

	case SearchDebouncedMsg:
		cmd := m.fireSearch(msg.Query)
		return m, tea.Batch(cmd, listenForDebounceCmd(m.debounceCh))
	}

	// Data messages are routed to every page owner; each applies only
	// sections it owns and only when the coordinator accepts the epoch.
	cmds := []tea.Cmd{
		m.updateHome(msg),
		m.updateBrowse(msg),
		m.updateSearch(msg),
		m.updateLanes(msg),
		m.updateHistory(msg),
		m.updateDetail(msg),
		m.updateAdmin(msg),
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSessionSettled(msg SessionStateMsg) tea.Cmd {
	m.sessState = msg.State
	if msg.State == session.StateAuthenticated {
		m.StatusBar.SetIdentity(fmt.Sprintf("user %d", msg.Session.User.UserID))
	} else {
		m.StatusBar.SetIdentity("anonymous")
	}

	// Open the seed deep link if one was given, otherwise land on home.
	target := PageHome
	if m.seedLink != "" {
		if page, st, err := parseDeepLink(m.seedLink); err == nil {
			target = page
			switch page {
			case PageBrowse:
				m.browse.state = st
			case PageSearch:
				m.search.input.SetValue(st.Query)
			}
		} else {
			m.Logger.Warn("ignoring invalid deep link", "link", m.seedLink, "error", err)
		}
		m.seedLink = ""
	}
	return m.enterPage(target)
}

func (m *Model) handleLoginResult(msg LoginResultMsg) tea.Cmd {
	m.login.busy = false
	if msg.Err != nil {
		m.login.errText = humanizeErr(msg.Err)
		return nil
	}
	m.sessState = session.StateAuthenticated
	m.StatusBar.SetIdentity(fmt.Sprintf("user %d", msg.Session.User.UserID))
	cmd := m.enterPage(PageHome)
	return tea.Batch(cmd, statusCmd(fmt.Sprintf("signed in as user %d", msg.Session.User.UserID), false))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Pages with a focused text input consume keys first.
	if m.capturesInput() {
		return m.routeKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		m.Debounce.Cancel()
		return tea.Quit
	case key.Matches(msg, Keys.Help):
		if m.page == PageHelp {
			return m.enterPage(m.prevPage)
		}
		m.prevPage = m.page
		m.page = PageHelp
		return nil
	case key.Matches(msg, Keys.GoHome):
		return m.enterPage(PageHome)
	case key.Matches(msg, Keys.GoBrowse):
		return m.enterPage(PageBrowse)
	case key.Matches(msg, Keys.GoSearch):
		return m.enterPage(PageSearch)
	case key.Matches(msg, Keys.GoLanes):
		return m.enterPage(PageLanes)
	case key.Matches(msg, Keys.GoHistory):
		return m.enterPage(PageHistory)
	case key.Matches(msg, Keys.GoAdmin):
		return m.enterPage(PageAdmin)
	case key.Matches(msg, Keys.Login):
		if !m.Session.IsAuthenticated() {
			return m.enterPage(PageLogin)
		}
		return nil
	case key.Matches(msg, Keys.Logout):
		if m.Session.IsAuthenticated() {
			return logoutCmd(m.Session)
		}
		return nil
	}
	return m.routeKey(msg)
}

func (m *Model) capturesInput() bool {
	switch m.page {
	case PageLogin:
		return true
	case PageSearch:
		return m.search.input.Focused()
	case PageDetail:
		return m.detail.ratingPrompt
	case PageBrowse:
		return m.browse.pickerOpen || m.browse.filterOpen
	}
	return false
}

func (m *Model) routeKey(msg tea.KeyMsg) tea.Cmd {
	switch m.page {
	case PageHome:
		return m.homeKey(msg)
	case PageBrowse:
		return m.browseKey(msg)
	case PageSearch:
		return m.searchKey(msg)
	case PageLanes:
		return m.lanesKey(msg)
	case PageHistory:
		return m.historyKey(msg)
	case PageDetail:
		return m.detailKey(msg)
	case PageAdmin:
		return m.adminKey(msg)
	case PageLogin:
		return m.loginKey(msg)
	case PageHelp:
		if msg.String() == "esc" || msg.String() == "q" {
			return m.enterPage(m.prevPage)
		}
	}
	return nil
}

// enterPage switches screens and issues that screen's fetches. Fetches
// that require a signed-in user are skipped while anonymous.
func (m *Model) enterPage(p Page) tea.Cmd {
	m.prevPage = m.page
	m.page = p
	m.resizeLists()
	var cmd tea.Cmd
	switch p {
	case PageHome:
		cmd = m.enterHome()
	case PageBrowse:
		cmd = m.enterBrowse()
	case PageSearch:
		cmd = m.enterSearch()
	case PageLanes:
		cmd = m.enterLanes()
	case PageHistory:
		cmd = m.enterHistory()
	case PageAdmin:
		cmd = m.enterAdmin()
	case PageLogin:
		m.login = newLoginState()
		m.login.input.Focus()
	}
	m.refreshLink()
	return cmd
}

// refreshLink keeps the status bar's shareable link in sync with the
// current screen state.
func (m *Model) refreshLink() {
	switch m.page {
	case PageBrowse:
		m.StatusBar.SetLink(m.browse.state.Link("browse"))
	case PageSearch:
		st := query.New()
		st.Query = m.search.input.Value()
		m.StatusBar.SetLink(st.Link("search"))
	case PageDetail:
		m.StatusBar.SetLink(fmt.Sprintf("anime/%d", m.detail.animeID))
	default:
		m.StatusBar.SetLink("")
	}
}

// parseDeepLink maps a link like "browse?genre=Action&page=2" onto a
// page and its query state.
func parseDeepLink(link string) (Page, query.State, error) {
	path, st, err := query.ParseLink(link)
	if err != nil {
		return PageHome, query.New(), err
	}
	switch path {
	case "browse", "anime":
		return PageBrowse, st, nil
	case "search":
		return PageSearch, st, nil
	case "", "home":
		return PageHome, st, nil
	default:
		return PageHome, query.New(), fmt.Errorf("unknown link path %q", path)
	}
}

func (m *Model) resizeLists() {
	if !m.Ready {
		return
	}
	w, h := m.Width, m.contentHeight()
	m.home.resize(w, h)
	m.browse.resize(w, h)
	m.search.resize(w, h)
	m.lanes.resize(w, h)
	m.history.resize(w, h)
	m.detail.resize(w, h)
	m.admin.resize(w, h)
}

// contentHeight is the viewport height minus the header and status bar.
func (m Model) contentHeight() int {
	h := m.Height - 3
	if h < 4 {
		h = 4
	}
	return h
}

func statusCmd(msg string, isErr bool) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Message: msg, IsError: isErr} }
}
