package tui

import (
	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/query"
	"github.com/rsawada/aniterm/internal/session"
)

// Message types for the TUI. Messages that complete a section fetch carry
// the epoch their request was issued under; Update hands it back to the
// coordinator, which decides whether the payload is current or stale.

// SessionStateMsg reports the settled outcome of session init.
type SessionStateMsg struct {
	State   session.State
	Session domain.Session
}

// LoginResultMsg reports a login attempt.
type LoginResultMsg struct {
	Session domain.Session
	Err     error
}

// LogoutDoneMsg signals that local logout completed.
type LogoutDoneMsg struct{}

// TopLoadedMsg carries the home page's top list.
type TopLoadedMsg struct {
	Epoch uint64
	Items []domain.DisplayItem
	Err   error
}

// RecsLoadedMsg carries the home page's personalized recommendations.
type RecsLoadedMsg struct {
	Epoch uint64
	Set   api.RecommendationSet
	Err   error
}

// RecentHistoryMsg carries the home page's recent-history section.
type RecentHistoryMsg struct {
	Epoch uint64
	Page  domain.Page[domain.HistoryEntry]
	Err   error
}

// BrowseLoadedMsg carries one catalog page. State is the filter snapshot
// the request was issued for.
type BrowseLoadedMsg struct {
	Epoch uint64
	State query.State
	Page  domain.Page[domain.DisplayItem]
	Err   error
}

// GenresLoadedMsg carries the genre picker contents.
type GenresLoadedMsg struct {
	Epoch  uint64
	Genres []string
	Err    error
}

// SearchDebouncedMsg delivers a search query whose quiet interval elapsed.
type SearchDebouncedMsg struct {
	Query string
}

// VectorProbeMsg reports whether the backend's semantic search endpoint
// answers at all.
type VectorProbeMsg struct {
	OK bool
}

// SearchResultsMsg carries search results for the query snapshot.
type SearchResultsMsg struct {
	Epoch  uint64
	Query  string
	Vector bool
	Items  []domain.DisplayItem
	Err    error
}

// DetailLoadedMsg carries one anime's detail record.
type DetailLoadedMsg struct {
	Epoch  uint64
	Detail *domain.AnimeDetail
	Err    error
}

// SimilarLoadedMsg carries the similar-items lane of the detail page.
type SimilarLoadedMsg struct {
	Epoch uint64
	Set   api.SimilarSet
	Err   error
}

// MyRatingLoadedMsg carries the signed-in user's rating on the detail page.
type MyRatingLoadedMsg struct {
	Epoch  uint64
	Rating *domain.Rating
	Err    error
}

// RatingSavedMsg reports a rating write (create, update, or delete).
type RatingSavedMsg struct {
	AnimeID int
	Rating  int // 0 means deleted
	Err     error
}

// WatchedMsg reports a history append.
type WatchedMsg struct {
	AnimeID int
	Err     error
}

// HistoryRemovedMsg reports a history row deletion.
type HistoryRemovedMsg struct {
	AnimeID int
	Err     error
}

// LaneLoadedMsg carries one model variant's lane on the comparison page.
type LaneLoadedMsg struct {
	Epoch uint64
	Model string
	Set   api.RecommendationSet
	Err   error
}

// HistoryPageMsg carries one page of the history screen.
type HistoryPageMsg struct {
	Epoch uint64
	Page  domain.Page[domain.HistoryEntry]
	Err   error
}

// RatingsPageMsg carries one page of the user's ratings on the history
// screen.
type RatingsPageMsg struct {
	Epoch uint64
	Page  domain.Page[domain.Rating]
	Err   error
}

// StatsLoadedMsg carries the admin headline stats.
type StatsLoadedMsg struct {
	Epoch uint64
	Stats domain.Stats
	Err   error
}

// VizLoadedMsg carries the admin visualization datasets.
type VizLoadedMsg struct {
	Epoch uint64
	Data  api.VisualizationData
	Err   error
}

// ModelsLoadedMsg carries the model registry.
type ModelsLoadedMsg struct {
	Epoch  uint64
	Models []domain.ModelInfo
	Err    error
}

// CompareLoadedMsg carries the model metrics comparison.
type CompareLoadedMsg struct {
	Epoch uint64
	Rows  []api.ModelComparison
	Err   error
}

// ModelActivatedMsg reports a model selection.
type ModelActivatedMsg struct {
	Model string
	Err   error
}

// TrainStartedMsg reports a training job kickoff.
type TrainStartedMsg struct {
	Job domain.TrainingJob
	Err error
}

// JobStatusMsg reports a training job poll.
type JobStatusMsg struct {
	Job domain.TrainingJob
	Err error
}

// StatusMsg sets a transient status bar message.
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message.
type ClearStatusMsg struct{}

// SpinnerTickMsg advances the loading spinner.
type SpinnerTickMsg struct{}
