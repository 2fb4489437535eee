package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/query"
	"github.com/rsawada/aniterm/internal/service"
	"github.com/rsawada/aniterm/internal/session"
)

const requestTimeout = 15 * time.Second

// Section names used with the fetch coordinator. Sections on the same
// screen are independent: one failing or reloading never touches another.
const (
	sectionHomeTop     = "home.top"
	sectionHomeRecs    = "home.recs"
	sectionHomeHistory = "home.history"
	sectionBrowse      = "browse"
	sectionGenres      = "browse.genres"
	sectionSearch      = "search"
	sectionDetail      = "detail.anime"
	sectionSimilar     = "detail.similar"
	sectionMyRating    = "detail.rating"
	sectionHistory     = "history"
	sectionRatings     = "history.ratings"
	sectionAdminStats  = "admin.stats"
	sectionAdminViz    = "admin.viz"
	sectionAdminModels = "admin.models"
	sectionCompare     = "admin.compare"
	laneSection        = "lanes."
)

func initSessionCmd(sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		state := sess.Init(ctx)
		return SessionStateMsg{State: state, Session: sess.Current()}
	}
}

func loginCmd(sess *session.Store, userID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := sess.Login(ctx, userID)
		return LoginResultMsg{Session: sess.Current(), Err: err}
	}
}

func logoutCmd(sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sess.Logout(ctx)
		return LogoutDoneMsg{}
	}
}

func loadTopCmd(catalog *service.CatalogService, epoch uint64, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := catalog.Top(ctx, limit)
		return TopLoadedMsg{Epoch: epoch, Items: items, Err: err}
	}
}

func loadRecsCmd(rec *service.RecommendService, epoch uint64, token string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		set, err := rec.Personalized(ctx, token, limit, "")
		return RecsLoadedMsg{Epoch: epoch, Set: set, Err: err}
	}
}

func loadRecentHistoryCmd(profile *service.ProfileService, epoch uint64, token string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := profile.History(ctx, token, 1, limit)
		return RecentHistoryMsg{Epoch: epoch, Page: page, Err: err}
	}
}

func loadBrowseCmd(catalog *service.CatalogService, epoch uint64, st query.State, pageSize int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := catalog.Browse(ctx, st, pageSize)
		return BrowseLoadedMsg{Epoch: epoch, State: st, Page: page, Err: err}
	}
}

func loadGenresCmd(catalog *service.CatalogService, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		genres, err := catalog.Genres(ctx)
		return GenresLoadedMsg{Epoch: epoch, Genres: genres, Err: err}
	}
}

func searchCmd(catalog *service.CatalogService, epoch uint64, q string, vector bool, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var items []domain.DisplayItem
		var err error
		if vector {
			items, err = catalog.VectorSearch(ctx, q, limit)
		} else {
			items, err = catalog.Search(ctx, q, limit)
		}
		return SearchResultsMsg{Epoch: epoch, Query: q, Vector: vector, Items: items, Err: err}
	}
}

func probeVectorCmd(catalog *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return VectorProbeMsg{OK: catalog.VectorAvailable(ctx)}
	}
}

// listenForDebounceCmd blocks on the debouncer's output channel and
// re-arms itself from Update after each delivery.
func listenForDebounceCmd(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		q, ok := <-ch
		if !ok {
			return nil
		}
		return SearchDebouncedMsg{Query: q}
	}
}

func loadDetailCmd(catalog *service.CatalogService, epoch uint64, animeID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		detail, err := catalog.Get(ctx, animeID)
		return DetailLoadedMsg{Epoch: epoch, Detail: detail, Err: err}
	}
}

func loadSimilarCmd(rec *service.RecommendService, epoch uint64, animeID, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		set, err := rec.Similar(ctx, animeID, limit, false)
		return SimilarLoadedMsg{Epoch: epoch, Set: set, Err: err}
	}
}

func loadMyRatingCmd(profile *service.ProfileService, epoch uint64, token string, animeID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		r, err := profile.Rating(ctx, token, animeID)
		return MyRatingLoadedMsg{Epoch: epoch, Rating: r, Err: err}
	}
}

func rateCmd(profile *service.ProfileService, token string, animeID, rating int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := profile.Rate(ctx, token, animeID, rating)
		return RatingSavedMsg{AnimeID: animeID, Rating: rating, Err: err}
	}
}

func unrateCmd(profile *service.ProfileService, token string, animeID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := profile.Unrate(ctx, token, animeID)
		return RatingSavedMsg{AnimeID: animeID, Rating: 0, Err: err}
	}
}

func markWatchedCmd(profile *service.ProfileService, token string, animeID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := profile.MarkWatched(ctx, token, animeID)
		return WatchedMsg{AnimeID: animeID, Err: err}
	}
}

func unwatchCmd(profile *service.ProfileService, token string, animeID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := profile.Unwatch(ctx, token, animeID)
		return HistoryRemovedMsg{AnimeID: animeID, Err: err}
	}
}

func loadLaneCmd(rec *service.RecommendService, epoch uint64, token, model string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		set, err := rec.Personalized(ctx, token, limit, model)
		return LaneLoadedMsg{Epoch: epoch, Model: model, Set: set, Err: err}
	}
}

func loadHistoryPageCmd(profile *service.ProfileService, epoch uint64, token string, page, pageSize int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		p, err := profile.History(ctx, token, page, pageSize)
		return HistoryPageMsg{Epoch: epoch, Page: p, Err: err}
	}
}

func loadRatingsPageCmd(profile *service.ProfileService, epoch uint64, userID, page, pageSize int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		p, err := profile.Ratings(ctx, userID, page, pageSize)
		return RatingsPageMsg{Epoch: epoch, Page: p, Err: err}
	}
}

func loadStatsCmd(admin *service.AdminService, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		stats, err := admin.Stats(ctx)
		return StatsLoadedMsg{Epoch: epoch, Stats: stats, Err: err}
	}
}

func loadVizCmd(admin *service.AdminService, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		data, err := admin.Visualization(ctx)
		return VizLoadedMsg{Epoch: epoch, Data: data, Err: err}
	}
}

func loadModelsCmd(admin *service.AdminService, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		models, err := admin.Models(ctx)
		return ModelsLoadedMsg{Epoch: epoch, Models: models, Err: err}
	}
}

func loadCompareCmd(admin *service.AdminService, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rows, err := admin.Compare(ctx)
		return CompareLoadedMsg{Epoch: epoch, Rows: rows, Err: err}
	}
}

func activateModelCmd(admin *service.AdminService, model string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := admin.Activate(ctx, model)
		return ModelActivatedMsg{Model: model, Err: err}
	}
}

func trainModelCmd(admin *service.AdminService, model string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		job, err := admin.Train(ctx, model)
		return TrainStartedMsg{Job: job, Err: err}
	}
}

func pollJobCmd(admin *service.AdminService, jobID string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		job, err := admin.JobStatus(ctx, jobID)
		return JobStatusMsg{Job: job, Err: err}
	})
}

func clearStatusCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}
