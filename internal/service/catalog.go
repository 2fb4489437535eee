package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/query"
	"github.com/rsawada/aniterm/internal/store"
)

// minSearchLen mirrors the backend's minimum query length; shorter queries
// never reach the network.
const minSearchLen = 2

// CatalogService composes catalog endpoints with the local cache. The top
// list and genre list are mirrored into the store so a restart paints the
// home page before the network answers.
type CatalogService struct {
	client *api.Client
	db     *store.Store
	logger *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(client *api.Client, db *store.Store, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{client: client, db: db, logger: logger}
}

// Browse returns one catalog page for a filter state.
func (s *CatalogService) Browse(ctx context.Context, st query.State, pageSize int) (domain.Page[domain.DisplayItem], error) {
	return s.client.ListAnime(ctx, api.ListParams{
		Page:  st.Page,
		Limit: pageSize,
		Genre: st.Genre,
		Sort:  st.Sort,
		Order: st.Order,
	})
}

// Get returns one anime with its rating aggregates.
func (s *CatalogService) Get(ctx context.Context, animeID int) (*domain.AnimeDetail, error) {
	return s.client.GetAnime(ctx, animeID)
}

// Search performs a text search. Queries shorter than the backend minimum
// return an empty result without a network call.
func (s *CatalogService) Search(ctx context.Context, q string, limit int) ([]domain.DisplayItem, error) {
	q = strings.TrimSpace(q)
	if len(q) < minSearchLen {
		return nil, nil
	}

	s.logger.Debug("searching", "query", q)
	return s.client.SearchAnime(ctx, q, limit)
}

// VectorSearch performs semantic search. The same length gate applies.
func (s *CatalogService) VectorSearch(ctx context.Context, q string, limit int) ([]domain.DisplayItem, error) {
	q = strings.TrimSpace(q)
	if len(q) < minSearchLen {
		return nil, nil
	}

	s.logger.Debug("vector searching", "query", q)
	return s.client.VectorSearch(ctx, q, limit)
}

// VectorAvailable reports whether the backend's embedding index is built.
func (s *CatalogService) VectorAvailable(ctx context.Context) bool {
	return s.client.VectorSearchAvailable(ctx)
}

// Top returns the top-scored list, refreshing the cached copy on success
// and falling back to it when the backend is unreachable.
func (s *CatalogService) Top(ctx context.Context, limit int) ([]domain.DisplayItem, error) {
	items, err := s.client.TopAnime(ctx, limit)
	if err != nil {
		if cached, ok := s.db.GetTopAnime(); ok {
			s.logger.Warn("top list fetch failed, serving cached copy", "error", err)
			return cached, nil
		}
		return nil, err
	}

	if saveErr := s.db.SaveTopAnime(items); saveErr != nil {
		s.logger.Warn("failed to cache top list", "error", saveErr)
	}
	return items, nil
}

// CachedTop returns the cached top list without touching the network.
func (s *CatalogService) CachedTop() ([]domain.DisplayItem, bool) {
	return s.db.GetTopAnime()
}

// Genres returns the distinct genre list, cached the same way.
func (s *CatalogService) Genres(ctx context.Context) ([]string, error) {
	genres, err := s.client.Genres(ctx)
	if err != nil {
		if cached, ok := s.db.GetGenres(); ok {
			s.logger.Warn("genre fetch failed, serving cached copy", "error", err)
			return cached, nil
		}
		return nil, err
	}

	if saveErr := s.db.SaveGenres(genres); saveErr != nil {
		s.logger.Warn("failed to cache genres", "error", saveErr)
	}
	return genres, nil
}
