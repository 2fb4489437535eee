package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rsawada/aniterm/internal/domain"
)

// ListParams are the catalog listing filters. Zero values mean backend
// defaults and are omitted from the query string.
type ListParams struct {
	Page  int
	Limit int
	Genre string
	Sort  string // "score" or "name"
	Order string // "asc" or "desc"
}

// ListAnime returns one page of the catalog.
func (c *Client) ListAnime(ctx context.Context, p ListParams) (domain.Page[domain.DisplayItem], error) {
	query := url.Values{}
	if p.Page > 0 {
		query.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Genre != "" {
		query.Set("genre", p.Genre)
	}
	if p.Sort != "" {
		query.Set("sort", p.Sort)
	}
	if p.Order != "" {
		query.Set("order", p.Order)
	}

	var resp catalogListResponse
	if err := c.get(ctx, "/anime", query, "", &resp); err != nil {
		return domain.Page[domain.DisplayItem]{}, err
	}

	return domain.Page[domain.DisplayItem]{
		Items: MapAnimes(resp.Animes),
		Total: resp.Total,
		Page:  resp.Page,
		Limit: resp.Limit,
		Pages: resp.Pages,
	}, nil
}

// GetAnime returns one catalog record with its user-rating aggregates.
func (c *Client) GetAnime(ctx context.Context, animeID int) (*domain.AnimeDetail, error) {
	var resp animeResponse
	err := c.get(ctx, fmt.Sprintf("/anime/%d", animeID), nil, "", &resp)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	detail := MapAnimeDetail(resp.Anime)
	return &detail, nil
}

// SearchAnime performs a text search by name. The backend rejects queries
// shorter than two characters, so callers should gate on that client-side.
func (c *Client) SearchAnime(ctx context.Context, q string, limit int) ([]domain.DisplayItem, error) {
	query := url.Values{}
	query.Set("q", q)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp searchResponse
	if err := c.get(ctx, "/anime/search", query, "", &resp); err != nil {
		return nil, err
	}
	return MapAnimes(resp.Animes), nil
}

// VectorSearch performs semantic search over the backend's embedding index.
// A 503 means the index has not been built yet.
func (c *Client) VectorSearch(ctx context.Context, q string, limit int) ([]domain.DisplayItem, error) {
	body := map[string]any{"query": q}
	if limit > 0 {
		body["limit"] = limit
	}

	var resp searchResponse
	if err := c.post(ctx, "/search/vector", body, "", &resp); err != nil {
		return nil, err
	}
	return MapAnimes(resp.Animes), nil
}

// TopAnime returns the highest-scored catalog entries.
func (c *Client) TopAnime(ctx context.Context, limit int) ([]domain.DisplayItem, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Animes []AnimeRecord `json:"animes"`
	}
	if err := c.get(ctx, "/anime/top", query, "", &resp); err != nil {
		return nil, err
	}
	return MapAnimes(resp.Animes), nil
}

// Genres returns the sorted list of distinct catalog genres.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var resp genresResponse
	if err := c.get(ctx, "/anime/genres", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// VectorSearchAvailable reports whether the backend's vector index is built.
func (c *Client) VectorSearchAvailable(ctx context.Context) bool {
	var resp struct {
		Available bool `json:"available"`
	}
	// A 503 carries {available: false}; treat every failure as unavailable.
	if err := c.get(ctx, "/search/status", nil, "", &resp); err != nil {
		return false
	}
	return resp.Available
}
