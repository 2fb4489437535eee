package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rsawada/aniterm/internal/domain"
)

// History returns one page of the token's user's watch history, newest first.
func (c *Client) History(ctx context.Context, token string, page, limit int) (domain.Page[domain.HistoryEntry], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp historyListResponse
	if err := c.get(ctx, "/history", query, token, &resp); err != nil {
		if IsUnauthorized(err) {
			return domain.Page[domain.HistoryEntry]{}, domain.ErrUnauthorized
		}
		return domain.Page[domain.HistoryEntry]{}, err
	}

	entries := make([]domain.HistoryEntry, 0, len(resp.History))
	for _, h := range resp.History {
		entries = append(entries, MapHistory(h))
	}

	return domain.Page[domain.HistoryEntry]{
		Items: entries,
		Total: resp.Total,
		Page:  resp.Page,
		Limit: resp.Limit,
	}, nil
}

// AddHistory records a watch of the given anime. Duplicates are allowed;
// the backend tracks every watch.
func (c *Client) AddHistory(ctx context.Context, token string, animeID int) error {
	err := c.post(ctx, "/history", map[string]int{"anime_id": animeID}, token, nil)
	if IsUnauthorized(err) {
		return domain.ErrUnauthorized
	}
	return err
}

// RemoveHistory deletes all history entries for the given anime.
func (c *Client) RemoveHistory(ctx context.Context, token string, animeID int) error {
	return c.delete(ctx, fmt.Sprintf("/history/%d", animeID), token)
}
