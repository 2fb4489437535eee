package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rsawada/aniterm/internal/domain"
)

// GetRating returns the token's user's rating for an anime, or nil when the
// user has not rated it.
func (c *Client) GetRating(ctx context.Context, token string, animeID int) (*domain.Rating, error) {
	var resp ratingResponse
	err := c.get(ctx, fmt.Sprintf("/rating/%d", animeID), nil, token, &resp)
	if err != nil {
		if IsUnauthorized(err) {
			return nil, domain.ErrUnauthorized
		}
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if resp.Rating == nil {
		return nil, nil
	}

	rating := MapRating(*resp.Rating)
	return &rating, nil
}

// AddRating creates a new rating. The backend answers 409 when one already
// exists; callers then switch to UpdateRating.
func (c *Client) AddRating(ctx context.Context, token string, animeID, rating int) error {
	if rating < 1 || rating > 10 {
		return domain.ErrInvalidRating
	}
	body := map[string]int{"anime_id": animeID, "rating": rating}
	return c.post(ctx, "/rating", body, token, nil)
}

// UpdateRating changes an existing rating.
func (c *Client) UpdateRating(ctx context.Context, token string, animeID, rating int) error {
	if rating < 1 || rating > 10 {
		return domain.ErrInvalidRating
	}
	body := map[string]int{"rating": rating}
	return c.put(ctx, fmt.Sprintf("/rating/%d", animeID), body, token, nil)
}

// DeleteRating removes a rating.
func (c *Client) DeleteRating(ctx context.Context, token string, animeID int) error {
	return c.delete(ctx, fmt.Sprintf("/rating/%d", animeID), token)
}

// UserRatings returns one page of a user's ratings, newest first. This
// endpoint is public.
func (c *Client) UserRatings(ctx context.Context, userID, page, limit int) (domain.Page[domain.Rating], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp ratingsListResponse
	path := fmt.Sprintf("/rating/user/%d", userID)
	if err := c.get(ctx, path, query, "", &resp); err != nil {
		return domain.Page[domain.Rating]{}, err
	}

	ratings := make([]domain.Rating, 0, len(resp.Ratings))
	for _, r := range resp.Ratings {
		ratings = append(ratings, MapRating(r))
	}

	return domain.Page[domain.Rating]{
		Items: ratings,
		Total: resp.Total,
		Page:  resp.Page,
		Limit: resp.Limit,
	}, nil
}
