package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rsawada/aniterm/internal/domain"
)

// RecommendationSet is one model's recommendation lane.
type RecommendationSet struct {
	Items     []domain.DisplayItem
	ModelUsed string
}

// Recommendations returns personalized recommendations for the token's user.
// model may be empty to use the backend's active model, or one of the
// domain.ModelNames to pin a variant.
func (c *Client) Recommendations(ctx context.Context, token string, limit int, model string) (RecommendationSet, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if model != "" {
		query.Set("model", model)
	}

	var resp recommendationsResponse
	if err := c.get(ctx, "/recommendation", query, token, &resp); err != nil {
		if IsUnauthorized(err) {
			return RecommendationSet{}, domain.ErrUnauthorized
		}
		return RecommendationSet{}, err
	}

	return RecommendationSet{
		Items:     MapRecommendations(resp.Recommendations),
		ModelUsed: resp.ModelUsed,
	}, nil
}

// SimilarSet is the similar-items lane for one anime.
type SimilarSet struct {
	AnimeID int
	Items   []domain.DisplayItem
	Method  string
}

// Similar returns items similar to the given anime. useContent selects the
// content-based path on backends that support both methods.
func (c *Client) Similar(ctx context.Context, animeID, limit int, useContent bool) (SimilarSet, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if useContent {
		query.Set("use_content", "true")
	}

	var resp similarResponse
	path := fmt.Sprintf("/recommendation/similar/%d", animeID)
	if err := c.get(ctx, path, query, "", &resp); err != nil {
		return SimilarSet{}, err
	}

	return SimilarSet{
		AnimeID: resp.AnimeID,
		Items:   MapAnimes(resp.SimilarAnimes),
		Method:  resp.Method,
	}, nil
}
