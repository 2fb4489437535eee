package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
)

// ProfileService covers the signed-in user's ratings and watch history.
type ProfileService struct {
	client *api.Client
	logger *slog.Logger
}

// NewProfileService creates a profile service.
func NewProfileService(client *api.Client, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{client: client, logger: logger}
}

// Rating returns the user's rating for an anime, nil when unrated.
func (s *ProfileService) Rating(ctx context.Context, token string, animeID int) (*domain.Rating, error) {
	return s.client.GetRating(ctx, token, animeID)
}

// Rate sets the user's rating, creating or updating as needed. The add
// endpoint answers 409 when a rating exists; this retries as an update so
// callers have a single entry point.
func (s *ProfileService) Rate(ctx context.Context, token string, animeID, rating int) error {
	err := s.client.AddRating(ctx, token, animeID, rating)
	if err == nil {
		return nil
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return s.client.UpdateRating(ctx, token, animeID, rating)
	}
	return err
}

// Unrate removes the user's rating.
func (s *ProfileService) Unrate(ctx context.Context, token string, animeID int) error {
	return s.client.DeleteRating(ctx, token, animeID)
}

// Ratings returns one page of a user's ratings.
func (s *ProfileService) Ratings(ctx context.Context, userID, page, limit int) (domain.Page[domain.Rating], error) {
	return s.client.UserRatings(ctx, userID, page, limit)
}

// History returns one page of the user's watch history.
func (s *ProfileService) History(ctx context.Context, token string, page, limit int) (domain.Page[domain.HistoryEntry], error) {
	return s.client.History(ctx, token, page, limit)
}

// MarkWatched appends an anime to the watch history.
func (s *ProfileService) MarkWatched(ctx context.Context, token string, animeID int) error {
	s.logger.Debug("adding to history", "anime_id", animeID)
	return s.client.AddHistory(ctx, token, animeID)
}

// Unwatch removes an anime's history entries.
func (s *ProfileService) Unwatch(ctx context.Context, token string, animeID int) error {
	return s.client.RemoveHistory(ctx, token, animeID)
}
