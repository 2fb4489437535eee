package service

import (
	"context"
	"log/slog"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
)

// RecommendService wraps the recommendation endpoints.
type RecommendService struct {
	client *api.Client
	logger *slog.Logger
}

// NewRecommendService creates a recommendation service.
func NewRecommendService(client *api.Client, logger *slog.Logger) *RecommendService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendService{client: client, logger: logger}
}

// Personalized returns recommendations for the active model, or a pinned
// model when model is non-empty.
func (s *RecommendService) Personalized(ctx context.Context, token string, limit int, model string) (api.RecommendationSet, error) {
	set, err := s.client.Recommendations(ctx, token, limit, model)
	if err != nil {
		return api.RecommendationSet{}, err
	}
	s.logger.Debug("recommendations loaded", "model", set.ModelUsed, "count", len(set.Items))
	return set, nil
}

// Similar returns items similar to an anime.
func (s *RecommendService) Similar(ctx context.Context, animeID, limit int, useContent bool) (api.SimilarSet, error) {
	return s.client.Similar(ctx, animeID, limit, useContent)
}

// Models lists the model variants to request lanes for. Exposed so the UI
// builds one lane per variant without knowing registry names.
func (s *RecommendService) Models() []string {
	return domain.ModelNames
}
