package service

import (
	"context"
	"log/slog"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
)

// AdminService wraps the admin dashboard endpoints: stats, visualization
// datasets, and model registry operations.
type AdminService struct {
	client *api.Client
	logger *slog.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(client *api.Client, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{client: client, logger: logger}
}

// Stats returns the system headline numbers and distributions.
func (s *AdminService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.client.Stats(ctx)
}

// Visualization returns the chart datasets.
func (s *AdminService) Visualization(ctx context.Context) (api.VisualizationData, error) {
	return s.client.Visualization(ctx)
}

// Models returns the model registry.
func (s *AdminService) Models(ctx context.Context) ([]domain.ModelInfo, error) {
	return s.client.Models(ctx)
}

// Compare returns metrics of all trained models side by side.
func (s *AdminService) Compare(ctx context.Context) ([]api.ModelComparison, error) {
	return s.client.CompareModels(ctx)
}

// Activate selects a model for serving recommendations.
func (s *AdminService) Activate(ctx context.Context, modelName string) error {
	s.logger.Info("activating model", "model", modelName)
	return s.client.SelectModel(ctx, modelName)
}

// Train starts a background training job for a model.
func (s *AdminService) Train(ctx context.Context, modelName string) (domain.TrainingJob, error) {
	s.logger.Info("starting training", "model", modelName)
	return s.client.TrainModel(ctx, modelName)
}

// JobStatus polls a training job.
func (s *AdminService) JobStatus(ctx context.Context, jobID string) (domain.TrainingJob, error) {
	return s.client.TrainingStatus(ctx, jobID)
}
