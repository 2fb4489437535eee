package api

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/rsawada/aniterm/internal/domain"
)

// Stats returns the admin dashboard headline numbers and distributions.
func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	var resp statsResponse
	if err := c.get(ctx, "/admin/stats", nil, "", &resp); err != nil {
		return domain.Stats{}, err
	}

	s := resp.Stats
	stats := domain.Stats{
		TotalUsers:   s.TotalUsers,
		TotalAnimes:  s.TotalAnimes,
		TotalRatings: s.TotalRatings,
		TotalHistory: s.TotalHistory,
	}

	// rating_distribution arrives as a {"1": n, ...} map; order by key
	keys := make([]string, 0, len(s.RatingDistribution))
	for k := range s.RatingDistribution {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	for _, k := range keys {
		stats.RatingDistribution = append(stats.RatingDistribution, domain.KeyCount{
			Key:   k,
			Count: s.RatingDistribution[k],
		})
	}

	for _, g := range s.TopGenres {
		stats.TopGenres = append(stats.TopGenres, domain.KeyCount{Key: g.Genre, Count: g.Count})
	}

	return stats, nil
}

// Visualization returns the admin chart datasets.
func (c *Client) Visualization(ctx context.Context) (VisualizationData, error) {
	var resp visualizationResponse
	if err := c.get(ctx, "/admin/visualization", nil, "", &resp); err != nil {
		return VisualizationData{}, err
	}
	return resp.Data, nil
}

// Models returns the model registry: the four recommendation variants with
// their trained/not_trained status and metrics.
func (c *Client) Models(ctx context.Context) ([]domain.ModelInfo, error) {
	var resp modelsResponse
	if err := c.get(ctx, "/admin/models", nil, "", &resp); err != nil {
		return nil, err
	}

	models := make([]domain.ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, domain.ModelInfo{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			IsActive:    m.IsActive,
			TrainedAt:   m.TrainedAt,
			Metrics:     m.Metrics,
			Status:      m.Status,
		})
	}
	return models, nil
}

// SelectModel activates a model for recommendations.
func (c *Client) SelectModel(ctx context.Context, modelName string) error {
	return c.post(ctx, "/admin/models/select", map[string]string{"model_name": modelName}, "", nil)
}

// TrainModel starts a background training job. The backend answers 409 when
// another job is already running.
func (c *Client) TrainModel(ctx context.Context, modelName string) (domain.TrainingJob, error) {
	var resp trainResponse
	err := c.post(ctx, "/admin/models/train", map[string]string{"model_name": modelName}, "", &resp)
	if err != nil {
		return domain.TrainingJob{}, err
	}
	return domain.TrainingJob{
		JobID:  resp.JobID,
		Model:  modelName,
		Status: resp.Status,
	}, nil
}

// TrainingStatus polls one training job.
func (c *Client) TrainingStatus(ctx context.Context, jobID string) (domain.TrainingJob, error) {
	var resp jobResponse
	path := fmt.Sprintf("/admin/models/train/status/%s", url.PathEscape(jobID))
	if err := c.get(ctx, path, nil, "", &resp); err != nil {
		return domain.TrainingJob{}, err
	}
	return domain.TrainingJob{
		JobID:    resp.JobID,
		Model:    resp.Model,
		Status:   resp.Status,
		Progress: resp.Progress,
		Step:     resp.Step,
		Error:    resp.Error,
	}, nil
}

// ModelComparison is one row of the model metrics comparison table.
type ModelComparison struct {
	Name      string
	Metrics   map[string]float64
	TrainedAt string
	IsActive  bool
}

// CompareModels returns all trained models' metrics side by side.
func (c *Client) CompareModels(ctx context.Context) ([]ModelComparison, error) {
	var resp compareResponse
	if err := c.get(ctx, "/admin/models/compare", nil, "", &resp); err != nil {
		return nil, err
	}

	rows := make([]ModelComparison, 0, len(resp.Comparison))
	for _, m := range resp.Comparison {
		rows = append(rows, ModelComparison{
			Name:      m.Name,
			Metrics:   m.Metrics,
			TrainedAt: m.TrainedAt,
			IsActive:  m.IsActive,
		})
	}
	return rows, nil
}
