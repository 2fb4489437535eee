package api

import (
	"context"
	"net/http"
	"testing"
)

func TestStatsRatingDistributionOrderedNumerically(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Keys arrive as strings; "10" must sort after "9", not after "1".
		w.Write([]byte(`{"stats":{
			"total_users":100,"total_animes":500,"total_ratings":9000,"total_history":300,
			"rating_distribution":{"10":5,"1":2,"9":40,"2":3},
			"top_genres":[{"genre":"Action","count":120},{"genre":"Drama","count":80}]
		}}`))
	}))

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := []string{"1", "2", "9", "10"}
	if len(stats.RatingDistribution) != len(want) {
		t.Fatalf("distribution = %v", stats.RatingDistribution)
	}
	for i, kc := range stats.RatingDistribution {
		if kc.Key != want[i] {
			t.Fatalf("order = %v, want %v", stats.RatingDistribution, want)
		}
	}
	if stats.TopGenres[0].Key != "Action" || stats.TopGenres[0].Count != 120 {
		t.Fatalf("top genres = %v", stats.TopGenres)
	}
}

func TestTrainModelConflict(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"Training already in progress"}`))
	}))

	_, err := client.TrainModel(context.Background(), "hybrid")
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestTrainingStatusRoundTrip(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/models/train/status/job-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"job_id":"job-1","model_name":"neural_cf","status":"running","progress":40,"current_step":"epoch 4/10"}`))
	}))

	job, err := client.TrainingStatus(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if job.Status != "running" || job.Progress != 40 || job.Model != "neural_cf" {
		t.Fatalf("wrong job %+v", job)
	}
}

func TestVisualizationMixedBucketIDs(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"rating_distribution":[{"_id":7,"count":10},{"_id":8,"count":20}],
			"genre_frequency":[{"_id":"Action","count":50}]
		}}`))
	}))

	data, err := client.Visualization(context.Background())
	if err != nil {
		t.Fatalf("visualization: %v", err)
	}
	if got := data.RatingDistribution[0].Key(); got != "7" {
		t.Fatalf("numeric _id rendered as %q", got)
	}
	if got := data.GenreFrequency[0].Key(); got != "Action" {
		t.Fatalf("string _id rendered as %q", got)
	}
}
