package api

import (
	"encoding/json"
	"testing"

	"github.com/rsawada/aniterm/internal/domain"
)

func TestMapAnimeGenreString(t *testing.T) {
	item := MapAnime(AnimeRecord{
		MalID:    1,
		Name:     "Cowboy Bebop",
		Genres:   "Action, Adventure, Drama",
		Score:    8.78,
		Episodes: 26,
		Type:     "TV",
	})

	if item.ID != 1 || item.Title != "Cowboy Bebop" {
		t.Fatalf("identity fields wrong: %+v", item)
	}
	want := []string{"Action", "Adventure", "Drama"}
	if len(item.Genres) != len(want) {
		t.Fatalf("genres = %v, want %v", item.Genres, want)
	}
	for i := range want {
		if item.Genres[i] != want[i] {
			t.Fatalf("genres = %v, want %v", item.Genres, want)
		}
	}
	if item.Kind != domain.KindCatalog {
		t.Fatalf("kind = %q", item.Kind)
	}
}

func TestMapAnimeGenreArrayWins(t *testing.T) {
	item := MapAnime(AnimeRecord{
		MalID:     2,
		Genres:    "Stale, Comma, Form",
		GenreList: []string{" Action ", "", "Sci-Fi"},
	})
	want := []string{"Action", "Sci-Fi"}
	if len(item.Genres) != 2 || item.Genres[0] != want[0] || item.Genres[1] != want[1] {
		t.Fatalf("genres = %v, want %v", item.Genres, want)
	}
}

func TestMapAnimeMissingFieldsAreTotal(t *testing.T) {
	item := MapAnime(AnimeRecord{MalID: 3})
	if item.Score != 0 || item.EpisodeCount != 0 || item.MediaType != "" {
		t.Fatalf("missing numerics should map to zero values: %+v", item)
	}
	if item.Genres == nil || len(item.Genres) != 0 {
		t.Fatalf("missing genres should map to empty slice, got %#v", item.Genres)
	}
}

func TestNumberAcceptsLooseEncodings(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`8.5`, 8.5},
		{`"8.5"`, 8.5},
		{`" 7.25 "`, 7.25},
		{`null`, 0},
		{`""`, 0},
		{`"Unknown"`, 0},
		{`true`, 0},
	}
	for _, tt := range tests {
		var n Number
		if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
			t.Errorf("Number(%s): unexpected error %v", tt.in, err)
			continue
		}
		if float64(n) != tt.want {
			t.Errorf("Number(%s) = %v, want %v", tt.in, n, tt.want)
		}
	}
}

func TestMapRecommendationPredictedRatingWins(t *testing.T) {
	rec := RecommendationRecord{
		AnimeRecord:     AnimeRecord{MalID: 5, Name: "Monster", Score: 8.6},
		PredictedRating: 9.1,
	}
	item := MapRecommendation(rec)
	if item.Score != 9.1 {
		t.Fatalf("predicted rating should take the score slot, got %v", item.Score)
	}
	if item.Kind != domain.KindRecommendation {
		t.Fatalf("kind = %q", item.Kind)
	}

	// Without a prediction, the community score remains.
	rec.PredictedRating = 0
	if got := MapRecommendation(rec).Score; got != 8.6 {
		t.Fatalf("fallback score = %v, want 8.6", got)
	}
}

func TestAggregateBucketKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"Action"`, "Action"},
		{`7`, "7"},
		{`7.5`, "7.5"},
		{`null`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		b := AggregateBucket{ID: json.RawMessage(tt.raw)}
		if got := b.Key(); got != tt.want {
			t.Errorf("Key(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestMapBucketsSkipsEmptyKeys(t *testing.T) {
	buckets := []AggregateBucket{
		{ID: json.RawMessage(`"Action"`), Count: 10},
		{ID: nil, Count: 99},
		{ID: json.RawMessage(`null`), Count: 7},
		{ID: json.RawMessage(`3`), Count: 4},
	}
	out := MapBuckets(buckets)
	if len(out) != 2 {
		t.Fatalf("expected nameless bucket dropped, got %v", out)
	}
	if out[0].Key != "Action" || out[1].Key != "3" {
		t.Fatalf("unexpected keys: %v", out)
	}
}

func TestMapHistorySplitsGenres(t *testing.T) {
	// String-encoded score on the wire must survive the trip.
	raw := `{"anime_id":9,"anime_name":"Hellsing","anime_genres":"Action, Horror","anime_score":"8.1","watched_at":"2026-08-01T12:00:00Z"}`
	var rec HistoryRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	h := MapHistory(rec)
	if h.AnimeID != 9 || len(h.Genres) != 2 || h.Score != 8.1 {
		t.Fatalf("unexpected mapping: %+v", h)
	}
}
