package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a float64 that tolerates the backend's loose numeric encoding.
// The catalog collection stores some scores as strings (the backend itself
// applies $toDouble in its aggregations), and missing fields decode to 0.
type Number float64

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// AnimeRecord is a catalog record as stored by the backend. Genres is a
// comma-joined string ("Action, Drama"); some endpoints return an array
// under "genre" instead, so both fields are decoded.
type AnimeRecord struct {
	MalID     int      `json:"mal_id"`
	Name      string   `json:"name"`
	Genres    string   `json:"genres"`
	GenreList []string `json:"genre"`
	Score     Number   `json:"score"`
	Episodes  int      `json:"episodes"`
	Type      string   `json:"type"`
	Members   int      `json:"members"`
	Favorites int      `json:"favorites"`
	Synopsis  string   `json:"synopsis"`

	// Attached by GET /anime/:id only
	UserAvgRating   Number `json:"user_avg_rating"`
	UserRatingCount int    `json:"user_rating_count"`

	// Attached by vector search results only
	SimilarityScore Number `json:"similarity_score"`
}

// RecommendationRecord is a catalog record enriched with the model's
// predicted rating instead of a community score.
type RecommendationRecord struct {
	AnimeRecord
	PredictedRating Number `json:"predicted_rating"`
}

// AggregateBucket is the Mongo aggregation-pipeline shape {_id, count}.
// The _id may be a string (genre name) or a number (rating value, bucket
// boundary), so it is decoded leniently.
type AggregateBucket struct {
	ID    json.RawMessage `json:"_id"`
	Count int             `json:"count"`
}

// Key renders the bucket _id as a display string.
func (b AggregateBucket) Key() string {
	if len(b.ID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.ID, &s); err == nil {
		return s
	}
	// Numeric or otherwise: raw text form
	return strings.Trim(string(b.ID), `"`)
}

// RatingRecord is one stored rating row, joined with anime info on the
// user-ratings listing.
type RatingRecord struct {
	UserID     int    `json:"user_id"`
	AnimeID    int    `json:"anime_id"`
	Rating     int    `json:"rating"`
	AnimeName  string `json:"anime_name"`
	AnimeGenre string `json:"anime_genres"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// HistoryRecord is one watch-history row joined with anime info.
type HistoryRecord struct {
	AnimeID    int    `json:"anime_id"`
	AnimeName  string `json:"anime_name"`
	AnimeGenre string `json:"anime_genres"`
	AnimeScore Number `json:"anime_score"`
	WatchedAt  string `json:"watched_at"`
}

// ModelRecord is one entry of GET /admin/models.
type ModelRecord struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name"`
	IsActive    bool               `json:"is_active"`
	TrainedAt   string             `json:"trained_at"`
	Metrics     map[string]float64 `json:"metrics"`
	Status      string             `json:"status"`
}

// --- response envelopes ---

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		UserID int `json:"user_id"`
	} `json:"user"`
}

type meResponse struct {
	User struct {
		UserID       int `json:"user_id"`
		RatingCount  int `json:"rating_count"`
		HistoryCount int `json:"history_count"`
	} `json:"user"`
}

type catalogListResponse struct {
	Animes []AnimeRecord `json:"animes"`
	Total  int           `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
	Pages  int           `json:"pages"`
}

type animeResponse struct {
	Anime AnimeRecord `json:"anime"`
}

type searchResponse struct {
	Animes []AnimeRecord `json:"animes"`
	Count  int           `json:"count"`
	Query  string        `json:"query"`
}

type genresResponse struct {
	Genres []string `json:"genres"`
}

type recommendationsResponse struct {
	Recommendations []RecommendationRecord `json:"recommendations"`
	ModelUsed       string                 `json:"model_used"`
	Count           int                    `json:"count"`
}

type similarResponse struct {
	AnimeID       int           `json:"anime_id"`
	AnimeName     string        `json:"anime_name"`
	SimilarAnimes []AnimeRecord `json:"similar_animes"`
	Count         int           `json:"count"`
	Method        string        `json:"method"`
}

type ratingResponse struct {
	Rating *RatingRecord `json:"rating"`
}

type ratingsListResponse struct {
	Ratings []RatingRecord `json:"ratings"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

type historyListResponse struct {
	History []HistoryRecord `json:"history"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	UserID  int             `json:"user_id"`
}

type statsResponse struct {
	Stats struct {
		TotalUsers         int            `json:"total_users"`
		TotalAnimes        int            `json:"total_animes"`
		TotalRatings       int            `json:"total_ratings"`
		TotalHistory       int            `json:"total_history"`
		RatingDistribution map[string]int `json:"rating_distribution"`
		TopGenres          []struct {
			Genre string `json:"genre"`
			Count int    `json:"count"`
		} `json:"top_genres"`
	} `json:"stats"`
}

type visualizationResponse struct {
	Data VisualizationData `json:"data"`
}

// VisualizationData carries the admin chart datasets this client renders.
// The backend returns more series than these; unknown keys are ignored.
type VisualizationData struct {
	RatingDistribution []AggregateBucket `json:"rating_distribution"`
	GenreFrequency     []AggregateBucket `json:"genre_frequency"`
	ScoreDistribution  []AggregateBucket `json:"score_distribution"`
	RatingCategories   []struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	} `json:"rating_categories"`
	EngagementFunnel []struct {
		Stage string `json:"stage"`
		Count int    `json:"count"`
	} `json:"user_engagement_funnel"`
}

type modelsResponse struct {
	Models []ModelRecord `json:"models"`
}

type compareResponse struct {
	Comparison []struct {
		Name      string             `json:"name"`
		Metrics   map[string]float64 `json:"metrics"`
		TrainedAt string             `json:"trained_at"`
		IsActive  bool               `json:"is_active"`
	} `json:"comparison"`
}

type trainResponse struct {
	Message string `json:"message"`
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
}

type jobResponse struct {
	JobID    string `json:"job_id"`
	Model    string `json:"model_name"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Step     string `json:"current_step"`
	Error    string `json:"error"`
}
