package domain

// Session is the authenticated identity held by the client. User and Token
// are always set or cleared together; a Session with only one of them set is
// never observable.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// IsAuthenticated reports whether the session carries a complete identity.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// User is the backend identity record. The backend keys users on a bare
// numeric id and carries no display name; the UI labels the session from
// the id alone.
type User struct {
	UserID       int `json:"user_id"`
	RatingCount  int `json:"rating_count,omitempty"`
	HistoryCount int `json:"history_count,omitempty"`
}

// ItemKind tags the origin of a DisplayItem.
type ItemKind string

const (
	KindCatalog        ItemKind = "catalog"
	KindRecommendation ItemKind = "recommendation"
)

// DisplayItem is the single normalized shape every list in the UI renders.
// It is recomputed wholesale from each response and never mutated in place.
type DisplayItem struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Score        float64  `json:"score"`
	Genres       []string `json:"genres"`
	EpisodeCount int      `json:"episode_count,omitempty"`
	MediaType    string   `json:"media_type,omitempty"`
	Kind         ItemKind `json:"kind"`
}

// AnimeDetail is the detail-page projection of a catalog record, including
// the aggregate user-rating stats the backend attaches to GET /anime/:id.
type AnimeDetail struct {
	DisplayItem
	Synopsis        string  `json:"synopsis,omitempty"`
	Members         int     `json:"members,omitempty"`
	UserAvgRating   float64 `json:"user_avg_rating"`
	UserRatingCount int     `json:"user_rating_count"`
}

// Rating is one user's score for one anime, 1-10 per the dataset scale.
type Rating struct {
	AnimeID    int    `json:"anime_id"`
	Rating     int    `json:"rating"`
	AnimeName  string `json:"anime_name,omitempty"`
	AnimeGenre string `json:"anime_genres,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// HistoryEntry is one watch-history row joined with its anime name.
type HistoryEntry struct {
	AnimeID    int      `json:"anime_id"`
	AnimeName  string   `json:"anime_name"`
	Genres     []string `json:"genres"`
	Score      float64  `json:"score"`
	WatchedAt  string   `json:"watched_at"`
}

// Page wraps a paginated list response.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
	Pages int
}

// Recommendation model names as the backend registry knows them.
const (
	ModelUserBasedCF = "user_based_cf"
	ModelItemBasedCF = "item_based_cf"
	ModelHybrid      = "hybrid"
	ModelNeuralCF    = "neural_cf"
)

// ModelNames lists the four recommendation model variants in display order.
var ModelNames = []string{ModelUserBasedCF, ModelItemBasedCF, ModelHybrid, ModelNeuralCF}

// ModelInfo describes one entry of the backend model registry.
type ModelInfo struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name"`
	IsActive    bool               `json:"is_active"`
	TrainedAt   string             `json:"trained_at,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Status      string             `json:"status"` // "trained" or "not_trained"
}

// TrainingJob tracks an asynchronous model-training run on the backend.
type TrainingJob struct {
	JobID    string `json:"job_id"`
	Model    string `json:"model_name"`
	Status   string `json:"status"` // pending, running, completed, failed
	Progress int    `json:"progress"`
	Step     string `json:"current_step,omitempty"`
	Error    string `json:"error,omitempty"`
}

// KeyCount is a normalized aggregation bucket ({_id, count} on the wire).
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Percent returns this bucket's share of total, guarding division by zero.
func (k KeyCount) Percent(total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(k.Count) / float64(total)
}

// Stats is the admin dashboard headline block.
type Stats struct {
	TotalUsers         int            `json:"total_users"`
	TotalAnimes        int            `json:"total_animes"`
	TotalRatings       int            `json:"total_ratings"`
	TotalHistory       int            `json:"total_history"`
	RatingDistribution []KeyCount     `json:"rating_distribution"`
	TopGenres          []KeyCount     `json:"top_genres"`
}
