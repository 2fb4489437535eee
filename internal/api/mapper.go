package api

import (
	"strings"

	"github.com/rsawada/aniterm/internal/domain"
)

// Mapping functions from wire records to display models. All of them are
// total: malformed or missing fields degrade to zero values so one bad
// record cannot take down a whole list.

// MapAnime converts a catalog record to a display item.
func MapAnime(r AnimeRecord) domain.DisplayItem {
	return domain.DisplayItem{
		ID:           r.MalID,
		Title:        r.Name,
		Score:        float64(r.Score),
		Genres:       splitGenres(r),
		EpisodeCount: r.Episodes,
		MediaType:    r.Type,
		Kind:         domain.KindCatalog,
	}
}

// MapAnimes converts a slice of catalog records.
func MapAnimes(records []AnimeRecord) []domain.DisplayItem {
	items := make([]domain.DisplayItem, 0, len(records))
	for _, r := range records {
		items = append(items, MapAnime(r))
	}
	return items
}

// MapRecommendation converts a recommendation record. The predicted rating
// takes the score slot; a recommendation without one falls back to the
// community score so the lane still sorts sensibly.
func MapRecommendation(r RecommendationRecord) domain.DisplayItem {
	item := MapAnime(r.AnimeRecord)
	item.Kind = domain.KindRecommendation
	if r.PredictedRating > 0 {
		item.Score = float64(r.PredictedRating)
	}
	return item
}

// MapRecommendations converts a slice of recommendation records.
func MapRecommendations(records []RecommendationRecord) []domain.DisplayItem {
	items := make([]domain.DisplayItem, 0, len(records))
	for _, r := range records {
		items = append(items, MapRecommendation(r))
	}
	return items
}

// MapAnimeDetail converts the GET /anime/:id record including the aggregate
// user-rating stats the backend attaches.
func MapAnimeDetail(r AnimeRecord) domain.AnimeDetail {
	return domain.AnimeDetail{
		DisplayItem:     MapAnime(r),
		Synopsis:        r.Synopsis,
		Members:         r.Members,
		UserAvgRating:   float64(r.UserAvgRating),
		UserRatingCount: r.UserRatingCount,
	}
}

// MapRating converts a stored rating row.
func MapRating(r RatingRecord) domain.Rating {
	return domain.Rating{
		AnimeID:    r.AnimeID,
		Rating:     r.Rating,
		AnimeName:  r.AnimeName,
		AnimeGenre: r.AnimeGenre,
		UpdatedAt:  r.UpdatedAt,
	}
}

// MapHistory converts a watch-history row.
func MapHistory(r HistoryRecord) domain.HistoryEntry {
	return domain.HistoryEntry{
		AnimeID:   r.AnimeID,
		AnimeName: r.AnimeName,
		Genres:    splitGenreString(r.AnimeGenre),
		Score:     float64(r.AnimeScore),
		WatchedAt: r.WatchedAt,
	}
}

// MapBuckets converts Mongo {_id, count} aggregation buckets.
func MapBuckets(buckets []AggregateBucket) []domain.KeyCount {
	out := make([]domain.KeyCount, 0, len(buckets))
	for _, b := range buckets {
		key := b.Key()
		if key == "" {
			continue
		}
		out = append(out, domain.KeyCount{Key: key, Count: b.Count})
	}
	return out
}

// splitGenres normalizes a record's genre representation. Catalog records
// use a comma-joined string; recommendation-shaped records sometimes carry
// an array under "genre" instead. The array wins when both are present.
func splitGenres(r AnimeRecord) []string {
	if len(r.GenreList) > 0 {
		genres := make([]string, 0, len(r.GenreList))
		for _, g := range r.GenreList {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
		return genres
	}
	return splitGenreString(r.Genres)
}

// splitGenreString splits "Action, Drama" into ["Action", "Drama"].
func splitGenreString(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}
