package service

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/rsawada/aniterm/internal/domain"
)

// itemSource implements sahilm/fuzzy.Source over display items for
// zero-allocation matching against pre-lowered titles.
type itemSource struct {
	items       []domain.DisplayItem
	lowerTitles []string
}

func (s itemSource) String(i int) string { return s.lowerTitles[i] }
func (s itemSource) Len() int            { return len(s.items) }

// FilterResult pairs a matched item with highlight metadata.
type FilterResult struct {
	Item           domain.DisplayItem
	MatchedIndexes []int
	Score          int
}

// FilterItems ranks the already-loaded items against a quick-filter query.
// This is purely local; it narrows the current page without a fetch. An
// empty query returns everything in original order.
func FilterItems(items []domain.DisplayItem, q string) []FilterResult {
	q = strings.TrimSpace(strings.ToLower(q))
	if q == "" {
		results := make([]FilterResult, len(items))
		for i, item := range items {
			results[i] = FilterResult{Item: item}
		}
		return results
	}

	src := itemSource{
		items:       items,
		lowerTitles: make([]string, len(items)),
	}
	for i, item := range items {
		src.lowerTitles[i] = strings.ToLower(item.Title)
	}

	matches := fuzzy.FindFrom(q, src)
	results := make([]FilterResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, FilterResult{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	return results
}

// RankGenres orders the genre list by closeness to the typed prefix, for
// the genre picker. An empty query returns the list as-is.
func RankGenres(genres []string, q string) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return genres
	}

	ranks := lfuzzy.RankFindFold(q, genres)
	sort.Sort(ranks)

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}
