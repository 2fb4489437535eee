package service

import (
	"testing"

	"github.com/rsawada/aniterm/internal/domain"
)

func items(titles ...string) []domain.DisplayItem {
	out := make([]domain.DisplayItem, len(titles))
	for i, t := range titles {
		out[i] = domain.DisplayItem{ID: i + 1, Title: t}
	}
	return out
}

func TestFilterItemsEmptyQueryKeepsOrder(t *testing.T) {
	in := items("Monster", "Berserk", "Mushishi")
	got := FilterItems(in, "  ")
	if len(got) != 3 {
		t.Fatalf("expected all items, got %d", len(got))
	}
	for i := range in {
		if got[i].Item.Title != in[i].Title {
			t.Fatalf("order changed: %v", got)
		}
	}
}

func TestFilterItemsMatchesCaseInsensitive(t *testing.T) {
	in := items("Cowboy Bebop", "Samurai Champloo", "Space Dandy")
	got := FilterItems(in, "BEBOP")
	if len(got) != 1 || got[0].Item.Title != "Cowboy Bebop" {
		t.Fatalf("unexpected matches %v", got)
	}
	if len(got[0].MatchedIndexes) == 0 {
		t.Fatal("expected highlight indexes")
	}
}

func TestFilterItemsNoMatch(t *testing.T) {
	if got := FilterItems(items("Akira"), "zzzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestRankGenres(t *testing.T) {
	genres := []string{"Action", "Adventure", "Drama", "Romance"}

	if got := RankGenres(genres, ""); len(got) != 4 || got[0] != "Action" {
		t.Fatalf("empty query should return as-is, got %v", got)
	}

	got := RankGenres(genres, "rom")
	if len(got) == 0 || got[0] != "Romance" {
		t.Fatalf("expected Romance ranked first, got %v", got)
	}
}
