package query

import (
	"net/url"
	"testing"
)

func TestDefaultStateEncodesEmpty(t *testing.T) {
	s := New()
	if got := s.Values().Encode(); got != "" {
		t.Fatalf("defaulted state should encode empty, got %q", got)
	}
	if got := s.Link("browse"); got != "browse" {
		t.Fatalf("defaulted link should be bare page, got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []State{
		New(),
		New().WithGenre("Action"),
		New().WithGenre("Slice of Life").WithPage(3),
		New().WithQuery("cowboy"),
		New().WithSort(SortName, OrderAsc),
		New().WithSort(SortName, OrderAsc).WithPage(7),
		{Query: "ghost", Genre: "Sci-Fi", Sort: SortName, Order: OrderAsc, Page: 4},
	}
	for _, want := range cases {
		got := Parse(want.Values())
		if !got.Equal(want) {
			t.Errorf("round trip mismatch: %+v -> %+v", want, got)
		}
	}
}

func TestLinkOmitsDefaults(t *testing.T) {
	s := New().WithGenre("Action").WithPage(2)
	link := s.Link("browse")
	if link != "browse?genre=Action&page=2" {
		t.Fatalf("unexpected link %q", link)
	}
	// sort/order at defaults must not appear
	for _, key := range []string{"sort", "order", "q"} {
		if s.Values().Has(key) {
			t.Errorf("defaulted key %q present in encoding", key)
		}
	}
}

func TestParseIgnoresMalformedValues(t *testing.T) {
	v := url.Values{}
	v.Set("sort", "popularity") // unknown field
	v.Set("order", "sideways")
	v.Set("page", "banana")
	s := Parse(v)
	if !s.Equal(New()) {
		t.Fatalf("malformed values should fall back to defaults, got %+v", s)
	}

	v = url.Values{}
	v.Set("page", "0")
	if got := Parse(v).Page; got != DefaultPage {
		t.Fatalf("page 0 should clamp to default, got %d", got)
	}
}

func TestFilterChangesResetPage(t *testing.T) {
	s := New().WithPage(5)

	if got := s.WithGenre("Drama").Page; got != DefaultPage {
		t.Errorf("genre change kept page %d", got)
	}
	if got := s.WithQuery("mononoke").Page; got != DefaultPage {
		t.Errorf("query change kept page %d", got)
	}
	if got := s.WithSort(SortName, OrderAsc).Page; got != DefaultPage {
		t.Errorf("sort change kept page %d", got)
	}
	if got := s.WithPage(6).Page; got != 6 {
		t.Errorf("page change should not reset itself, got %d", got)
	}
}

func TestParseLink(t *testing.T) {
	page, s, err := ParseLink("browse?genre=Action&page=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != "browse" {
		t.Fatalf("wrong page %q", page)
	}
	if s.Genre != "Action" || s.Page != 2 {
		t.Fatalf("wrong state %+v", s)
	}

	if _, _, err := ParseLink("?genre=Action"); err == nil {
		t.Fatal("link without page should error")
	}
	if _, _, err := ParseLink("browse?genre=%zz"); err == nil {
		t.Fatal("malformed query should error")
	}
}
