// Package query keeps a page's filter state and its shareable link form
// mutually consistent, and separates a text field's live value from its
// debounced effective value.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Recognized sort fields and directions.
const (
	SortScore = "score"
	SortName  = "name"
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Filter defaults. Keys at their default are omitted from encoded links so
// shared links stay minimal.
const (
	DefaultSort  = SortScore
	DefaultOrder = OrderDesc
	DefaultPage  = 1
)

// State is the canonical filter state of a page. A fresh State (via New) is
// fully defaulted; the encoded form of a defaulted State is empty.
type State struct {
	Query string
	Genre string
	Sort  string // "score" or "name"
	Order string // "asc" or "desc"
	Page  int
}

// New returns a State with all defaults applied.
func New() State {
	return State{Sort: DefaultSort, Order: DefaultOrder, Page: DefaultPage}
}

// Values encodes the state as a query string, omitting defaulted keys.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if s.Genre != "" {
		v.Set("genre", s.Genre)
	}
	if s.Sort != "" && s.Sort != DefaultSort {
		v.Set("sort", s.Sort)
	}
	if s.Order != "" && s.Order != DefaultOrder {
		v.Set("order", s.Order)
	}
	if s.Page > DefaultPage {
		v.Set("page", strconv.Itoa(s.Page))
	}
	return v
}

// Link renders the state as a shareable deep link for the given page name,
// e.g. "browse?genre=Action&page=2". A defaulted state yields just the page.
func (s State) Link(page string) string {
	encoded := s.Values().Encode()
	if encoded == "" {
		return page
	}
	return page + "?" + encoded
}

// Parse reconstructs a State from query values, applying defaults for
// missing or malformed keys. Parse(s.Values()) == s for every reachable
// State.
func Parse(v url.Values) State {
	s := New()
	s.Query = v.Get("q")
	s.Genre = v.Get("genre")
	if sort := v.Get("sort"); sort == "score" || sort == "name" {
		s.Sort = sort
	}
	if order := v.Get("order"); order == "asc" || order == "desc" {
		s.Order = order
	}
	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 1 {
		s.Page = page
	}
	return s
}

// ParseLink splits a deep link into its page name and filter state.
func ParseLink(link string) (page string, s State, err error) {
	page, rawQuery, _ := strings.Cut(link, "?")
	page = strings.Trim(page, "/")
	if page == "" {
		return "", New(), fmt.Errorf("empty page in link %q", link)
	}

	v, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", New(), fmt.Errorf("bad query in link %q: %w", link, err)
	}
	return page, Parse(v), nil
}

// WithPage returns a copy of s on the given page number.
func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// WithQuery returns a copy of s with a new search query. Changing the query
// resets pagination; page position is meaningless under a different filter.
func (s State) WithQuery(q string) State {
	s.Query = q
	s.Page = DefaultPage
	return s
}

// WithGenre returns a copy of s filtered to a genre, resetting pagination.
func (s State) WithGenre(genre string) State {
	s.Genre = genre
	s.Page = DefaultPage
	return s
}

// WithSort returns a copy of s sorted by the given field and order,
// resetting pagination.
func (s State) WithSort(sort, order string) State {
	s.Sort = sort
	s.Order = order
	s.Page = DefaultPage
	return s
}

// Equal reports whether two states describe the same view.
func (s State) Equal(o State) bool {
	return s == o
}
