package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rsawada/aniterm/internal/api"
	applog "github.com/rsawada/aniterm/internal/log"
	"github.com/rsawada/aniterm/internal/store"
)

func newCatalog(t *testing.T, handler http.Handler) (*CatalogService, *store.Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 5*time.Second, applog.NullLogger())
	db, err := store.Open("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCatalogService(client, db, applog.NullLogger()), db, srv
}

func TestShortQueriesNeverReachNetwork(t *testing.T) {
	var calls int32
	svc, _, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"animes":[],"count":0}`))
	}))

	for _, q := range []string{"", "a", " a ", "  "} {
		items, err := svc.Search(context.Background(), q, 20)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(items) != 0 {
			t.Fatalf("Search(%q) returned items", q)
		}
		items, err = svc.VectorSearch(context.Background(), q, 20)
		if err != nil || len(items) != 0 {
			t.Fatalf("VectorSearch(%q): %v %v", q, items, err)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("short queries hit the network %d times", calls)
	}

	// A two-rune query goes through.
	if _, err := svc.Search(context.Background(), "ab", 20); err != nil {
		t.Fatalf("Search(ab): %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly one network call, saw %d", calls)
	}
}

func TestTopFallsBackToCacheOnFailure(t *testing.T) {
	var fail atomic.Bool
	svc, _, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"animes":[{"mal_id":1,"name":"Gintama","score":9.0,"genres":"Comedy"}],"count":1}`))
	}))

	// First fetch succeeds and seeds the cache.
	items, err := svc.Top(context.Background(), 10)
	if err != nil || len(items) != 1 {
		t.Fatalf("first top fetch: %v %v", items, err)
	}

	// Backend goes away; the cached copy is served instead of an error.
	fail.Store(true)
	items, err = svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected cached fallback, got error %v", err)
	}
	if len(items) != 1 || items[0].Title != "Gintama" {
		t.Fatalf("wrong cached items %v", items)
	}
}

func TestTopErrorsWithoutCache(t *testing.T) {
	svc, _, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	if _, err := svc.Top(context.Background(), 10); err == nil {
		t.Fatal("expected error with empty cache")
	}
}

func TestGenresCachedSameWay(t *testing.T) {
	var fail atomic.Bool
	svc, _, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"genres":["Action","Drama"]}`))
	}))

	genres, err := svc.Genres(context.Background())
	if err != nil || len(genres) != 2 {
		t.Fatalf("first genre fetch: %v %v", genres, err)
	}

	fail.Store(true)
	genres, err = svc.Genres(context.Background())
	if err != nil || len(genres) != 2 {
		t.Fatalf("cached genre fallback: %v %v", genres, err)
	}
}
