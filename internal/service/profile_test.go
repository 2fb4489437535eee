package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rsawada/aniterm/internal/api"
	applog "github.com/rsawada/aniterm/internal/log"
)

func newProfile(t *testing.T, handler http.Handler) *ProfileService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 5*time.Second, applog.NullLogger())
	return NewProfileService(client, applog.NullLogger())
}

func TestRateUpgradesConflictToUpdate(t *testing.T) {
	var methods []string
	svc := newProfile(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			// Already rated: the add endpoint answers 409.
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"Rating already exists"}`))
		case http.MethodPut:
			var body map[string]int
			json.NewDecoder(r.Body).Decode(&body)
			if body["rating"] != 8 {
				t.Errorf("update carried rating %d, want 8", body["rating"])
			}
			w.Write([]byte(`{"message":"updated"}`))
		}
	}))

	if err := svc.Rate(context.Background(), "tok", 20, 8); err != nil {
		t.Fatalf("rate: %v", err)
	}
	want := []string{"POST /rating", "PUT /rating/20"}
	if len(methods) != 2 || methods[0] != want[0] || methods[1] != want[1] {
		t.Fatalf("calls = %v, want %v", methods, want)
	}
}

func TestRateDoesNotRetryOtherErrors(t *testing.T) {
	var calls int
	svc := newProfile(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Anime not found"}`))
	}))

	if err := svc.Rate(context.Background(), "tok", 20, 8); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("non-conflict failure retried: %d calls", calls)
	}
}

func TestRatingNilWhenUnrated(t *testing.T) {
	svc := newProfile(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Rating not found"}`))
	}))

	r, err := svc.Rating(context.Background(), "tok", 5)
	if err != nil {
		t.Fatalf("unrated should not be an error: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil rating, got %+v", r)
	}
}

func TestHistoryPagination(t *testing.T) {
	svc := newProfile(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "3" {
			t.Errorf("page = %q, want 3", got)
		}
		w.Write([]byte(`{"history":[{"anime_id":1,"anime_name":"Trigun","anime_genres":"Action, Sci-Fi","watched_at":"2026-08-20"}],"total":41,"page":3,"limit":20}`))
	}))

	page, err := svc.History(context.Background(), "tok", 3, 20)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.Total != 41 || page.Page != 3 || len(page.Items) != 1 {
		t.Fatalf("wrong page %+v", page)
	}
	if got := page.Items[0].Genres; len(got) != 2 {
		t.Fatalf("genres not split: %v", got)
	}
}
