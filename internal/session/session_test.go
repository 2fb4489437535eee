package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
	applog "github.com/rsawada/aniterm/internal/log"
	"github.com/rsawada/aniterm/internal/store"
)

func newTestStore(t *testing.T, handler http.Handler) (*Store, *store.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 5*time.Second, applog.NullLogger())
	db, err := store.Open("") // memory only
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(client, db, applog.NullLogger()), db
}

func persistedSession(t *testing.T, db *store.Store, userID int, token string) {
	t.Helper()
	err := db.SaveSession(domain.Session{
		User:  &domain.User{UserID: userID},
		Token: token,
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestInitWithoutPersistedSessionIsAnonymousWithoutNetwork(t *testing.T) {
	var calls int32
	sess, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	if got := sess.Init(context.Background()); got != StateAnonymous {
		t.Fatalf("state = %v, want anonymous", got)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("expected no network calls, saw %d", n)
	}
	if sess.IsAuthenticated() {
		t.Fatal("should not be authenticated")
	}
}

func TestInitRevalidatesPersistedSession(t *testing.T) {
	sess, db := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			t.Errorf("wrong auth header %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"user":{"user_id":42,"rating_count":12,"history_count":3}}`))
	}))
	persistedSession(t, db, 42, "tok-abc")

	if got := sess.Init(context.Background()); got != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", got)
	}
	cur := sess.Current()
	if cur.User == nil || cur.User.UserID != 42 {
		t.Fatalf("wrong identity %+v", cur)
	}
	// Counts come back refreshed from the backend, not from disk.
	if cur.User.RatingCount != 12 {
		t.Fatalf("stale identity kept: %+v", cur.User)
	}
	if sess.Token() != "tok-abc" {
		t.Fatalf("token lost: %q", sess.Token())
	}
}

func TestInitRejectedTokenClearsBothStores(t *testing.T) {
	sess, db := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Token is invalid"}`))
	}))
	persistedSession(t, db, 42, "tok-dead")

	if got := sess.Init(context.Background()); got != StateAnonymous {
		t.Fatalf("state = %v, want anonymous", got)
	}
	if sess.Token() != "" {
		t.Fatal("in-memory token survived rejection")
	}
	if _, ok := db.LoadSession(); ok {
		t.Fatal("persisted session survived rejection")
	}
}

func TestLoginSetsUserAndTokenTogether(t *testing.T) {
	sess, db := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok","token":"tok-new","user":{"user_id":7}}`))
	}))

	if err := sess.Login(context.Background(), 7); err != nil {
		t.Fatalf("login: %v", err)
	}
	cur := sess.Current()
	if !cur.IsAuthenticated() {
		t.Fatalf("incomplete session after login: %+v", cur)
	}
	if cur.User.UserID != 7 || cur.Token != "tok-new" {
		t.Fatalf("wrong session %+v", cur)
	}
	if saved, ok := db.LoadSession(); !ok || saved.Token != "tok-new" {
		t.Fatalf("session not persisted: %+v %v", saved, ok)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	sess, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"User not found"}`))
	}))
	sess.Init(context.Background()) // settles anonymous

	err := sess.Login(context.Background(), 123456789)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if sess.State() != StateAnonymous {
		t.Fatalf("failed login changed state to %v", sess.State())
	}
	if sess.Token() != "" {
		t.Fatal("failed login left a token behind")
	}
}

func TestLoginRejectsNegativeUserIDWithoutNetwork(t *testing.T) {
	var calls int32
	sess, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	if err := sess.Login(context.Background(), -1); !errors.Is(err, domain.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("invalid id must be rejected before any network call")
	}
}

func TestLogoutClearsLocallyEvenWhenBackendFails(t *testing.T) {
	sess, db := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"token":"tok-x","user":{"user_id":1}}`))
		case "/auth/logout":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	if err := sess.Login(context.Background(), 1); err != nil {
		t.Fatalf("login: %v", err)
	}

	sess.Logout(context.Background())

	if sess.State() != StateAnonymous || sess.Token() != "" {
		t.Fatal("logout did not clear local session")
	}
	if _, ok := db.LoadSession(); ok {
		t.Fatal("logout did not clear persisted session")
	}
}

func TestLogoutDuringInitValidationWins(t *testing.T) {
	release := make(chan struct{})
	sess, db := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/me" {
			<-release // hold the validation in flight
			w.Write([]byte(`{"user":{"user_id":42}}`))
			return
		}
	}))
	persistedSession(t, db, 42, "tok-slow")

	done := make(chan State, 1)
	go func() {
		done <- sess.Init(context.Background())
	}()

	// Wait for Init to enter validating, then log out underneath it.
	deadline := time.After(2 * time.Second)
	for sess.State() != StateValidating {
		select {
		case <-deadline:
			t.Fatal("init never reached validating")
		case <-time.After(time.Millisecond):
		}
	}
	sess.Logout(context.Background())
	close(release)

	if got := <-done; got != StateAnonymous {
		t.Fatalf("late validation overrode logout: %v", got)
	}
	if sess.IsAuthenticated() || sess.Token() != "" {
		t.Fatal("logout result did not stand")
	}
}

func TestInvalidateOnlyActsOnUnauthorized(t *testing.T) {
	sess, db := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-y","user":{"user_id":2}}`))
	}))
	if err := sess.Login(context.Background(), 2); err != nil {
		t.Fatalf("login: %v", err)
	}

	sess.Invalidate(domain.ErrBackendUnreachable)
	if !sess.IsAuthenticated() {
		t.Fatal("network failure must not tear the session down")
	}

	sess.Invalidate(domain.ErrUnauthorized)
	if sess.IsAuthenticated() {
		t.Fatal("401 should invalidate the session")
	}
	if _, ok := db.LoadSession(); ok {
		t.Fatal("persisted session survived invalidation")
	}
}
