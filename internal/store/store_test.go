package store

import (
	"testing"

	"github.com/rsawada/aniterm/internal/domain"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	s := memStore(t)

	if _, ok := s.LoadSession(); ok {
		t.Fatal("fresh store should have no session")
	}

	sess := domain.Session{User: &domain.User{UserID: 42}, Token: "tok"}
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok := s.LoadSession()
	if !ok {
		t.Fatal("saved session not found")
	}
	if loaded.User.UserID != 42 || loaded.Token != "tok" {
		t.Fatalf("wrong session %+v", loaded)
	}

	if err := s.ClearSession(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := s.LoadSession(); ok {
		t.Fatal("cleared session still readable")
	}
}

func TestSaveSessionRefusesIncomplete(t *testing.T) {
	s := memStore(t)

	if err := s.SaveSession(domain.Session{Token: "tok"}); err == nil {
		t.Fatal("token without user must be refused")
	}
	if err := s.SaveSession(domain.Session{User: &domain.User{UserID: 1}}); err == nil {
		t.Fatal("user without token must be refused")
	}
	if _, ok := s.LoadSession(); ok {
		t.Fatal("refused save left data behind")
	}
}

func TestHalfWrittenSessionReadsAsAbsent(t *testing.T) {
	s := memStore(t)

	// Simulate a torn write: only one of the two keys present.
	if err := s.set(bucketSession, keySessionToken, "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := s.LoadSession(); ok {
		t.Fatal("half-written session must read as absent")
	}
}

func TestCachedLists(t *testing.T) {
	s := memStore(t)

	if _, ok := s.GetTopAnime(); ok {
		t.Fatal("fresh store should have no top cache")
	}

	items := []domain.DisplayItem{{ID: 1, Title: "Steins;Gate", Score: 9.1, Genres: []string{"Sci-Fi"}}}
	if err := s.SaveTopAnime(items); err != nil {
		t.Fatalf("save top: %v", err)
	}
	if err := s.SaveGenres([]string{"Action", "Drama"}); err != nil {
		t.Fatalf("save genres: %v", err)
	}

	top, ok := s.GetTopAnime()
	if !ok || len(top) != 1 || top[0].Title != "Steins;Gate" {
		t.Fatalf("wrong top cache %v", top)
	}
	genres, ok := s.GetGenres()
	if !ok || len(genres) != 2 {
		t.Fatalf("wrong genre cache %v", genres)
	}
}

func TestInvalidateCacheLeavesSession(t *testing.T) {
	s := memStore(t)

	sess := domain.Session{User: &domain.User{UserID: 9}, Token: "tok"}
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := s.SaveTopAnime([]domain.DisplayItem{{ID: 1}}); err != nil {
		t.Fatalf("save top: %v", err)
	}

	if err := s.InvalidateCache(); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok := s.GetTopAnime(); ok {
		t.Fatal("cache survived invalidation")
	}
	if _, ok := s.LoadSession(); !ok {
		t.Fatal("session must survive cache invalidation")
	}
}

func TestPersistentRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sess := domain.Session{User: &domain.User{UserID: 5}, Token: "tok-disk"}
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	// Reopen and read back from disk, past the memory cache.
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	loaded, ok := s2.LoadSession()
	if !ok || loaded.Token != "tok-disk" || loaded.User.UserID != 5 {
		t.Fatalf("persisted session lost: %+v %v", loaded, ok)
	}
}
