package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/store"
)

// State is the session lifecycle state.
type State int

const (
	StateUnknown State = iota
	StateValidating
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Store owns the authenticated-identity lifecycle. It is the only writer of
// session state; user and token always change together, in memory and in the
// persisted mirror. All methods are safe for concurrent use.
type Store struct {
	client *api.Client
	db     *store.Store
	logger *slog.Logger

	mu    sync.RWMutex
	state State
	sess  domain.Session

	// gen invalidates an in-flight Init validation when Logout (or a newer
	// Login) lands first; the late completion is discarded.
	gen uint64
}

// NewStore creates a session store. The store starts in StateUnknown until
// Init runs.
func NewStore(client *api.Client, db *store.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		db:     db,
		logger: logger,
		state:  StateUnknown,
	}
}

// Init loads persisted credentials and revalidates them against the backend.
// With no persisted session it settles on Anonymous without a network call.
// With one, the persisted identity is exposed optimistically while /auth/me
// confirms it; a rejected token clears both stores. The returned state is
// the settled one.
func (s *Store) Init(ctx context.Context) State {
	persisted, ok := s.db.LoadSession()
	if !ok {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return StateAnonymous
	}

	s.mu.Lock()
	s.state = StateValidating
	s.sess = persisted
	gen := s.gen
	s.mu.Unlock()

	user, err := s.client.Me(ctx, persisted.Token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		// A logout or fresh login won the race; its outcome stands.
		return s.state
	}

	if err != nil {
		s.logger.Info("persisted session rejected", "error", err)
		s.sess = domain.Session{}
		s.state = StateAnonymous
		if clearErr := s.db.ClearSession(); clearErr != nil {
			s.logger.Warn("failed to clear persisted session", "error", clearErr)
		}
		return StateAnonymous
	}

	// Replace locally cached identity with the freshly confirmed one;
	// display fields like rating counts go stale between runs.
	s.sess = domain.Session{User: user, Token: persisted.Token}
	s.state = StateAuthenticated
	return StateAuthenticated
}

// Login authenticates as the given dataset user id. The id is validated
// client-side before any network call. On failure the prior state is left
// untouched and the error is returned for the caller to surface.
func (s *Store) Login(ctx context.Context, userID int) error {
	if userID < 0 {
		return domain.ErrInvalidUserID
	}

	sess, err := s.client.Login(ctx, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.sess = sess
	s.state = StateAuthenticated

	if err := s.db.SaveSession(sess); err != nil {
		s.logger.Warn("failed to persist session", "error", err)
	}

	s.logger.Info("logged in", "user_id", sess.User.UserID)
	return nil
}

// Logout clears the session. The backend call is best-effort; local logout
// always succeeds.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.sess.Token
	s.gen++
	s.sess = domain.Session{}
	s.state = StateAnonymous
	if err := s.db.ClearSession(); err != nil {
		s.logger.Warn("failed to clear persisted session", "error", err)
	}
	s.mu.Unlock()

	if token == "" {
		return
	}
	if err := s.client.Logout(ctx, token); err != nil {
		s.logger.Info("backend logout failed", "error", err)
	}
}

// Invalidate tears the session down after the backend rejected the token on
// some other call. No backend notification is sent for a dead token.
func (s *Store) Invalidate(err error) {
	if !errors.Is(err, domain.ErrUnauthorized) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.sess = domain.Session{}
	s.state = StateAnonymous
	if clearErr := s.db.ClearSession(); clearErr != nil {
		s.logger.Warn("failed to clear persisted session", "error", clearErr)
	}
}

// Current returns a snapshot of the session. The user pointer is never set
// without a token or vice versa.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// State returns the lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Token
}

// IsAuthenticated reports whether a complete identity is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated && s.sess.IsAuthenticated()
}
