package session

import (
	"context"
	"errors"
	"sync"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

// Store tracks whether a user is signed in for presentation purposes. It is
// not a security boundary: the backend authorises every request on its own.
//
// Every mutation updates the in-memory state first and then writes through
// to the Repository. Persistence failures are logged and swallowed; the
// in-memory state stays authoritative, so none of the operations can fail
// from the caller's point of view.
//
// Expiry is lazy: every read accessor checks the deadline and clears the
// session when it has passed, so an expired session never yields a username.
type Store struct {
	mu sync.Mutex

	repo     Repository
	clientID string
	duration time.Duration
	skew     time.Duration
	now      func() time.Time

	current Session
}

type Option func(*Store)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open hydrates the session store for a client from persisted storage.
// A missing or unreadable record yields the empty session.
func Open(ctx context.Context, repo Repository, clientID string, duration, skew time.Duration, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		clientID: clientID,
		duration: duration,
		skew:     skew,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	current, err := repo.Load(ctx, clientID)
	if err != nil {
		if !errors.Is(err, serviceerr.ErrNotFound) {
			slogctx.Warn(ctx, "Could not hydrate session, starting empty", "client_id", clientID, "error", err)
		}

		return s
	}

	s.current = current

	return s
}

// Login records a successful sign-in. The expiry is duration+skew from now.
func (s *Store) Login(ctx context.Context, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{
		Username: username,
		Expiry:   s.now().Add(s.duration + s.skew),
	}

	if err := s.repo.Store(ctx, s.clientID, s.current); err != nil {
		slogctx.Error(ctx, "Could not persist session", "client_id", s.clientID, "error", err)
	}
}

// Logout clears the session and removes the persisted record. Calling it
// when already signed out is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear(ctx)
}

// CheckExpiry clears the session if its deadline has passed.
func (s *Store) CheckExpiry(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(ctx)
}

// Username returns the signed-in display name. The second return is false
// when nobody is signed in or the session has lapsed.
func (s *Store) Username(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(ctx)

	return s.current.Username, s.current.Username != ""
}

// Authenticated reports whether a non-expired login is present.
func (s *Store) Authenticated(ctx context.Context) bool {
	_, ok := s.Username(ctx)
	return ok
}

// Expiry returns the session deadline, or the zero time when signed out.
func (s *Store) Expiry(ctx context.Context) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(ctx)

	return s.current.Expiry
}

func (s *Store) expireLocked(ctx context.Context) {
	if s.current.ExpiredAt(s.now()) {
		s.clear(ctx)
	}
}

func (s *Store) clear(ctx context.Context) {
	s.current = Session{}

	if err := s.repo.Delete(ctx, s.clientID); err != nil {
		slogctx.Error(ctx, "Could not delete persisted session", "client_id", s.clientID, "error", err)
	}
}
