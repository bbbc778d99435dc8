package sessionmock

import (
	"context"
	"maps"
	"sync"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
	"github.com/shopfront/storefront-manager/internal/session"
)

type RepositoryOption func(*Repository)

// Repository is an in-memory session.Repository with optional error
// injection, for tests.
type Repository struct {
	mu       sync.Mutex
	sessions map[string]session.Session

	loadErr, storeErr, deleteErr, listErr error
}

func WithSession(clientID string, s session.Session) RepositoryOption {
	return func(r *Repository) { r.sessions[clientID] = s }
}

func WithLoadError(err error) RepositoryOption {
	return func(r *Repository) { r.loadErr = err }
}

func WithStoreError(err error) RepositoryOption {
	return func(r *Repository) { r.storeErr = err }
}

func WithDeleteError(err error) RepositoryOption {
	return func(r *Repository) { r.deleteErr = err }
}

func WithListError(err error) RepositoryOption {
	return func(r *Repository) { r.listErr = err }
}

var _ = session.Repository(&Repository{})

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		sessions: make(map[string]session.Session),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repository) Load(ctx context.Context, clientID string) (session.Session, error) {
	if r.loadErr != nil {
		return session.Session{}, r.loadErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[clientID]
	if !ok {
		return session.Session{}, serviceerr.ErrNotFound
	}

	return s, nil
}

func (r *Repository) Store(ctx context.Context, clientID string, s session.Session) error {
	if r.storeErr != nil {
		return r.storeErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[clientID] = s

	return nil
}

func (r *Repository) Delete(ctx context.Context, clientID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, clientID)

	return nil
}

func (r *Repository) List(ctx context.Context) (map[string]session.Session, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return maps.Clone(r.sessions), nil
}

// Contains reports whether a session is persisted for the client.
func (r *Repository) Contains(clientID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[clientID]

	return ok
}
