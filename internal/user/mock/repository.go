package usermock

import (
	"context"
	"sync"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
	"github.com/shopfront/storefront-manager/internal/user"
)

type RepositoryOption func(*Repository)

// Repository is an in-memory user.Repository, for tests.
type Repository struct {
	mu       sync.Mutex
	accounts map[string]user.Account
	profiles map[int64]user.Profile
	nextID   int64

	getErr, createErr, profileErr error
}

func WithAccount(a user.Account) RepositoryOption {
	return func(r *Repository) {
		r.accounts[a.Username] = a
		if a.ID >= r.nextID {
			r.nextID = a.ID + 1
		}
	}
}

func WithProfile(p user.Profile) RepositoryOption {
	return func(r *Repository) { r.profiles[p.UserID] = p }
}

func WithGetError(err error) RepositoryOption {
	return func(r *Repository) { r.getErr = err }
}

func WithCreateError(err error) RepositoryOption {
	return func(r *Repository) { r.createErr = err }
}

func WithProfileError(err error) RepositoryOption {
	return func(r *Repository) { r.profileErr = err }
}

var _ = user.Repository(&Repository{})

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		accounts: make(map[string]user.Account),
		profiles: make(map[int64]user.Profile),
		nextID:   1,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (user.Account, error) {
	if r.getErr != nil {
		return user.Account{}, r.getErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[username]
	if !ok {
		return user.Account{}, serviceerr.ErrNotFound
	}

	return account, nil
}

func (r *Repository) Create(ctx context.Context, account user.Account) (user.Account, error) {
	if r.createErr != nil {
		return user.Account{}, r.createErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Username]; ok {
		return user.Account{}, serviceerr.ErrConflict
	}

	account.ID = r.nextID
	r.nextID++
	r.accounts[account.Username] = account

	return account, nil
}

func (r *Repository) GetProfile(ctx context.Context, userID int64) (user.Profile, error) {
	if r.profileErr != nil {
		return user.Profile{}, r.profileErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return user.Profile{}, serviceerr.ErrNotFound
	}

	return profile, nil
}

func (r *Repository) UpsertProfile(ctx context.Context, profile user.Profile) error {
	if r.profileErr != nil {
		return r.profileErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.UserID] = profile

	return nil
}
