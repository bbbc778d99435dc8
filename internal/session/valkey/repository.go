package sessionvalkey

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
	"github.com/shopfront/storefront-manager/internal/session"
	"github.com/shopfront/storefront-manager/internal/storage/valkeystore"
)

// Username and expiry are stored as two separate entries, cleared together.
// The expiry value is kept as epoch milliseconds in a string, the format the
// web client historically persisted.
const (
	objectTypeUsername = "sessionUsername"
	objectTypeExpiry   = "sessionExpiry"
)

var (
	ErrGetSession    = errors.New("getting session from store")
	ErrStoreSession  = errors.New("setting session into storage")
	ErrDeleteSession = errors.New("deleting session from storage")
	ErrListSessions  = errors.New("listing sessions from store")
)

type Repository struct {
	store *valkeystore.Store
}

var _ = session.Repository(&Repository{})

func NewRepository(valkeyClient valkey.Client, prefix string) *Repository {
	return &Repository{
		store: valkeystore.New(valkeyClient, prefix),
	}
}

func (r *Repository) Load(ctx context.Context, clientID string) (session.Session, error) {
	var username string
	if err := r.store.Get(ctx, objectTypeUsername, clientID, &username); err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return session.Session{}, serviceerr.ErrNotFound
		}

		return session.Session{}, errors.Join(ErrGetSession, err)
	}

	var expiryMillis string
	if err := r.store.Get(ctx, objectTypeExpiry, clientID, &expiryMillis); err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			// Half a record violates the username-iff-expiry invariant;
			// treat it as absent and drop the leftover entry.
			_ = r.store.Destroy(ctx, objectTypeUsername, clientID)
			return session.Session{}, serviceerr.ErrNotFound
		}

		return session.Session{}, errors.Join(ErrGetSession, err)
	}

	millis, err := strconv.ParseInt(expiryMillis, 10, 64)
	if err != nil {
		return session.Session{}, errors.Join(ErrGetSession, fmt.Errorf("parsing expiry %q: %w", expiryMillis, err))
	}

	return session.Session{
		Username: username,
		Expiry:   time.UnixMilli(millis),
	}, nil
}

func (r *Repository) Store(ctx context.Context, clientID string, s session.Session) error {
	ttl := time.Until(s.Expiry)

	var errs []error
	if err := r.store.Set(ctx, objectTypeUsername, clientID, s.Username, ttl); err != nil {
		errs = append(errs, err)
	}

	expiryMillis := strconv.FormatInt(s.Expiry.UnixMilli(), 10)
	if err := r.store.Set(ctx, objectTypeExpiry, clientID, expiryMillis, ttl); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		// Roll back so both entries stay set or cleared together.
		if err := r.Delete(ctx, clientID); err != nil {
			return errors.Join(ErrStoreSession, err)
		}

		return errors.Join(append([]error{ErrStoreSession}, errs...)...)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, clientID string) error {
	if err := r.store.Destroy(ctx, objectTypeUsername, clientID); err != nil {
		return errors.Join(ErrDeleteSession, err)
	}

	if err := r.store.Destroy(ctx, objectTypeExpiry, clientID); err != nil {
		return errors.Join(ErrDeleteSession, err)
	}

	return nil
}

func (r *Repository) List(ctx context.Context) (map[string]session.Session, error) {
	ids, err := r.store.ListIDs(ctx, objectTypeExpiry)
	if err != nil {
		return nil, errors.Join(ErrListSessions, err)
	}

	sessions := make(map[string]session.Session, len(ids))
	for _, id := range ids {
		s, err := r.Load(ctx, id)
		if err != nil {
			if errors.Is(err, serviceerr.ErrNotFound) {
				// Deleted between scan and load.
				continue
			}

			return nil, errors.Join(ErrListSessions, err)
		}

		sessions[id] = s
	}

	return sessions, nil
}
