package session

import "context"

type Repository interface {
	// Load returns the persisted session for the client, or
	// serviceerr.ErrNotFound when none is stored.
	Load(ctx context.Context, clientID string) (Session, error)
	Store(ctx context.Context, clientID string, s Session) error
	Delete(ctx context.Context, clientID string) error
	// List returns all persisted sessions keyed by client id.
	List(ctx context.Context) (map[string]Session, error)
}
