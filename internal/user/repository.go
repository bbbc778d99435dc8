package user

import "context"

type Repository interface {
	// GetByUsername returns serviceerr.ErrNotFound for an unknown username.
	GetByUsername(ctx context.Context, username string) (Account, error)
	// Create returns serviceerr.ErrConflict when the username or email is
	// already taken.
	Create(ctx context.Context, account Account) (Account, error)

	GetProfile(ctx context.Context, userID int64) (Profile, error)
	UpsertProfile(ctx context.Context, profile Profile) error
}
