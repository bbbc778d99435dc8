package usersql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
	"github.com/shopfront/storefront-manager/internal/user"
)

// unique_violation
const pgErrCodeUnique = "23505"

type Repository struct {
	db *pgxpool.Pool
}

var _ = user.Repository(&Repository{})

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (user.Account, error) {
	var a user.Account
	if err := r.db.QueryRow(ctx, `SELECT id, username, email, password_hash, role
FROM users
WHERE username = $1;`,
		username,
	).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Account{}, serviceerr.ErrNotFound
		}

		return user.Account{}, fmt.Errorf("selecting from users: %w", err)
	}

	return a, nil
}

func (r *Repository) Create(ctx context.Context, account user.Account) (user.Account, error) {
	if err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role)
	VALUES ($1, $2, $3, $4)
	RETURNING id;`,
		account.Username, account.Email, account.PasswordHash, account.Role,
	).Scan(&account.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUnique {
			return user.Account{}, serviceerr.ErrConflict
		}

		return user.Account{}, fmt.Errorf("inserting into users: %w", err)
	}

	return account, nil
}

func (r *Repository) GetProfile(ctx context.Context, userID int64) (user.Profile, error) {
	var p user.Profile
	if err := r.db.QueryRow(ctx, `SELECT user_id, address, tel, fname, lname
FROM user_info
WHERE user_id = $1;`,
		userID,
	).
		Scan(&p.UserID, &p.Address, &p.Tel, &p.FirstName, &p.LastName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, serviceerr.ErrNotFound
		}

		return user.Profile{}, fmt.Errorf("selecting from user_info: %w", err)
	}

	return p, nil
}

func (r *Repository) UpsertProfile(ctx context.Context, profile user.Profile) error {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO user_info (user_id, address, tel, fname, lname)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id)
	DO UPDATE SET (address, tel, fname, lname) =
		(EXCLUDED.address, EXCLUDED.tel, EXCLUDED.fname, EXCLUDED.lname);`,
		profile.UserID, profile.Address, profile.Tel, profile.FirstName, profile.LastName,
	); err != nil {
		return fmt.Errorf("upserting into user_info: %w", err)
	}

	return nil
}
