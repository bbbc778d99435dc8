package user

import (
	"context"
	"errors"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

type Service struct {
	repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repository: repo,
	}
}

// Register creates a new account with the USER role.
func (s *Service) Register(ctx context.Context, username, email, password string) (Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return Account{}, fmt.Errorf("hashing password: %w", err)
	}

	account, err := s.repository.Create(ctx, Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		return Account{}, fmt.Errorf("creating account: %w", err)
	}

	slogctx.Info(ctx, "Registered account", "username", username)

	return account, nil
}

// Authenticate checks the credentials. Unknown usernames and wrong passwords
// both come back as ErrInvalidCredentials; the caller cannot tell which.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	account, err := s.repository.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return Account{}, serviceerr.ErrInvalidCredentials
		}

		return Account{}, fmt.Errorf("getting account: %w", err)
	}

	if err := VerifyPassword(account.PasswordHash, password); err != nil {
		return Account{}, serviceerr.ErrInvalidCredentials
	}

	return account, nil
}

// IsAdmin reports whether the username belongs to an admin account.
func (s *Service) IsAdmin(ctx context.Context, username string) (bool, error) {
	account, err := s.repository.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("getting account: %w", err)
	}

	return account.Role == RoleAdmin, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (Account, error) {
	account, err := s.repository.GetByUsername(ctx, username)
	if err != nil {
		return Account{}, fmt.Errorf("getting account: %w", err)
	}

	return account, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	profile, err := s.repository.GetProfile(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("getting profile: %w", err)
	}

	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, profile Profile) error {
	if err := s.repository.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	return nil
}
