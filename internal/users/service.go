package users

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

// Service exposes profile management on top of the repository.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// Profile returns the account for the given user ID.
func (s *Service) Profile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile applies partial profile changes and returns the fresh record.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*User, error) {
	if err := s.repo.UpdateProfile(ctx, userID, update); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return httpx.Errf(httpx.ErrValidation, "Current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.logger.Info("password changed", slog.Int64("user_id", userID))
	return nil
}
