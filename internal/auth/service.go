package auth

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
	"github.com/voltmart/voltmart/internal/users"
)

// Service implements registration and credential checks.
type Service struct {
	logger *slog.Logger
	repo   users.Repository
	tokens *TokenManager
}

func NewService(logger *slog.Logger, repo users.Repository, tokens *TokenManager) *Service {
	return &Service{logger: logger, repo: repo, tokens: tokens}
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     *string
}

// Register creates a customer account and returns the user with a fresh token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (users.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return users.User{}, "", err
	}
	u, err := s.repo.Create(ctx, users.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Role:         shared.RoleCustomer,
	})
	if err != nil {
		return users.User{}, "", err
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return users.User{}, "", err
	}
	s.logger.Info("user registered", slog.Int64("user_id", u.ID))
	return u, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (users.User, string, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if httpx.StatusOf(err) == 404 {
			return users.User{}, "", httpx.Errf(httpx.ErrUnauthorized, "Invalid credentials")
		}
		return users.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return users.User{}, "", httpx.Errf(httpx.ErrUnauthorized, "Invalid credentials")
	}
	if !u.IsActive {
		return users.User{}, "", httpx.Errf(httpx.ErrUnauthorized, "Account is deactivated")
	}
	token, err := s.tokens.Issue(*u)
	if err != nil {
		return users.User{}, "", err
	}
	return *u, token, nil
}
