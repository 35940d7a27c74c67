package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

type AuthService struct {
	repo domain.UserRepository
	now  Clock
}

func NewAuthService(repo domain.UserRepository, now Clock) *AuthService {
	if now == nil {
		now = UTCNow
	}
	return &AuthService{
		repo: repo,
		now:  now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	id := uuid.NewString()
	user, err := domain.NewUser(id, input.Name, input.Email, s.now())
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns the account. Unknown emails and
// bad passwords collapse into the same error so the response never reveals
// which one was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
