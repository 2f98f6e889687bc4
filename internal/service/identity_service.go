package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MikhailRaia/link-rewards/internal/auth"
	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService manages user registration and login.
type IdentityService struct {
	users      storage.UserStore
	jwtService *auth.JWTService
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(users storage.UserStore, jwtService *auth.JWTService) *IdentityService {
	return &IdentityService{
		users:      users,
		jwtService: jwtService,
	}
}

// Register creates a user with a hashed password and zero balance.
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || password == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Balance:      0,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a bearer token for the user.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("error generating token: %w", err)
	}

	return token, user, nil
}

// GetUser retrieves a user's current profile, including the balance.
func (s *IdentityService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}
