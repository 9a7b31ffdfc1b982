// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/repository"
)

// UserService handles user business logic.
type UserService struct {
	store  UserStore
	hasher *auth.Hasher
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, hasher *auth.Hasher, logger *slog.Logger) *UserService {
	if hasher == nil {
		hasher = auth.NewHasher(auth.DefaultParams)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:  store,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// CreateUser hashes the password and stores a new user.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrInvalidName
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           model.NewID(),
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) || errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", slog.String("user_id", user.ID))

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFound(EntityUser, id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user in creation order.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Authenticate checks a username and password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("stored password hash is unreadable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
