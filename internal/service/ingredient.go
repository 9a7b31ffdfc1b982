package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/repository"
)

// NormalizeIngredientName lowercases and trims whitespace from a raw name.
func NormalizeIngredientName(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// IngredientService handles ingredient business logic.
type IngredientService struct {
	store  IngredientStore
	logger *slog.Logger
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(store IngredientStore, logger *slog.Logger) *IngredientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngredientService{
		store:  store,
		logger: logger.With(slog.String("component", "ingredient_service")),
	}
}

// CreateIngredient stores a new ingredient under its normalized name.
func (s *IngredientService) CreateIngredient(ctx context.Context, name string) (*model.Ingredient, error) {
	name = NormalizeIngredientName(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	ing := &model.Ingredient{
		ID:        model.NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		if errors.Is(err, repository.ErrIngredientExists) {
			return nil, ErrIngredientExists
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	s.logger.Info("ingredient created",
		slog.String("ingredient_id", ing.ID),
		slog.String("name", ing.Name),
	)

	return ing, nil
}

// GetIngredientByID retrieves an ingredient by ID.
func (s *IngredientService) GetIngredientByID(ctx context.Context, id string) (*model.Ingredient, error) {
	ing, err := s.store.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrIngredientNotFound) {
			return nil, notFound(EntityIngredient, id)
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return ing, nil
}

// ListIngredients returns every ingredient ordered by name.
func (s *IngredientService) ListIngredients(ctx context.Context) ([]*model.Ingredient, error) {
	ings, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ings, nil
}

// DeleteIngredientByID removes an ingredient no recipe references.
func (s *IngredientService) DeleteIngredientByID(ctx context.Context, id string) error {
	if err := s.store.DeleteIngredient(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrIngredientNotFound):
			return notFound(EntityIngredient, id)
		case errors.Is(err, repository.ErrIngredientInUse):
			return ErrIngredientInUse
		}
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	s.logger.Info("ingredient deleted", slog.String("ingredient_id", id))

	return nil
}
