package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/recipeshare/recipeshare/internal/metrics"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/repository"
)

// RecipeService handles recipe business logic.
type RecipeService struct {
	store       RecipeStore
	users       *UserService
	ingredients *IngredientService
	metrics     metrics.Recorder
	logger      *slog.Logger
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(
	store RecipeStore,
	users *UserService,
	ingredients *IngredientService,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *RecipeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeService{
		store:       store,
		users:       users,
		ingredients: ingredients,
		metrics:     recorder,
		logger:      logger.With(slog.String("component", "recipe_service")),
	}
}

// CreateRecipeInput defines input for creating a recipe.
type CreateRecipeInput struct {
	UserID        string
	Name          string
	Description   string
	IngredientIDs []string
}

// UpdateRecipeInput defines input for replacing a recipe's contents.
type UpdateRecipeInput struct {
	Name          string
	Description   string
	IngredientIDs []string
}

// GetAllRecipes returns every recipe in creation order.
func (s *RecipeService) GetAllRecipes(ctx context.Context) ([]*model.Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// CreateRecipe resolves the owner and ingredients, then stores a new recipe.
func (s *RecipeService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error) {
	user, err := s.users.GetUserByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.resolveIngredients(ctx, input.IngredientIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe := &model.Recipe{
		ID:          model.NewID(),
		Name:        input.Name,
		Description: input.Description,
		UserID:      user.ID,
		User:        user,
		Ingredients: ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, s.writeError(ctx, "create", recipe, err)
	}

	s.metrics.IncRecipeCreated()
	s.logger.Info("recipe created",
		slog.String("recipe_id", recipe.ID),
		slog.String("user_id", user.ID),
		slog.Int("ingredients", len(ingredients)),
	)

	return recipe, nil
}

// UpdateRecipeByID overwrites the name, description and ingredient list of
// an existing recipe.
func (s *RecipeService) UpdateRecipeByID(ctx context.Context, id string, input UpdateRecipeInput) (*model.Recipe, error) {
	recipe, err := s.GetRecipeEntityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.resolveIngredients(ctx, input.IngredientIDs)
	if err != nil {
		return nil, err
	}

	recipe.Name = input.Name
	recipe.Description = input.Description
	recipe.Ingredients = ingredients
	recipe.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, s.writeError(ctx, "update", recipe, err)
	}

	s.metrics.IncRecipeUpdated()
	s.logger.Info("recipe updated",
		slog.String("recipe_id", recipe.ID),
		slog.Int("ingredients", len(ingredients)),
	)

	return recipe, nil
}

// GetRecipeByID retrieves a recipe for presentation.
func (s *RecipeService) GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	return s.GetRecipeEntityByID(ctx, id)
}

// GetRecipeEntityByID retrieves the stored recipe entity.
func (s *RecipeService) GetRecipeEntityByID(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.store.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, notFound(EntityRecipe, id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, nil
}

// DeleteRecipeByID removes a recipe.
func (s *RecipeService) DeleteRecipeByID(ctx context.Context, id string) error {
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return notFound(EntityRecipe, id)
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.metrics.IncRecipeDeleted()
	s.logger.Info("recipe deleted", slog.String("recipe_id", id))

	return nil
}

// GetRecipesByIngredient returns the recipes that use an ingredient.
func (s *RecipeService) GetRecipesByIngredient(ctx context.Context, ingredientID string) ([]*model.Recipe, error) {
	if _, err := s.ingredients.GetIngredientByID(ctx, ingredientID); err != nil {
		return nil, err
	}

	recipes, err := s.store.ListRecipesByIngredient(ctx, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes by ingredient: %w", err)
	}
	return recipes, nil
}

// GetRecipesBySearch returns distinct recipes where any whitespace-separated
// keyword names one of its ingredients, or whose name contains the whole
// query. Matching ignores case.
func (s *RecipeService) GetRecipesBySearch(ctx context.Context, query string) ([]*model.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchQuery
	}

	keywords := strings.Fields(query)

	start := time.Now()
	recipes, err := s.store.SearchRecipes(ctx, keywords, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	s.metrics.ObserveSearchDuration(time.Since(start))
	s.metrics.IncRecipeSearch(len(recipes))

	s.logger.Debug("recipe search",
		slog.Int("keywords", len(keywords)),
		slog.Int("results", len(recipes)),
	)

	return recipes, nil
}

// resolveIngredients loads each referenced ingredient in request order,
// skipping repeated IDs. The first unknown ID aborts the lookup.
func (s *RecipeService) resolveIngredients(ctx context.Context, ids []string) ([]*model.Ingredient, error) {
	ingredients := make([]*model.Ingredient, 0, len(ids))
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		ing, err := s.ingredients.GetIngredientByID(ctx, id)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, nil
}

// writeError maps store errors from create and update. A foreign key can
// still fail if a referenced row was deleted after it was resolved.
func (s *RecipeService) writeError(ctx context.Context, op string, recipe *model.Recipe, err error) error {
	switch {
	case errors.Is(err, repository.ErrRecipeNotFound):
		return notFound(EntityRecipe, recipe.ID)
	case errors.Is(err, repository.ErrUserNotFound):
		return notFound(EntityUser, recipe.UserID)
	case errors.Is(err, repository.ErrIngredientNotFound):
		if _, resolveErr := s.resolveIngredients(ctx, recipe.IngredientIDs()); resolveErr != nil {
			return resolveErr
		}
	}

	s.logger.Error("recipe write failed",
		slog.String("op", op),
		slog.String("recipe_id", recipe.ID),
		slog.String("error", err.Error()),
	)

	return fmt.Errorf("failed to %s recipe: %w", op, err)
}
