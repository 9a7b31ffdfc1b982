package service

import (
	"context"

	"github.com/recipeshare/recipeshare/internal/model"
)

// UserStore persists users. *repository.Repository implements it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// IngredientStore persists ingredients. *repository.Repository implements it.
type IngredientStore interface {
	CreateIngredient(ctx context.Context, ing *model.Ingredient) error
	GetIngredientByID(ctx context.Context, id string) (*model.Ingredient, error)
	ListIngredients(ctx context.Context) ([]*model.Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error
}

// RecipeStore persists recipes. *repository.Repository implements it.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]*model.Recipe, error)
	ListRecipesByIngredient(ctx context.Context, ingredientID string) ([]*model.Recipe, error)
	SearchRecipes(ctx context.Context, keywords []string, query string) ([]*model.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *model.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}
