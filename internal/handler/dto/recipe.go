package dto

import (
	"time"

	"github.com/recipeshare/recipeshare/internal/model"
)

// CreateRecipeRequest is the request body for POST /api/v1/recipes.
type CreateRecipeRequest struct {
	UserID      string   `json:"user_id" validate:"required"`
	Name        string   `json:"name" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"max=10000"`
	Ingredients []string `json:"ingredients" validate:"max=100,dive,required"`
}

// UpdateRecipeRequest is the request body for PUT /api/v1/recipes/{id}.
// It replaces every mutable field.
type UpdateRecipeRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"max=10000"`
	Ingredients []string `json:"ingredients" validate:"max=100,dive,required"`
}

// RecipeResponse is the response body for a recipe.
type RecipeResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	User        UserSummary           `json:"user"`
	Ingredients []*IngredientResponse `json:"ingredients"`
	CreateTime  time.Time             `json:"create_time"`
	UpdateTime  time.Time             `json:"update_time"`
}

// ToRecipeResponse converts a Recipe model to RecipeResponse DTO.
func ToRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	user := UserSummary{ID: recipe.UserID}
	if recipe.User != nil {
		user.Username = recipe.User.Username
	}

	ingredients := make([]*IngredientResponse, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, ToIngredientResponse(ing))
	}

	return &RecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Description: recipe.Description,
		User:        user,
		Ingredients: ingredients,
		CreateTime:  recipe.CreatedAt,
		UpdateTime:  recipe.UpdatedAt,
	}
}

// ToRecipeListResponse converts recipes to a list response, one item per
// recipe in the given order.
func ToRecipeListResponse(recipes []*model.Recipe) *ListResponse[*RecipeResponse] {
	data := make([]*RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		data = append(data, ToRecipeResponse(r))
	}
	return &ListResponse[*RecipeResponse]{Data: data}
}
