package dto

import "github.com/recipeshare/recipeshare/internal/model"

// CreateIngredientRequest is the request body for POST /api/v1/ingredients.
type CreateIngredientRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

// IngredientResponse is the response body for an ingredient.
type IngredientResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ToIngredientResponse converts an Ingredient model to its DTO.
func ToIngredientResponse(ing *model.Ingredient) *IngredientResponse {
	return &IngredientResponse{
		ID:   ing.ID,
		Name: ing.Name,
	}
}

// ToIngredientListResponse converts ingredients to a list response.
func ToIngredientListResponse(ings []*model.Ingredient) *ListResponse[*IngredientResponse] {
	data := make([]*IngredientResponse, 0, len(ings))
	for _, ing := range ings {
		data = append(data, ToIngredientResponse(ing))
	}
	return &ListResponse[*IngredientResponse]{Data: data}
}
