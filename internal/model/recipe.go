package model

import "time"

// Recipe represents a named dish owned by a user.
type Recipe struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	UserID      string        `json:"user_id"`
	User        *User         `json:"user,omitempty"`
	Ingredients []*Ingredient `json:"ingredients"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IngredientIDs returns the IDs of the recipe's ingredients in order.
func (r *Recipe) IngredientIDs() []string {
	ids := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ids = append(ids, ing.ID)
	}
	return ids
}

// HasIngredient reports whether the recipe references the given ingredient.
func (r *Recipe) HasIngredient(id string) bool {
	for _, ing := range r.Ingredients {
		if ing.ID == id {
			return true
		}
	}
	return false
}
