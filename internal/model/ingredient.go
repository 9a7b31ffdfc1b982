package model

import "time"

// Ingredient is a reusable named component referenced by recipes.
// Name is stored normalized (trimmed, lowercased).
type Ingredient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
