package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/recipeshare/recipeshare/internal/model"
)

// Common errors for ingredient repository operations.
var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("ingredient already exists")
	ErrIngredientInUse    = errors.New("ingredient is referenced by recipes")
)

// CreateIngredient inserts a new ingredient into the database.
func (r *Repository) CreateIngredient(ctx context.Context, ing *model.Ingredient) error {
	query := `
		INSERT INTO ingredients (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, ing.ID, ing.Name, ing.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrIngredientExists
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	return nil
}

// GetIngredientByID retrieves an ingredient by its ID.
func (r *Repository) GetIngredientByID(ctx context.Context, id string) (*model.Ingredient, error) {
	query := `SELECT id, name, created_at FROM ingredients WHERE id = $1`

	var ing model.Ingredient
	err := r.pool.QueryRow(ctx, query, id).Scan(&ing.ID, &ing.Name, &ing.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient by ID: %w", err)
	}

	return &ing, nil
}

// ListIngredients retrieves all ingredients ordered by name.
func (r *Repository) ListIngredients(ctx context.Context) ([]*model.Ingredient, error) {
	query := `SELECT id, name, created_at FROM ingredients ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []*model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, &ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// DeleteIngredient removes an ingredient. Ingredients still referenced by a
// recipe cannot be deleted.
func (r *Repository) DeleteIngredient(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrIngredientInUse
		}
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}

	return nil
}
