package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/recipeshare/recipeshare/internal/model"
)

// Common errors for recipe repository operations.
var (
	ErrRecipeNotFound = errors.New("recipe not found")
)

const recipeColumns = `r.id, r.name, r.description, r.user_id, r.created_at, r.updated_at`

// CreateRecipe inserts a recipe and its ingredient associations in one transaction.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO recipes (id, name, description, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		_, err := tx.Exec(ctx, query,
			recipe.ID,
			recipe.Name,
			recipe.Description,
			recipe.UserID,
			recipe.CreatedAt,
			recipe.UpdatedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		return insertRecipeIngredients(ctx, tx, recipe.ID, recipe.IngredientIDs())
	})
}

// GetRecipeByID retrieves a recipe with its owner and ingredients.
func (r *Repository) GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.id = $1`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	if err := r.loadRelations(ctx, r.pool, []*model.Recipe{recipe}); err != nil {
		return nil, err
	}

	return recipe, nil
}

// ListRecipes retrieves all recipes in creation order.
func (r *Repository) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes r ORDER BY r.created_at, r.id`
	return r.queryRecipes(ctx, "list recipes", query)
}

// ListRecipesByIngredient retrieves recipes that reference the ingredient.
func (r *Repository) ListRecipesByIngredient(ctx context.Context, ingredientID string) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		WHERE ri.ingredient_id = $1
		ORDER BY r.created_at, r.id
	`
	return r.queryRecipes(ctx, "list recipes by ingredient", query, ingredientID)
}

// SearchRecipes returns distinct recipes where any keyword equals an
// ingredient name or the full query is a substring of the recipe name.
// Both comparisons ignore case.
func (r *Repository) SearchRecipes(ctx context.Context, keywords []string, query string) ([]*model.Recipe, error) {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	stmt := `
		SELECT DISTINCT ` + recipeColumns + `
		FROM recipes r
		LEFT JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		LEFT JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE lower(i.name) = ANY($1)
		   OR r.name ILIKE '%' || $2 || '%' ESCAPE '\'
		ORDER BY r.created_at, r.id
	`
	return r.queryRecipes(ctx, "search recipes", stmt, pq.Array(lowered), escapeLike(query))
}

// UpdateRecipe overwrites a recipe's mutable fields and replaces its
// ingredient list.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE recipes
			SET name = $2, description = $3, updated_at = $4
			WHERE id = $1
		`

		result, err := tx.Exec(ctx, query,
			recipe.ID,
			recipe.Name,
			recipe.Description,
			recipe.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrRecipeNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipe.ID); err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}

		return insertRecipeIngredients(ctx, tx, recipe.ID, recipe.IngredientIDs())
	})
}

// DeleteRecipe removes a recipe. Ingredient associations cascade.
func (r *Repository) DeleteRecipe(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// queryRecipes runs a recipe query and hydrates owners and ingredients.
func (r *Repository) queryRecipes(ctx context.Context, op, query string, args ...any) ([]*model.Recipe, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}
	rows.Close()

	if err := r.loadRelations(ctx, r.pool, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// loadRelations attaches owners and ordered ingredients to the recipes.
func (r *Repository) loadRelations(ctx context.Context, q querier, recipes []*model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	recipeIDs := make([]string, 0, len(recipes))
	userIDs := make([]string, 0, len(recipes))
	seenUsers := make(map[string]bool, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		if !seenUsers[recipe.UserID] {
			seenUsers[recipe.UserID] = true
			userIDs = append(userIDs, recipe.UserID)
		}
	}

	users, err := r.getUsersByIDs(ctx, q, userIDs)
	if err != nil {
		return err
	}

	query := `
		SELECT ri.recipe_id, i.id, i.name, i.created_at
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY ri.recipe_id, ri.position
	`

	rows, err := q.Query(ctx, query, pq.Array(recipeIDs))
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()

	byRecipe := make(map[string][]*model.Ingredient, len(recipes))
	for rows.Next() {
		var recipeID string
		var ing model.Ingredient
		if err := rows.Scan(&recipeID, &ing.ID, &ing.Name, &ing.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		byRecipe[recipeID] = append(byRecipe[recipeID], &ing)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating recipe ingredients: %w", err)
	}

	for _, recipe := range recipes {
		recipe.User = users[recipe.UserID]
		recipe.Ingredients = byRecipe[recipe.ID]
		if recipe.Ingredients == nil {
			recipe.Ingredients = []*model.Ingredient{}
		}
	}

	return nil
}

// insertRecipeIngredients stores the association rows, keeping list order in
// the position column.
func insertRecipeIngredients(ctx context.Context, tx pgx.Tx, recipeID string, ingredientIDs []string) error {
	if len(ingredientIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id, position)
		SELECT $1, x.ingredient_id, x.position
		FROM unnest($2::text[]) WITH ORDINALITY AS x(ingredient_id, position)
	`

	if _, err := tx.Exec(ctx, query, recipeID, pq.Array(ingredientIDs)); err != nil {
		if isForeignKeyViolation(err) {
			return ErrIngredientNotFound
		}
		return fmt.Errorf("failed to store recipe ingredients: %w", err)
	}

	return nil
}

// scanRecipe scans a single row into a Recipe model.
func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var recipe model.Recipe
	err := row.Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Description,
		&recipe.UserID,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// escapeLike escapes LIKE metacharacters so the query matches literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
