// Package memory provides an in-process store with the same contract and
// error values as the Postgres repository. Service and handler tests run
// against it.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/repository"
)

// Store keeps users, ingredients and recipes in maps guarded by a mutex.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*model.User
	ingredients map[string]*model.Ingredient
	recipes     map[string]*model.Recipe
	// Err, when set, is returned by every method.
	Err error
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:       make(map[string]*model.User),
		ingredients: make(map[string]*model.Ingredient),
		recipes:     make(map[string]*model.Recipe),
	}
}

// Ping reports Err, so readiness checks can be driven from tests.
func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Err
}

// ============================================================================
// Users
// ============================================================================

// CreateUser stores a user, enforcing unique username and email.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUserByID returns a copy of the user.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByUsername returns a copy of the user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// ListUsers returns users ordered by creation time, then ID.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// ============================================================================
// Ingredients
// ============================================================================

// CreateIngredient stores an ingredient, enforcing a unique name.
func (s *Store) CreateIngredient(ctx context.Context, ing *model.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, existing := range s.ingredients {
		if existing.Name == ing.Name {
			return repository.ErrIngredientExists
		}
	}

	cp := *ing
	s.ingredients[ing.ID] = &cp
	return nil
}

// GetIngredientByID returns a copy of the ingredient.
func (s *Store) GetIngredientByID(ctx context.Context, id string) (*model.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	ing, ok := s.ingredients[id]
	if !ok {
		return nil, repository.ErrIngredientNotFound
	}
	cp := *ing
	return &cp, nil
}

// ListIngredients returns ingredients ordered by name.
func (s *Store) ListIngredients(ctx context.Context) ([]*model.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	ings := make([]*model.Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		cp := *ing
		ings = append(ings, &cp)
	}
	sort.Slice(ings, func(i, j int) bool {
		if ings[i].Name == ings[j].Name {
			return ings[i].ID < ings[j].ID
		}
		return ings[i].Name < ings[j].Name
	})
	return ings, nil
}

// DeleteIngredient removes an ingredient that no recipe references.
func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.ingredients[id]; !ok {
		return repository.ErrIngredientNotFound
	}
	for _, r := range s.recipes {
		if r.HasIngredient(id) {
			return repository.ErrIngredientInUse
		}
	}

	delete(s.ingredients, id)
	return nil
}

// ============================================================================
// Recipes
// ============================================================================

// CreateRecipe stores a recipe after checking its references.
func (s *Store) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if err := s.checkRefs(recipe); err != nil {
		return err
	}

	s.recipes[recipe.ID] = s.stored(recipe)
	return nil
}

// GetRecipeByID returns a hydrated copy of the recipe.
func (s *Store) GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	r, ok := s.recipes[id]
	if !ok {
		return nil, repository.ErrRecipeNotFound
	}
	return s.hydrate(r), nil
}

// ListRecipes returns every recipe in creation order.
func (s *Store) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	return s.filterRecipes(func(*model.Recipe) bool { return true })
}

// ListRecipesByIngredient returns recipes that reference the ingredient.
func (s *Store) ListRecipesByIngredient(ctx context.Context, ingredientID string) ([]*model.Recipe, error) {
	return s.filterRecipes(func(r *model.Recipe) bool { return r.HasIngredient(ingredientID) })
}

// SearchRecipes mirrors the SQL search: any keyword equals an ingredient
// name, or the recipe name contains the query. Both ignore case.
func (s *Store) SearchRecipes(ctx context.Context, keywords []string, query string) ([]*model.Recipe, error) {
	wanted := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		wanted[strings.ToLower(k)] = true
	}
	needle := strings.ToLower(query)

	return s.filterRecipes(func(r *model.Recipe) bool {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			return true
		}
		for _, id := range r.IngredientIDs() {
			if ing, ok := s.ingredients[id]; ok && wanted[strings.ToLower(ing.Name)] {
				return true
			}
		}
		return false
	})
}

// UpdateRecipe replaces a stored recipe's mutable fields and ingredients.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	existing, ok := s.recipes[recipe.ID]
	if !ok {
		return repository.ErrRecipeNotFound
	}
	if err := s.checkRefs(recipe); err != nil {
		return err
	}

	updated := s.stored(recipe)
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	s.recipes[recipe.ID] = updated
	return nil
}

// DeleteRecipe removes a recipe.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.recipes[id]; !ok {
		return repository.ErrRecipeNotFound
	}
	delete(s.recipes, id)
	return nil
}

// filterRecipes returns hydrated copies of matching recipes ordered by
// creation time, then ID.
func (s *Store) filterRecipes(match func(*model.Recipe) bool) ([]*model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	var recipes []*model.Recipe
	for _, r := range s.recipes {
		if match(r) {
			recipes = append(recipes, s.hydrate(r))
		}
	}
	sort.Slice(recipes, func(i, j int) bool {
		if recipes[i].CreatedAt.Equal(recipes[j].CreatedAt) {
			return recipes[i].ID < recipes[j].ID
		}
		return recipes[i].CreatedAt.Before(recipes[j].CreatedAt)
	})
	return recipes, nil
}

// checkRefs reports a missing owner or ingredient. Caller holds the lock.
func (s *Store) checkRefs(recipe *model.Recipe) error {
	if _, ok := s.users[recipe.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	for _, id := range recipe.IngredientIDs() {
		if _, ok := s.ingredients[id]; !ok {
			return repository.ErrIngredientNotFound
		}
	}
	return nil
}

// stored keeps only references, like the join table does.
func (s *Store) stored(recipe *model.Recipe) *model.Recipe {
	cp := *recipe
	cp.User = nil
	cp.Ingredients = make([]*model.Ingredient, 0, len(recipe.Ingredients))
	for _, id := range recipe.IngredientIDs() {
		cp.Ingredients = append(cp.Ingredients, &model.Ingredient{ID: id})
	}
	return &cp
}

// hydrate returns a copy with owner and ingredients resolved. Caller holds
// the lock.
func (s *Store) hydrate(r *model.Recipe) *model.Recipe {
	cp := *r
	if u, ok := s.users[r.UserID]; ok {
		user := *u
		cp.User = &user
	}
	cp.Ingredients = make([]*model.Ingredient, 0, len(r.Ingredients))
	for _, ref := range r.Ingredients {
		if ing, ok := s.ingredients[ref.ID]; ok {
			c := *ing
			cp.Ingredients = append(cp.Ingredients, &c)
		}
	}
	return &cp
}
