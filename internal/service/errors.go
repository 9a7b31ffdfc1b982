package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError through errors.Is.
var ErrNotFound = errors.New("entity not found")

// Service errors.
var (
	ErrEmptySearchQuery   = errors.New("search query must not be blank")
	ErrUserExists         = errors.New("user with this username or email already exists")
	ErrIngredientExists   = errors.New("ingredient with this name already exists")
	ErrIngredientInUse    = errors.New("ingredient is referenced by at least one recipe")
	ErrInvalidName        = errors.New("name must not be blank")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Entity names used in NotFoundError.
const (
	EntityRecipe     = "recipe"
	EntityUser       = "user"
	EntityIngredient = "ingredient"
)

// NotFoundError reports a lookup by ID that matched nothing.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no %s with this id=%s", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}
