package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/recipeshare/recipeshare/internal/database"
	"github.com/recipeshare/recipeshare/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema rolls every migration back and applies them again.
func ResetSchema(ctx context.Context, databaseURL string) error {
	if err := database.Migrate(ctx, databaseURL, database.CommandReset, nil); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	if err := database.Migrate(ctx, databaseURL, database.CommandUp, nil); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	return &model.User{
		ID:           model.NewID(),
		Username:     username,
		Email:        username + "@recipeshare.test",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestIngredient creates a test ingredient with a normalized name.
func NewTestIngredient(t testing.TB, name string) *model.Ingredient {
	t.Helper()
	return &model.Ingredient{
		ID:        model.NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestRecipe creates a test recipe owned by user with the given ingredients.
func NewTestRecipe(t testing.TB, name string, user *model.User, ingredients ...*model.Ingredient) *model.Recipe {
	t.Helper()
	now := time.Now().UTC()
	if ingredients == nil {
		ingredients = []*model.Ingredient{}
	}
	return &model.Recipe{
		ID:          model.NewID(),
		Name:        name,
		Description: "A test recipe called " + name,
		UserID:      user.ID,
		User:        user,
		Ingredients: ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UniqueName generates a unique name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
