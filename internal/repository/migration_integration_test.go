//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipeshare/recipeshare/internal/database"
	"github.com/recipeshare/recipeshare/internal/testutil"
)

// ============================================================================
// Migration Integration Tests
// ============================================================================

func TestIntegrationMigration_ApplyAllTables(t *testing.T) {
	ctx, pool, _ := newMigrationTestEnv(t)

	tables := []string{"users", "ingredients", "recipes", "recipe_ingredients"}

	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, pool, table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_RecipesTableSchema(t *testing.T) {
	ctx, pool, _ := newMigrationTestEnv(t)

	expectedColumns := []string{"id", "name", "description", "user_id", "created_at", "updated_at"}

	for _, col := range expectedColumns {
		t.Run(col, func(t *testing.T) {
			exists, err := columnExists(ctx, pool, "recipes", col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in recipes table", col)
			}
		})
	}
}

func TestIntegrationMigration_Constraints(t *testing.T) {
	ctx, pool, _ := newMigrationTestEnv(t)

	// Empty ingredient names are rejected.
	_, err := pool.Exec(ctx, `INSERT INTO ingredients (id, name) VALUES ('ing-empty', '')`)
	if err == nil {
		t.Error("Expected check constraint violation for empty ingredient name")
	}

	// Recipes must reference an existing user.
	_, err = pool.Exec(ctx, `
		INSERT INTO recipes (id, name, user_id)
		VALUES ('recipe-orphan', 'orphan', 'no-such-user')
	`)
	if !isForeignKeyViolation(err) {
		t.Errorf("Expected foreign key violation for unknown user, got %v", err)
	}
}

func TestIntegrationMigration_RollbackAndReapply(t *testing.T) {
	ctx, pool, dbURL := newMigrationTestEnv(t)

	if err := database.Migrate(ctx, dbURL, database.CommandDown, nil); err != nil {
		t.Fatalf("down migration: %v", err)
	}

	exists, err := tableExists(ctx, pool, "recipes")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if exists {
		t.Error("recipes table should not exist after rollback")
	}

	if err := database.Migrate(ctx, dbURL, database.CommandUp, nil); err != nil {
		t.Fatalf("reapply up migration: %v", err)
	}

	exists, err = tableExists(ctx, pool, "recipes")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if !exists {
		t.Error("recipes table should exist after reapplying")
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newMigrationTestEnv(t *testing.T) (context.Context, *pgxpool.Pool, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, dbURL); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, pool, dbURL
}
