package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/repository"
	"github.com/recipeshare/recipeshare/internal/service"
)

type sampleRecipe struct {
	Name        string
	Description string
	Ingredients []string
}

var samples = []sampleRecipe{
	{"Tomato Basil Soup", "Roast the tomatoes, blend with basil and simmer.", []string{"tomato", "basil", "garlic", "olive oil"}},
	{"Garlic Butter Pasta", "Toss spaghetti in browned garlic butter.", []string{"spaghetti", "garlic", "butter", "parmesan"}},
	{"Caprese Salad", "Layer tomato, mozzarella and basil.", []string{"tomato", "mozzarella", "basil", "olive oil"}},
}

type output struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Ingredients int      `json:"ingredients"`
	Recipes     []string `json:"recipes"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "chef", "Owner of the sample recipes")
		email       = flag.String("email", "chef@recipeshare.local", "Owner email")
		password    = flag.String("password", os.Getenv("SEED_PASSWORD"), "Owner password (or SEED_PASSWORD)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "a password is required (-password or SEED_PASSWORD)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := service.NewUserService(repo, auth.NewHasher(auth.DefaultParams), logger)
	ingredients := service.NewIngredientService(repo, logger)
	recipes := service.NewRecipeService(repo, users, ingredients, nil, logger)

	owner, err := ensureUser(ctx, users, *username, *email, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ingredientIDs, err := ensureIngredients(ctx, ingredients)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	created, err := ensureRecipes(ctx, recipes, owner.ID, ingredientIDs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		UserID:      owner.ID,
		Username:    owner.Username,
		Ingredients: len(ingredientIDs),
		Recipes:     created,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Printf("user %s (%s): %d ingredients, %d new recipes\n", out.Username, out.UserID, out.Ingredients, len(out.Recipes))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser logs in as the seed owner, creating the account on first run.
func ensureUser(ctx context.Context, users *service.UserService, username, email, password string) (*model.User, error) {
	user, err := users.Authenticate(ctx, username, password)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, service.ErrInvalidCredentials) {
		return nil, fmt.Errorf("authenticate %s: %w", username, err)
	}

	user, err = users.CreateUser(ctx, service.CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if errors.Is(err, service.ErrUserExists) {
		return nil, fmt.Errorf("user %s exists with a different password or email %s is taken", username, email)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ensureIngredients returns the IDs of every sample ingredient keyed by name.
func ensureIngredients(ctx context.Context, ingredients *service.IngredientService) (map[string]string, error) {
	existing, err := ingredients.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	ids := make(map[string]string, len(existing))
	for _, ing := range existing {
		ids[ing.Name] = ing.ID
	}

	for _, sample := range samples {
		for _, name := range sample.Ingredients {
			key := service.NormalizeIngredientName(name)
			if _, ok := ids[key]; ok {
				continue
			}
			ing, err := ingredients.CreateIngredient(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("create ingredient %q: %w", name, err)
			}
			ids[ing.Name] = ing.ID
		}
	}
	return ids, nil
}

// ensureRecipes creates the samples the owner does not have yet and returns their IDs.
func ensureRecipes(ctx context.Context, recipes *service.RecipeService, ownerID string, ingredientIDs map[string]string) ([]string, error) {
	all, err := recipes.GetAllRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	have := make(map[string]bool)
	for _, r := range all {
		if r.UserID == ownerID {
			have[r.Name] = true
		}
	}

	var created []string
	for _, sample := range samples {
		if have[sample.Name] {
			continue
		}

		ids := make([]string, 0, len(sample.Ingredients))
		for _, name := range sample.Ingredients {
			ids = append(ids, ingredientIDs[service.NormalizeIngredientName(name)])
		}

		recipe, err := recipes.CreateRecipe(ctx, service.CreateRecipeInput{
			UserID:        ownerID,
			Name:          sample.Name,
			Description:   sample.Description,
			IngredientIDs: ids,
		})
		if err != nil {
			return nil, fmt.Errorf("create recipe %q: %w", sample.Name, err)
		}
		created = append(created, recipe.ID)
	}
	return created, nil
}
