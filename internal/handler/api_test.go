package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/handler/dto"
	"github.com/recipeshare/recipeshare/internal/metrics"
	"github.com/recipeshare/recipeshare/internal/repository/memory"
	"github.com/recipeshare/recipeshare/internal/service"
)

// testAPI wires the real handlers and services over an in-memory store.
type testAPI struct {
	t      *testing.T
	router http.Handler
	store  *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := discardLogger()
	store := memory.New()
	hasher := auth.NewHasher(auth.Params{Time: 1, Memory: 1024, Threads: 1})

	users := service.NewUserService(store, hasher, logger)
	ingredients := service.NewIngredientService(store, logger)
	recipes := service.NewRecipeService(store, users, ingredients, metrics.NewNoop(), logger)

	r := chi.NewRouter()
	r.Get("/healthz", NewHealthHandler(nil, nil).Healthz)
	r.Get("/readyz", NewHealthHandler(nil, nil).Readyz)
	r.Route("/api/v1", func(r chi.Router) {
		MountAPI(r,
			NewRecipeHandler(recipes, logger),
			NewIngredientHandler(ingredients, recipes, logger),
			NewUserHandler(users, logger),
		)
	})
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return &testAPI{t: t, router: r, store: store}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func (a *testAPI) createUser(username string) dto.UserResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/users", dto.CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeInto[dto.UserResponse](a.t, rec)
}

func (a *testAPI) createIngredient(name string) dto.IngredientResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/ingredients", dto.CreateIngredientRequest{Name: name})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeInto[dto.IngredientResponse](a.t, rec)
}

func (a *testAPI) createRecipe(userID, name string, ingredientIDs ...string) dto.RecipeResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/recipes", dto.CreateRecipeRequest{
		UserID:      userID,
		Name:        name,
		Description: name + " description",
		Ingredients: ingredientIDs,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeInto[dto.RecipeResponse](a.t, rec)
}

func TestAPI_RecipeLifecycle(t *testing.T) {
	api := newTestAPI(t)

	user := api.createUser("alice")
	pasta := api.createIngredient("Pasta")
	garlic := api.createIngredient("garlic")
	assert.Equal(t, "pasta", pasta.Name)

	created := api.createRecipe(user.ID, "Aglio e Olio", garlic.ID, pasta.ID)
	assert.Equal(t, "Aglio e Olio", created.Name)
	assert.Equal(t, dto.UserSummary{ID: user.ID, Username: "alice"}, created.User)
	require.Len(t, created.Ingredients, 2)
	assert.Equal(t, garlic.ID, created.Ingredients[0].ID)
	assert.False(t, created.CreateTime.IsZero())

	rec := api.do(http.MethodGet, "/api/v1/recipes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeInto[dto.RecipeResponse](t, rec)
	assert.Equal(t, created.ID, got.ID)

	rec = api.do(http.MethodPut, "/api/v1/recipes/"+created.ID, dto.UpdateRecipeRequest{
		Name:        "Spaghetti Aglio e Olio",
		Description: "classic",
		Ingredients: []string{pasta.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeInto[dto.RecipeResponse](t, rec)
	assert.Equal(t, "Spaghetti Aglio e Olio", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.True(t, !updated.UpdateTime.Before(created.UpdateTime))

	rec = api.do(http.MethodGet, "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeInto[dto.ListResponse[dto.RecipeResponse]](t, rec)
	require.Len(t, list.Data, 1)

	rec = api.do(http.MethodDelete, "/api/v1/recipes/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/v1/recipes/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decodeInto[dto.ErrorResponse](t, rec)
	assert.Equal(t, "RECIPE_NOT_FOUND", errResp.Code)
	assert.Equal(t, "there is no recipe with this id="+created.ID, errResp.Error)
}

func TestAPI_ListRecipes_Empty(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestAPI_NotFoundCarriesID(t *testing.T) {
	api := newTestAPI(t)
	user := api.createUser("bob")

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode string
		wantID   string
	}{
		{"get recipe", http.MethodGet, "/api/v1/recipes/r-404", nil, "RECIPE_NOT_FOUND", "r-404"},
		{"update recipe", http.MethodPut, "/api/v1/recipes/r-404", dto.UpdateRecipeRequest{Name: "x"}, "RECIPE_NOT_FOUND", "r-404"},
		{"delete recipe", http.MethodDelete, "/api/v1/recipes/r-404", nil, "RECIPE_NOT_FOUND", "r-404"},
		{"recipes by ingredient", http.MethodGet, "/api/v1/ingredients/i-404/recipes", nil, "INGREDIENT_NOT_FOUND", "i-404"},
		{"get user", http.MethodGet, "/api/v1/users/u-404", nil, "USER_NOT_FOUND", "u-404"},
		{"create with unknown user", http.MethodPost, "/api/v1/recipes",
			dto.CreateRecipeRequest{UserID: "u-404", Name: "x"}, "USER_NOT_FOUND", "u-404"},
		{"create with unknown ingredient", http.MethodPost, "/api/v1/recipes",
			dto.CreateRecipeRequest{UserID: user.ID, Name: "x", Ingredients: []string{"i-404"}}, "INGREDIENT_NOT_FOUND", "i-404"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
			resp := decodeInto[dto.ErrorResponse](t, rec)
			assert.Equal(t, tc.wantCode, resp.Code)
			assert.True(t, strings.HasSuffix(resp.Error, "id="+tc.wantID), resp.Error)
		})
	}
}

func TestAPI_Search(t *testing.T) {
	api := newTestAPI(t)

	user := api.createUser("carol")
	pasta := api.createIngredient("pasta")
	rice := api.createIngredient("rice")

	byName := api.createRecipe(user.ID, "Baked Pasta", rice.ID)
	byIngredient := api.createRecipe(user.ID, "Carbonara", pasta.ID)
	api.createRecipe(user.ID, "Risotto", rice.ID)

	rec := api.do(http.MethodGet, "/api/v1/recipes/search?q=PASTA", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeInto[dto.ListResponse[dto.RecipeResponse]](t, rec)

	ids := make([]string, 0, len(list.Data))
	for _, r := range list.Data {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{byName.ID, byIngredient.ID}, ids)

	rec = api.do(http.MethodGet, "/api/v1/recipes/search?q=%20%20", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeInto[dto.ErrorResponse](t, rec)
	assert.Equal(t, "VALIDATION_FAILED", errResp.Code)
	require.Len(t, errResp.Fields, 1)
	assert.Equal(t, "q", errResp.Fields[0].Field)
}

func TestAPI_RecipesByIngredient(t *testing.T) {
	api := newTestAPI(t)

	user := api.createUser("dave")
	egg := api.createIngredient("egg")
	flour := api.createIngredient("flour")

	omelette := api.createRecipe(user.ID, "Omelette", egg.ID)
	api.createRecipe(user.ID, "Flatbread", flour.ID)

	rec := api.do(http.MethodGet, "/api/v1/ingredients/"+egg.ID+"/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeInto[dto.ListResponse[dto.RecipeResponse]](t, rec)
	require.Len(t, list.Data, 1)
	assert.Equal(t, omelette.ID, list.Data[0].ID)

	rec = api.do(http.MethodDelete, "/api/v1/ingredients/"+egg.ID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INGREDIENT_IN_USE", decodeInto[dto.ErrorResponse](t, rec).Code)
}

func TestAPI_Validation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"malformed json", http.MethodPost, "/api/v1/recipes", `{"name":`, http.StatusBadRequest, "INVALID_JSON"},
		{"unknown field", http.MethodPost, "/api/v1/recipes", `{"name":"x","user_id":"u","chef":"me"}`, http.StatusBadRequest, "INVALID_JSON"},
		{"trailing garbage", http.MethodPost, "/api/v1/ingredients", `{"name":"x"} garbage`, http.StatusBadRequest, "INVALID_JSON"},
		{"two json values", http.MethodPost, "/api/v1/ingredients", `{"name":"x"}{"name":"y"}`, http.StatusBadRequest, "INVALID_JSON"},
		{"missing fields", http.MethodPost, "/api/v1/recipes", `{}`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"blank update name", http.MethodPut, "/api/v1/recipes/any", dto.UpdateRecipeRequest{Name: "  "}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"bad email", http.MethodPost, "/api/v1/users", dto.CreateUserRequest{Username: "erin", Email: "nope", Password: "password123"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"blank ingredient", http.MethodPost, "/api/v1/ingredients", dto.CreateIngredientRequest{Name: " "}, http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(tc.method, tc.path, tc.body)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tc.wantCode, decodeInto[dto.ErrorResponse](t, rec).Code)
		})
	}
}

func TestAPI_TrailingWhitespaceAccepted(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/ingredients", "{\"name\":\"pepper\"}\n\t ")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pepper", decodeInto[dto.IngredientResponse](t, rec).Name)

	// A rejected body must not have created anything.
	rec = api.do(http.MethodPost, "/api/v1/ingredients", `{"name":"cumin"} trailing`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	list := decodeInto[dto.ListResponse[dto.IngredientResponse]](t, api.do(http.MethodGet, "/api/v1/ingredients", nil))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "pepper", list.Data[0].Name)
}

func TestAPI_Conflicts(t *testing.T) {
	api := newTestAPI(t)

	api.createUser("frank")
	rec := api.do(http.MethodPost, "/api/v1/users", dto.CreateUserRequest{
		Username: "frank",
		Email:    "another@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USER_EXISTS", decodeInto[dto.ErrorResponse](t, rec).Code)

	api.createIngredient("Salt")
	rec = api.do(http.MethodPost, "/api/v1/ingredients", dto.CreateIngredientRequest{Name: "  salt "})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INGREDIENT_EXISTS", decodeInto[dto.ErrorResponse](t, rec).Code)
}

func TestAPI_UsersHidePasswordHash(t *testing.T) {
	api := newTestAPI(t)
	user := api.createUser("grace")

	rec := api.do(http.MethodGet, "/api/v1/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "argon2")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeInto[dto.ListResponse[dto.UserResponse]](t, rec)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "grace", list.Data[0].Username)
}

func TestAPI_UnknownRouteAndMethod(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v2/recipes", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPatch, "/api/v1/recipes", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
