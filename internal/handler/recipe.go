package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipeshare/recipeshare/internal/handler/dto"
	"github.com/recipeshare/recipeshare/internal/service"
)

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	svc    *service.RecipeService
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		svc:    svc,
		logger: logger,
	}
}

// Routes mounts the recipe endpoints.
func (h *RecipeHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/search", h.Search)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/v1/recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.GetAllRecipes(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// Create handles POST /api/v1/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecipeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	recipe, err := h.svc.CreateRecipe(r.Context(), service.CreateRecipeInput{
		UserID:        req.UserID,
		Name:          req.Name,
		Description:   req.Description,
		IngredientIDs: req.Ingredients,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToRecipeResponse(recipe))
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.svc.GetRecipeByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// Update handles PUT /api/v1/recipes/{id}.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRecipeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	recipe, err := h.svc.UpdateRecipeByID(r.Context(), chi.URLParam(r, "id"), service.UpdateRecipeInput{
		Name:          req.Name,
		Description:   req.Description,
		IngredientIDs: req.Ingredients,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// Delete handles DELETE /api/v1/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecipeByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/v1/recipes/search?q=.
func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.GetRecipesBySearch(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}
