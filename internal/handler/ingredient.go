package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipeshare/recipeshare/internal/handler/dto"
	"github.com/recipeshare/recipeshare/internal/service"
)

// IngredientHandler handles HTTP requests for ingredient operations.
type IngredientHandler struct {
	svc     *service.IngredientService
	recipes *service.RecipeService
	logger  *slog.Logger
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(svc *service.IngredientService, recipes *service.RecipeService, logger *slog.Logger) *IngredientHandler {
	return &IngredientHandler{
		svc:     svc,
		recipes: recipes,
		logger:  logger,
	}
}

// Routes mounts the ingredient endpoints.
func (h *IngredientHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/recipes", h.Recipes)
}

// List handles GET /api/v1/ingredients.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ings, err := h.svc.ListIngredients(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToIngredientListResponse(ings))
}

// Create handles POST /api/v1/ingredients.
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIngredientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ing, err := h.svc.CreateIngredient(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToIngredientResponse(ing))
}

// Get handles GET /api/v1/ingredients/{id}.
func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	ing, err := h.svc.GetIngredientByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToIngredientResponse(ing))
}

// Delete handles DELETE /api/v1/ingredients/{id}.
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteIngredientByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Recipes handles GET /api/v1/ingredients/{id}/recipes.
func (h *IngredientHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.GetRecipesByIngredient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}
