// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipeshare/recipeshare/internal/handler/dto"
	"github.com/recipeshare/recipeshare/internal/service"
)

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// decodeAndValidate reads a JSON body into req and runs its validation
// rules. It writes the error response itself and reports whether the
// caller may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}

	if fields := dto.Validate(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:  "Validation failed",
			Code:   "VALIDATION_FAILED",
			Fields: fields,
		})
		return false
	}

	return true
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var notFound *service.NotFoundError
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, strings.ToUpper(notFound.Entity)+"_NOT_FOUND", notFound.Error())
	case errors.Is(err, service.ErrEmptySearchQuery):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:  err.Error(),
			Code:   "VALIDATION_FAILED",
			Fields: []dto.FieldError{{Field: "q", Error: "must not be blank"}},
		})
	case errors.Is(err, service.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:  err.Error(),
			Code:   "VALIDATION_FAILED",
			Fields: []dto.FieldError{{Field: "name", Error: "must not be blank"}},
		})
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusConflict, "USER_EXISTS", "Username or email already taken")
	case errors.Is(err, service.ErrIngredientExists):
		writeError(w, http.StatusConflict, "INGREDIENT_EXISTS", "Ingredient already exists")
	case errors.Is(err, service.ErrIngredientInUse):
		writeError(w, http.StatusConflict, "INGREDIENT_IN_USE", "Ingredient is used by a recipe")
	default:
		logger.Error("internal error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure here has no recovery.
	_ = json.NewEncoder(w).Encode(data)
}
