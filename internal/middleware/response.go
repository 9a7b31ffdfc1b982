package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/recipeshare/recipeshare/internal/handler/dto"
)

// writeError writes an error body in the same shape the API handlers use.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message, Code: code})
}
