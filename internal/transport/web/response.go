package web

import (
	"encoding/json"
	"net/http"

	"dealer-admin/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeSuccess wraps data in the envelope the admin UI expects.
func writeSuccess[T any](w http.ResponseWriter, status int, message string, data T) {
	writeJSON(w, status, models.SuccessResponse[T]{Success: true, Message: message, Data: data})
}
