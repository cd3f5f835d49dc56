package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/arjunkashyap/contactbook-backend/internal/services"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

// writeServiceError translates a service error into a status code and a
// client-safe message. Database detail never reaches the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "You don't have permission to access this contact")
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
