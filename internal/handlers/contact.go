package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arjunkashyap/contactbook-backend/internal/middleware"
	"github.com/arjunkashyap/contactbook-backend/internal/services"
)

// DeleteContactResponse acknowledges a deletion.
type DeleteContactResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// owner resolves the authenticated user id attached by the auth middleware.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}

// List returns all contacts owned by the caller.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	contacts, err := h.contacts.List(ctx, ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// Create accepts a single contact object or an array of them. The whole call
// is all-or-nothing; the response is always an array.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inputs, err := decodeContactInputs(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := h.contacts.Create(ctx, ownerID, inputs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// decodeContactInputs handles both request shapes: one object or an array.
func decodeContactInputs(body []byte) ([]services.ContactInput, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var inputs []services.ContactInput
		if err := json.Unmarshal(body, &inputs); err != nil {
			return nil, err
		}
		return inputs, nil
	}

	var one services.ContactInput
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, err
	}
	return []services.ContactInput{one}, nil
}

// Get returns a single contact owned by the caller.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	contact, err := h.contacts.Get(ctx, ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Update applies a partial update to a contact the caller owns.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	var patch services.ContactPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	contact, err := h.contacts.Update(ctx, ownerID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Delete removes a contact the caller owns.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.contacts.Delete(ctx, ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteContactResponse{Message: "Contact deleted", ID: id})
}
