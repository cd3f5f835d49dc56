package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arjunkashyap/contactbook-backend/internal/models"
)

// ContactInput is one record in a create call.
type ContactInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactPatch carries the fields of a partial update. Nil means "leave
// unchanged".
type ContactPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ContactStore is the persistence contract for contact records.
// FindByID and Delete must fail with ErrNotFound when the id does not resolve.
type ContactStore interface {
	Insert(ctx context.Context, contacts []models.Contact) ([]models.Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Contact, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Contact, error)
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	Update(ctx context.Context, id string, patch ContactPatch, now time.Time) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

// ContactService performs contact CRUD with ownership enforcement. The owner
// id on every path comes from the verified token, never from the client body.
type ContactService struct {
	store ContactStore
}

func NewContactService(store ContactStore) *ContactService {
	return &ContactService{store: store}
}

// List returns all contacts owned by ownerID. An empty result is not an error.
func (s *ContactService) List(ctx context.Context, ownerID string) ([]models.Contact, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Create validates every record before anything is written, then inserts the
// whole batch in one store call. One bad record fails the entire call.
func (s *ContactService) Create(ctx context.Context, ownerID string, inputs []ContactInput) ([]models.Contact, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one contact is required", ErrValidation)
	}

	for _, in := range inputs {
		if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Phone) == "" {
			return nil, fmt.Errorf("%w: name, email and phone are mandatory for each contact", ErrValidation)
		}
	}

	now := time.Now().UTC()
	contacts := make([]models.Contact, 0, len(inputs))
	for _, in := range inputs {
		contacts = append(contacts, models.Contact{
			CreatedAt: now,
			UpdatedAt: now,
			OwnerID:   ownerID,
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
		})
	}

	return s.store.Insert(ctx, contacts)
}

// Get fetches a single contact. Reads are owner-scoped: another user's
// contact id answers ErrNotFound rather than disclosing that it exists.
func (s *ContactService) Get(ctx context.Context, ownerID, contactID string) (*models.Contact, error) {
	return s.store.FindByIDAndOwner(ctx, contactID, ownerID)
}

// Update applies a partial update after checking existence and ownership,
// in that order: a missing contact is ErrNotFound, someone else's contact
// is ErrForbidden.
func (s *ContactService) Update(ctx context.Context, ownerID, contactID string, patch ContactPatch) (*models.Contact, error) {
	existing, err := s.store.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	return s.store.Update(ctx, contactID, patch, time.Now().UTC())
}

// Delete removes a contact with the same existence and ownership checks as
// Update and returns the deleted id.
func (s *ContactService) Delete(ctx context.Context, ownerID, contactID string) (string, error) {
	existing, err := s.store.FindByID(ctx, contactID)
	if err != nil {
		return "", err
	}
	if existing.OwnerID != ownerID {
		return "", ErrForbidden
	}

	if err := s.store.Delete(ctx, contactID); err != nil {
		return "", err
	}
	return contactID, nil
}
