package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arjunkashyap/contactbook-backend/internal/models"
)

// memContactStore is an in-memory ContactStore for tests, preserving
// insertion order like the Mongo implementation.
type memContactStore struct {
	mu       sync.Mutex
	contacts []models.Contact
}

func (s *memContactStore) Insert(ctx context.Context, contacts []models.Contact) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range contacts {
		contacts[i].ID = primitive.NewObjectID()
	}
	s.contacts = append(s.contacts, contacts...)
	return contacts, nil
}

func (s *memContactStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Contact, 0)
	for _, c := range s.contacts {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memContactStore) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID.Hex() == id && c.OwnerID == ownerID {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memContactStore) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID.Hex() == id {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memContactStore) Update(ctx context.Context, id string, patch ContactPatch, now time.Time) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID.Hex() == id {
			if patch.Name != nil {
				s.contacts[i].Name = *patch.Name
			}
			if patch.Email != nil {
				s.contacts[i].Email = *patch.Email
			}
			if patch.Phone != nil {
				s.contacts[i].Phone = *patch.Phone
			}
			s.contacts[i].UpdatedAt = now
			out := s.contacts[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memContactStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID.Hex() == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *memContactStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

func strPtr(v string) *string { return &v }

func TestContactCreate_SetsOwnerAndTimestamps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memContactStore{}
	svc := NewContactService(store)

	created, err := svc.Create(ctx, "alice", []ContactInput{
		{Name: "Bob", Email: "b@x.com", Phone: "555"},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	c := created[0]
	assert.Equal(t, "alice", c.OwnerID)
	assert.False(t, c.ID.IsZero())
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
}

func TestContactCreate_BatchAllOrNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memContactStore{}
	svc := NewContactService(store)

	_, err := svc.Create(ctx, "alice", []ContactInput{
		{Name: "Bob", Email: "b@x.com", Phone: "555"},
		{Name: "Carol", Email: "c@x.com"}, // missing phone
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Nothing may have been persisted
	assert.Equal(t, 0, store.count())

	_, err = svc.Create(ctx, "alice", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContactList_OwnerIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memContactStore{}
	svc := NewContactService(store)

	_, err := svc.Create(ctx, "alice", []ContactInput{
		{Name: "Bob", Email: "b@x.com", Phone: "555"},
		{Name: "Carol", Email: "c@x.com", Phone: "556"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "mallory", []ContactInput{
		{Name: "Eve", Email: "e@x.com", Phone: "666"},
	})
	require.NoError(t, err)

	aliceList, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceList, 2)
	for _, c := range aliceList {
		assert.Equal(t, "alice", c.OwnerID)
	}

	malloryList, err := svc.List(ctx, "mallory")
	require.NoError(t, err)
	require.Len(t, malloryList, 1)
	assert.Equal(t, "Eve", malloryList[0].Name)

	empty, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestContactGet_OwnerScoped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memContactStore{}
	svc := NewContactService(store)

	created, err := svc.Create(ctx, "alice", []ContactInput{
		{Name: "Bob", Email: "b@x.com", Phone: "555"},
	})
	require.NoError(t, err)
	id := created[0].ID.Hex()

	got, err := svc.Get(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "b@x.com", got.Email)
	assert.Equal(t, "555", got.Phone)

	// Another user's valid id reads as not found, not forbidden
	_, err = svc.Get(ctx, "mallory", id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, "alice", primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memContactStore{}
	svc := NewContactService(store)

	created, err := svc.Create(ctx, "alice", []ContactInput{
		{Name: "Bob", Email: "b@x.com", Phone: "555"},
	})
	require.NoError(t, err)
	id := created[0].ID.Hex()

	updated, err := svc.Update(ctx, "alice", id, ContactPatch{Name: strPtr("Robert")})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)
	// Untouched fields survive a partial patch
	assert.Equal(t, "b@x.com", updated.Email)
	assert.Equal(t, "555", updated.Phone)
	assert.True(t, updated.UpdatedAt.After(created[0].CreatedAt) || updated.UpdatedAt.Equal(created[0].CreatedAt))

	_, err = svc.Update(ctx, "mallory", id, ContactPatch{Name: strPtr("Hacked")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, "alice", primitive.NewObjectID().Hex(), ContactPatch{Name: strPtr("X")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memContactStore{}
	svc := NewContactService(store)

	created, err := svc.Create(ctx, "alice", []ContactInput{
		{Name: "Bob", Email: "b@x.com", Phone: "555"},
	})
	require.NoError(t, err)
	id := created[0].ID.Hex()

	// Non-owner deletion fails even with a valid id, and the record stays
	_, err = svc.Delete(ctx, "mallory", id)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 1, store.count())

	gotID, err := svc.Delete(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, 0, store.count())

	_, err = svc.Delete(ctx, "alice", id)
	assert.ErrorIs(t, err, ErrNotFound)
}
