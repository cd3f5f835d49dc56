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

// memUserStore is an in-memory UserStore for tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by id hex
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (s *memUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID.Hex()] = user
	return user, nil
}

func (s *memUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func newUserService() (*UserService, *TokenService) {
	tokens := NewTokenService("test-secret", time.Hour)
	return NewUserService(newMemUserStore(), tokens), tokens
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, tokens := newUserService()

	user, err := svc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.False(t, user.ID.IsZero())
	// The stored secret is a hash, never the plaintext
	assert.NotEqual(t, "pw123", user.Password)
	assert.NotEmpty(t, user.Password)

	tok, err := svc.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)

	gotID, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), gotID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newUserService()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice2", "a@x.com", "other-pw")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newUserService()

	cases := []struct {
		name, username, email, password string
	}{
		{"no username", "", "a@x.com", "pw"},
		{"no email", "alice", "", "pw"},
		{"no password", "alice", "a@x.com", ""},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrValidation, tc.name)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newUserService()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable
	_, errUnknown := svc.Login(ctx, "nobody@x.com", "pw123")
	_, errWrongPw := svc.Login(ctx, "a@x.com", "wrong")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestCurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newUserService()

	user, err := svc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	got, err := svc.Current(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.Current(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
