package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/arjunkashyap/contactbook-backend/internal/models"
	"github.com/arjunkashyap/contactbook-backend/pkg/utils"
)

// UserStore is the persistence contract for user records.
// Create must fail with ErrDuplicateEmail when the email is taken.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// UserService handles registration, login and identity lookup.
type UserService struct {
	store  UserStore
	tokens *TokenService
}

func NewUserService(store UserStore, tokens *TokenService) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// Register creates a user with a salted one-way hash of the password.
// The plaintext is never stored.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	return s.store.Create(ctx, user)
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password both answer ErrInvalidCredentials so the response does not
// reveal which factor failed.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID.Hex())
}

// Current returns the profile for an already-verified user id.
func (s *UserService) Current(ctx context.Context, userID string) (*models.User, error) {
	return s.store.FindByID(ctx, userID)
}
