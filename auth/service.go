package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coreybb/tasktracker/datastore"
	"github.com/coreybb/tasktracker/models"
	"github.com/google/uuid"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
	maxPasswordBytes  = 72 // bcrypt ignores anything past this
)

// UserStore persists user identity records. Lookups by email expect a
// normalized address; a missing user is reported as a wrapped sql.ErrNoRows.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// AuthResult is what a successful registration or login hands back to the client.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service registers and logs in users and resolves bearer tokens to users.
type Service struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenIssuer
	now    func() time.Time
}

func NewService(users UserStore, hasher *PasswordHasher, tokens *TokenIssuer, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, now: now}
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	var verr models.ValidationError
	if utf8.RuneCountInString(name) < minNameLength {
		verr.Add("name", "Name must be at least 2 characters long")
	}
	if !validEmail(email) {
		verr.Add("email", "Please provide a valid email")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		verr.Add("password", "Password must be at least 6 characters long")
	} else if len(password) > maxPasswordBytes {
		verr.Add("password", "Password must be at most 72 bytes long")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Another registration for the same email may have won the race.
		if errors.Is(err, datastore.ErrEmailTaken) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user %s: %w", email, err)
	}

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	var verr models.ValidationError
	if !validEmail(email) {
		verr.Add("email", "Please provide a valid email")
	}
	if password == "" {
		verr.Add("password", "Password is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.hasher.CompareDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to the live user it was issued for.
// Tokens cannot be revoked, so a user deleted after issuance surfaces as
// ErrUserNotFound rather than an invalid token.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, userID)
}

func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return user, nil
}

func (s *Service) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// validEmail accepts a bare address only, not the "Name <addr>" form.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
