// Package auth handles user registration, credential checks, and
// token-based request authentication.
package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/andresilva/courseapi/internal/database/users"
	"github.com/andresilva/courseapi/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrEmailInvalid  = errors.New("invalid email format")
	ErrEmailTaken    = errors.New("a user with this email already exists")
	ErrInvalidRole   = errors.New("invalid role")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so login failures do not leak which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserStore is the slice of the users repository the service needs.
type UserStore interface {
	Create(name, email, passwordHash string, role entities.UserRole) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	GetByID(id string) (*entities.User, error)
}

// Service handles registration and login.
type Service struct {
	store      UserStore
	tokens     *TokenManager
	bcryptCost int
}

func NewService(store UserStore, tokens *TokenManager, bcryptCost int) *Service {
	return &Service{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user account. The email unique index backs the
// duplicate check.
func (s *Service) Register(name, email, password string, role entities.UserRole) (*entities.User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	// RFC 5321 caps addresses at 254 octets
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	switch role {
	case entities.UserRoleStudent, entities.UserRoleManager:
	default:
		return nil, ErrInvalidRole
	}

	passwordHash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Create(name, email, passwordHash, role)
	if errors.Is(err, users.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Token issues a signed token for an existing account.
func (s *Service) Token(user *entities.User) (string, error) {
	return s.tokens.Generate(user)
}

// Login checks credentials and issues a signed token.
func (s *Service) Login(email, password string) (string, *entities.User, error) {
	user, err := s.store.GetByEmail(email)
	if errors.Is(err, users.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// Profile returns the account behind a validated identity.
func (s *Service) Profile(userID string) (*entities.User, error) {
	return s.store.GetByID(userID)
}
