package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-api/internal/model"
	"portfolio-api/internal/pkg/jwtutil"
	"portfolio-api/internal/repository"
)

const minPasswordLength = 6

// PasswordHasher is satisfied by *password.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, digest *string) bool
}

type AuthService struct {
	users  repository.UserStore
	hasher PasswordHasher
	tokens *jwtutil.Manager
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Title       string
	Bio         string
	Skills      []string
	SocialLinks map[string]string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

func NewAuthService(users repository.UserStore, hasher PasswordHasher, tokens *jwtutil.Manager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || len(input.Password) < minPasswordLength {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	user := &model.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: &hash,
		Title:        strings.TrimSpace(input.Title),
		Bio:          strings.TrimSpace(input.Bio),
		Skills:       cleanList(input.Skills),
		SocialLinks:  cleanLinks(input.SocialLinks),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return s.issue(user)
}

// Login reports ErrInvalidCredential for an unknown email, a wrong password
// and an account without a password alike. The hasher runs on every path so
// the three cases take the same time.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var digest *string
	if user != nil {
		digest = user.PasswordHash
	}
	matched := s.hasher.Verify(input.Password, digest)
	if user == nil || !user.LoginEnabled() || !matched {
		return nil, ErrInvalidCredential
	}

	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
