package app

import (
	"context"
	"errors"
	"strings"

	"portfolio-api/internal/model"
	"portfolio-api/internal/repository"
)

type UserService struct {
	users repository.UserStore
}

func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

func validateProfile(p model.UserProfile) (model.UserProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)
	if p.Name == "" || p.Email == "" {
		return p, ErrInvalidInput
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Bio = strings.TrimSpace(p.Bio)
	p.Skills = cleanList(p.Skills)
	p.SocialLinks = cleanLinks(p.SocialLinks)
	return p, nil
}

// Create stores a profile on behalf of an authenticated caller. The account
// has no password, so it cannot be used to log in.
func (s *UserService) Create(ctx context.Context, profile model.UserProfile) (*model.User, error) {
	profile, err := validateProfile(profile)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	now := nowUTC()
	user := &model.User{
		ID:          newID(),
		Name:        profile.Name,
		Email:       profile.Email,
		Title:       profile.Title,
		Bio:         profile.Bio,
		Skills:      profile.Skills,
		SocialLinks: profile.SocialLinks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int64) ([]model.User, error) {
	skip, limit = clampPage(skip, limit)
	return s.users.List(ctx, skip, limit)
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update replaces the profile of id. Only the user themself may do so.
func (s *UserService) Update(ctx context.Context, requesterID, id string, profile model.UserProfile) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if Authorize(requesterID, user.ID) != Allowed {
		return nil, ErrForbidden
	}

	profile, err = validateProfile(profile)
	if err != nil {
		return nil, err
	}
	if profile.Email != user.Email {
		other, err := s.users.GetByEmail(ctx, profile.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, ErrEmailExists
		}
	}

	user.Name = profile.Name
	user.Email = profile.Email
	user.Title = profile.Title
	user.Bio = profile.Bio
	user.Skills = profile.Skills
	user.SocialLinks = profile.SocialLinks
	user.UpdatedAt = nowUTC()
	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
