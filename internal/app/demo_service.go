package app

import (
	"context"
	"errors"

	"portfolio-api/internal/model"
	"portfolio-api/internal/pkg/password"
	"portfolio-api/internal/repository"
)

type demoAccount struct {
	profile  model.UserProfile
	password string
}

var demoAccounts = []demoAccount{
	{
		profile: model.UserProfile{
			Name:   "John Doe",
			Email:  "john.doe@demo.com",
			Title:  "Full Stack Developer",
			Bio:    "Passionate developer with 5+ years of experience in web development",
			Skills: []string{"JavaScript", "Python", "React", "FastAPI", "MongoDB"},
			SocialLinks: map[string]string{
				"github":   "https://github.com/johndoe",
				"linkedin": "https://linkedin.com/in/johndoe",
			},
		},
		password: "demo123",
	},
	{
		profile: model.UserProfile{
			Name:   "Sarah Smith",
			Email:  "sarah.smith@demo.com",
			Title:  "UX/UI Designer",
			Bio:    "Creative designer focused on user-centered design and digital experiences",
			Skills: []string{"Figma", "Adobe Creative Suite", "Prototyping", "User Research"},
			SocialLinks: map[string]string{
				"behance":  "https://behance.net/sarahsmith",
				"linkedin": "https://linkedin.com/in/sarahsmith",
			},
		},
		password: "demo123",
	},
	{
		profile: model.UserProfile{
			Name:   "Mike Johnson",
			Email:  "mike.johnson@demo.com",
			Title:  "Project Manager",
			Bio:    "Experienced project manager specializing in agile methodologies and team leadership",
			Skills: []string{"Scrum", "Agile", "Jira", "Team Leadership", "Risk Management"},
			SocialLinks: map[string]string{
				"linkedin": "https://linkedin.com/in/mikejohnson",
			},
		},
		password: "demo123",
	},
}

type DemoService struct {
	users  repository.UserStore
	hasher *password.Hasher
}

func NewDemoService(users repository.UserStore, hasher *password.Hasher) *DemoService {
	return &DemoService{users: users, hasher: hasher}
}

// SeedUsers creates the demo accounts that do not exist yet and returns the
// ones it created.
func (s *DemoService) SeedUsers(ctx context.Context) ([]model.User, error) {
	created := make([]model.User, 0, len(demoAccounts))
	for _, account := range demoAccounts {
		existing, err := s.users.GetByEmail(ctx, account.profile.Email)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		hash, err := s.hasher.Hash(account.password)
		if err != nil {
			return created, err
		}
		now := nowUTC()
		user := model.User{
			ID:           newID(),
			Name:         account.profile.Name,
			Email:        account.profile.Email,
			PasswordHash: &hash,
			Title:        account.profile.Title,
			Bio:          account.profile.Bio,
			Skills:       cleanList(account.profile.Skills),
			SocialLinks:  cleanLinks(account.profile.SocialLinks),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Create(ctx, &user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				continue
			}
			return created, err
		}
		created = append(created, user)
	}
	return created, nil
}
