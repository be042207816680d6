package model

import "time"

type User struct {
	ID           string            `bson:"_id" json:"id"`
	Name         string            `bson:"name" json:"name"`
	Email        string            `bson:"email" json:"email"`
	PasswordHash *string           `bson:"password_hash" json:"-"`
	Title        string            `bson:"title,omitempty" json:"title,omitempty"`
	Bio          string            `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills       []string          `bson:"skills" json:"skills"`
	SocialLinks  map[string]string `bson:"social_links" json:"social_links"`
	CreatedAt    time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `bson:"updated_at" json:"updated_at"`
}

// LoginEnabled reports whether the account can authenticate with a password.
// Accounts created through the admin path carry no hash and stay locked.
func (u *User) LoginEnabled() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// UserProfile is the mutable part of a user, shared by admin-create and update.
type UserProfile struct {
	Name        string
	Email       string
	Title       string
	Bio         string
	Skills      []string
	SocialLinks map[string]string
}
