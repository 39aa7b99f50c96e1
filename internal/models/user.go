package models

import "time"

// AdminUsername is the identity allowed to read contact messages.
const AdminUsername = "Admin"

type User struct {
	ID              int       `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	PasswordHash    string    `json:"-"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewUser is what the store needs to insert a user; id and timestamps are assigned there.
type NewUser struct {
	Username     string
	Email        string
	FirstName    *string
	LastName     *string
	PasswordHash string
}

// PublicUser is the projection returned by /auth/user and login. It has no hash field.
type PublicUser struct {
	ID              int     `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// Public strips everything a client must not see.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// IsAdmin reports whether the username is the admin identity. Case-sensitive.
func IsAdmin(username string) bool {
	return username == AdminUsername
}
