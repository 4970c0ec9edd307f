package domain

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	IsAdmin      bool      `json:"isAdmin"`
	ProfilePic   string    `json:"profilePic,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedOn    time.Time `json:"createdOn"`
}

// PublicProfile strips fields that should not leave the server.
func (u *User) PublicProfile() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"location":   u.Location,
		"profilePic": u.ProfilePic,
	}
}
