package user

import "time"

type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	DisplayName       string    `json:"display_name"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	PasswordHash      string    `json:"-"`
	IsVerified        bool      `json:"is_verified"`
	IsActive          bool      `json:"is_active"`
	PreferredLanguage string    `json:"preferred_language"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FlagUpdate carries the only account fields an admin may touch. Nil means
// leave the flag as it is.
type FlagUpdate struct {
	IsVerified *bool
	IsActive   *bool
}

func (f FlagUpdate) Empty() bool { return f.IsVerified == nil && f.IsActive == nil }
