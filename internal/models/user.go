package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an editorial account. Only superusers may moderate submissions,
// toggle visibility, delete content, or curate the homepage.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Superuser    bool      `json:"superuser"`
	TOTPSecret   *string   `json:"-"` // Nullable; set when 2FA is enrolled
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Has2FA returns true if the user has completed optional 2FA enrollment.
func (u *User) Has2FA() bool {
	return u.TOTPEnabled
}
