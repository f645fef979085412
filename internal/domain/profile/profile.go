package profile

import (
	"errors"
	"time"
)

// Profile holds the persisted user attributes, keyed by the auth identity.
// Separate from credentials; a user may exist without a profile row yet.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound is the distinguished "no profile yet" outcome. Session
// resolution treats it as an empty profile, not a failure.
var ErrNotFound = errors.New("profile not found")

type UpdateProfileRequest struct {
	FullName string `json:"fullName" binding:"required,min=2,max=120"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}
