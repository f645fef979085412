package account

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("account not found")
	ErrEmailAlreadyUsed = errors.New("email already in use")
)

// Account is a credential record held by the auth provider. Distinct from the
// profile row, which stores displayable attributes.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
