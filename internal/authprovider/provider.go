package authprovider

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

// Session is the authenticated-identity context for the current process
// lifetime, as reported by the provider.
type Session struct {
	UserID   string
	Email    string
	Degraded bool
}

// Tokens is the credential material handed back after sign-in/sign-up.
type Tokens struct {
	Access           string
	Refresh          string
	RefreshJTI       string
	RefreshExpiresAt time.Time
}

type SignUpInput struct {
	Email    string
	Password string
	// Attached profile metadata, persisted as the profile row.
	FullName string
	Phone    string
}

type Event string

const (
	SignedIn  Event = "signed_in"
	SignedOut Event = "signed_out"
)

// Transition is a session-change notification. Session is nil for SignedOut.
type Transition struct {
	Event   Event
	Session *Session
}

// Provider is the authentication dependency the storefront consumes: session
// retrieval, sign-in, sign-up with profile metadata, sign-out, and a
// subscription for session-change notifications.
type Provider interface {
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (Tokens, error)
	SignUp(ctx context.Context, input SignUpInput) (Tokens, error)
	SignOut(ctx context.Context, refreshToken string) error
	// Subscribe registers a callback for session transitions, delivered in the
	// order the provider emits them. The returned func unsubscribes.
	Subscribe(fn func(Transition)) (unsubscribe func())
}
