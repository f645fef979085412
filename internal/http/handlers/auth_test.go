package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/authprovider"
	"github.com/olamidek/coursehub/internal/config"
	"github.com/olamidek/coursehub/internal/domain/account"
	"github.com/olamidek/coursehub/internal/http/handlers"
)

// Fake session provider with function fields; unset fields fail closed.

type fakeSessionProvider struct {
	signInFn   func(ctx context.Context, email, password string) (authprovider.Tokens, error)
	signUpFn   func(ctx context.Context, input authprovider.SignUpInput) (authprovider.Tokens, error)
	signOutFn  func(ctx context.Context, refreshToken string) error
	refreshFn  func(ctx context.Context, raw string) (authprovider.Tokens, error)
	degradedFn func(ctx context.Context) (authprovider.Tokens, error)
}

func (f *fakeSessionProvider) SignIn(ctx context.Context, email, password string) (authprovider.Tokens, error) {
	if f.signInFn != nil {
		return f.signInFn(ctx, email, password)
	}
	return authprovider.Tokens{}, authprovider.ErrInvalidCredentials
}

func (f *fakeSessionProvider) SignUp(ctx context.Context, input authprovider.SignUpInput) (authprovider.Tokens, error) {
	if f.signUpFn != nil {
		return f.signUpFn(ctx, input)
	}
	return authprovider.Tokens{}, authprovider.ErrInvalidCredentials
}

func (f *fakeSessionProvider) SignOut(ctx context.Context, refreshToken string) error {
	if f.signOutFn != nil {
		return f.signOutFn(ctx, refreshToken)
	}
	return nil
}

func (f *fakeSessionProvider) Refresh(ctx context.Context, raw string) (authprovider.Tokens, error) {
	if f.refreshFn != nil {
		return f.refreshFn(ctx, raw)
	}
	return authprovider.Tokens{}, authprovider.ErrInvalidCredentials
}

func (f *fakeSessionProvider) DegradedSignIn(ctx context.Context) (authprovider.Tokens, error) {
	if f.degradedFn != nil {
		return f.degradedFn(ctx)
	}
	return authprovider.Tokens{}, authprovider.ErrInvalidCredentials
}

func authRouter(provider handlers.SessionProvider, cfg config.Config) *gin.Engine {
	r := gin.New()

	h := handlers.NewAuthHandler(provider, cfg)

	r.POST("/auth/signup", h.SignUp)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	return r
}

func TestLoginSuccess(t *testing.T) {
	provider := &fakeSessionProvider{
		signInFn: func(ctx context.Context, email, password string) (authprovider.Tokens, error) {
			return authprovider.Tokens{Access: "access-1", Refresh: "refresh-1"}, nil
		},
	}

	r := authRouter(provider, config.Config{})

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", `{"email":"jane@example.com","password":"hunter2hunter2"}`)

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)

	if body["accessToken"] != "access-1" {
		t.Fatalf("expected the access token in the response, got %v", body)
	}
}

func TestLoginInvalidCredentialsStopsAtStepOne(t *testing.T) {
	signUps := 0
	provider := &fakeSessionProvider{
		signUpFn: func(ctx context.Context, input authprovider.SignUpInput) (authprovider.Tokens, error) {
			signUps++
			return authprovider.Tokens{}, authprovider.ErrInvalidCredentials
		},
	}

	cfg := config.Config{AdminEmail: "boss@example.com", AdminPassword: "super-secret"}
	r := authRouter(provider, cfg)

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", `{"email":"jane@example.com","password":"wrong"}`)

	requireStatus(t, w, http.StatusUnauthorized)

	if signUps != 0 {
		t.Fatal("non-privileged credentials must never reach the sign-up rung")
	}
}

func TestLoginAdminLadderFallsThroughToSignUp(t *testing.T) {
	provider := &fakeSessionProvider{
		signUpFn: func(ctx context.Context, input authprovider.SignUpInput) (authprovider.Tokens, error) {
			return authprovider.Tokens{Access: "fresh-admin"}, nil
		},
	}

	cfg := config.Config{AdminEmail: "boss@example.com", AdminPassword: "super-secret"}
	r := authRouter(provider, cfg)

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", `{"email":"boss@example.com","password":"super-secret"}`)

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)

	if body["accessToken"] != "fresh-admin" {
		t.Fatalf("expected the sign-up rung to serve the admin pair, got %v", body)
	}
}

func TestLoginAdminLadderBottomsOutDegraded(t *testing.T) {
	provider := &fakeSessionProvider{
		degradedFn: func(ctx context.Context) (authprovider.Tokens, error) {
			return authprovider.Tokens{Access: "degraded-access"}, nil
		},
	}

	cfg := config.Config{AdminEmail: "boss@example.com", AdminPassword: "super-secret"}
	r := authRouter(provider, cfg)

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", `{"email":"boss@example.com","password":"super-secret"}`)

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)

	if body["accessToken"] != "degraded-access" || body["degraded"] != true {
		t.Fatalf("expected a degraded session at the bottom of the ladder, got %v", body)
	}
}

func TestSignUpConflict(t *testing.T) {
	provider := &fakeSessionProvider{
		signUpFn: func(ctx context.Context, input authprovider.SignUpInput) (authprovider.Tokens, error) {
			return authprovider.Tokens{}, account.ErrEmailAlreadyUsed
		},
	}

	r := authRouter(provider, config.Config{})

	w := doJSON(t, r, http.MethodPost, "/auth/signup", "", `{"email":"jane@example.com","password":"hunter2hunter2","fullName":"Jane Doe"}`)

	requireStatus(t, w, http.StatusConflict)
}

func TestSignUpValidation(t *testing.T) {
	r := authRouter(&fakeSessionProvider{}, config.Config{})

	// password below the minimum length
	w := doJSON(t, r, http.MethodPost, "/auth/signup", "", `{"email":"jane@example.com","password":"short","fullName":"Jane Doe"}`)

	requireStatus(t, w, http.StatusBadRequest)
}

func TestLogoutAlwaysClears(t *testing.T) {
	r := authRouter(&fakeSessionProvider{}, config.Config{})

	w := doJSON(t, r, http.MethodPost, "/auth/logout", "", "")

	requireStatus(t, w, http.StatusNoContent)
}
