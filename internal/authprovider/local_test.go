package authprovider_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/olamidek/coursehub/internal/auth"
	"github.com/olamidek/coursehub/internal/authprovider"
	"github.com/olamidek/coursehub/internal/domain/account"
	"github.com/olamidek/coursehub/internal/domain/session"
	"github.com/olamidek/coursehub/internal/repo/memory"
)

func newLocal(t *testing.T, adminEmail string) (*authprovider.Local, *memory.ProfilesRepo) {
	t.Helper()

	profiles := memory.NewProfilesRepo()

	l := authprovider.NewLocal(
		memory.NewAccountsRepo(),
		profiles,
		auth.NewManager("test-secret", 15*time.Minute, time.Hour),
		nil, // no refresh persistence in tests
		adminEmail,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return l, profiles
}

func TestSignUpThenSignIn(t *testing.T) {
	l, _ := newLocal(t, "")
	ctx := context.Background()

	_, err := l.SignUp(ctx, authprovider.SignUpInput{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
		FullName: "Jane Doe",
		Phone:    "+2348000000000",
	})

	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	tokens, err := l.SignIn(ctx, "jane@example.com", "hunter2hunter2")

	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}

	if tokens.Access == "" {
		t.Fatal("expected an access token")
	}

	sess, err := l.GetSession(ctx, tokens.Access)

	if err != nil {
		t.Fatalf("GetSession error: %v", err)
	}

	if sess.Email != "jane@example.com" || sess.Degraded {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestSignUpCreatesProfileRow(t *testing.T) {
	l, profiles := newLocal(t, "")
	ctx := context.Background()

	tokens, err := l.SignUp(ctx, authprovider.SignUpInput{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
		FullName: "Jane Doe",
	})

	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	sess, err := l.GetSession(ctx, tokens.Access)

	if err != nil {
		t.Fatalf("GetSession error: %v", err)
	}

	prof, err := profiles.GetByID(ctx, sess.UserID)

	if err != nil {
		t.Fatalf("expected a profile row for the new account: %v", err)
	}

	if prof.FullName != "Jane Doe" {
		t.Errorf("expected full name persisted, got %q", prof.FullName)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	l, _ := newLocal(t, "")
	ctx := context.Background()

	if _, err := l.SignUp(ctx, authprovider.SignUpInput{Email: "jane@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	_, err := l.SignIn(ctx, "jane@example.com", "wrong-password")

	if !errors.Is(err, authprovider.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	l, _ := newLocal(t, "")
	ctx := context.Background()

	if _, err := l.SignUp(ctx, authprovider.SignUpInput{Email: "jane@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	_, err := l.SignUp(ctx, authprovider.SignUpInput{Email: "jane@example.com", Password: "different-pass"})

	if !errors.Is(err, account.ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
}

func TestSignInEmitsTransition(t *testing.T) {
	l, _ := newLocal(t, "")
	ctx := context.Background()

	var got []authprovider.Transition
	unsubscribe := l.Subscribe(func(t authprovider.Transition) {
		got = append(got, t)
	})
	defer unsubscribe()

	if _, err := l.SignUp(ctx, authprovider.SignUpInput{Email: "jane@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	if len(got) != 1 || got[0].Event != authprovider.SignedIn {
		t.Fatalf("expected one signed-in transition, got %+v", got)
	}

	if got[0].Session == nil || got[0].Session.Email != "jane@example.com" {
		t.Fatalf("transition must carry the identity, got %+v", got[0].Session)
	}
}

func TestDegradedSignIn(t *testing.T) {
	l, _ := newLocal(t, "boss@example.com")
	ctx := context.Background()

	var got []authprovider.Transition
	unsubscribe := l.Subscribe(func(t authprovider.Transition) {
		got = append(got, t)
	})
	defer unsubscribe()

	tokens, err := l.DegradedSignIn(ctx)

	if err != nil {
		t.Fatalf("DegradedSignIn error: %v", err)
	}

	if tokens.Refresh != "" {
		t.Error("degraded sessions must not get a refresh token")
	}

	sess, err := l.GetSession(ctx, tokens.Access)

	if err != nil {
		t.Fatalf("GetSession error: %v", err)
	}

	if !sess.Degraded || sess.UserID != session.DegradedAdminID {
		t.Fatalf("expected the degraded admin identity, got %+v", sess)
	}

	if len(got) != 1 || got[0].Session == nil || !got[0].Session.Degraded {
		t.Fatalf("expected a degraded signed-in transition, got %+v", got)
	}
}

func TestGetSessionRejectsGarbage(t *testing.T) {
	l, _ := newLocal(t, "")

	if _, err := l.GetSession(context.Background(), "not-a-token"); !errors.Is(err, authprovider.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	if _, err := l.GetSession(context.Background(), ""); !errors.Is(err, authprovider.ErrNoSession) {
		t.Fatalf("expected ErrNoSession for empty token, got %v", err)
	}
}

func TestSignInMintsAdminClaimFromProfileFlag(t *testing.T) {
	profiles := memory.NewProfilesRepo()
	manager := auth.NewManager("test-secret", 15*time.Minute, time.Hour)

	l := authprovider.NewLocal(
		memory.NewAccountsRepo(),
		profiles,
		manager,
		nil,
		"boss@example.com",
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	ctx := context.Background()

	tokens, err := l.SignUp(ctx, authprovider.SignUpInput{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
		FullName: "Jane Doe",
	})

	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	claims, err := manager.VerifyAccessToken(tokens.Access)

	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}

	if claims.IsAdmin {
		t.Fatal("a fresh sign-up must not carry the admin claim")
	}

	profiles.SetAdmin(claims.UserID, true)

	tokens, err = l.SignIn(ctx, "jane@example.com", "hunter2hunter2")

	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}

	claims, err = manager.VerifyAccessToken(tokens.Access)

	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}

	if !claims.IsAdmin {
		t.Fatal("the profile flag must reach the admin claim on sign-in")
	}
}
