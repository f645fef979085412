package authprovider

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/olamidek/coursehub/internal/auth"
	"github.com/olamidek/coursehub/internal/domain/account"
	"github.com/olamidek/coursehub/internal/domain/profile"
	"github.com/olamidek/coursehub/internal/domain/session"
	"github.com/olamidek/coursehub/internal/repo/postgres"
	"github.com/olamidek/coursehub/internal/security"
)

type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Create(ctx context.Context, email, passwordHash string) (account.Account, error)
}

type ProfileStore interface {
	Create(ctx context.Context, id, fullName, phone string) error
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

type RefreshTokenStore interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	Create(ctx context.Context, tx pgx.Tx, row postgres.RefreshTokenRow) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (postgres.RefreshTokenRow, error)
	Revoke(ctx context.Context, tx pgx.Tx, id string, replacedBy *string) error
}

// Local is the credential-backed Provider: bcrypt passwords in the accounts
// table, JWT access/refresh tokens, refresh rotation through the token store.
// A nil refresh store disables refresh persistence (tokens still verify until
// expiry), which is how tests and degraded runs operate.
type Local struct {
	accounts   AccountStore
	profiles   ProfileStore
	jwt        *auth.Manager
	refresh    RefreshTokenStore
	adminEmail string
	log        *slog.Logger

	mu   sync.Mutex
	subs map[int]func(Transition)
	next int
}

func NewLocal(accounts AccountStore, profiles ProfileStore, jwtManager *auth.Manager, refresh RefreshTokenStore, adminEmail string, log *slog.Logger) *Local {
	return &Local{
		accounts:   accounts,
		profiles:   profiles,
		jwt:        jwtManager,
		refresh:    refresh,
		adminEmail: adminEmail,
		log:        log,
		subs:       make(map[int]func(Transition)),
	}
}

func (l *Local) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}

	claims, err := l.jwt.VerifyAccessToken(accessToken)

	if err != nil {
		return nil, ErrNoSession
	}

	return &Session{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Degraded: claims.UserID == session.DegradedAdminID,
	}, nil
}

func (l *Local) SignIn(ctx context.Context, email, password string) (Tokens, error) {
	found, err := l.accounts.GetByEmail(ctx, email)

	if err != nil {
		return Tokens{}, ErrInvalidCredentials
	}

	err = security.CheckPassword(found.PasswordHash, password)

	if err != nil {
		return Tokens{}, ErrInvalidCredentials
	}

	tokens, err := l.issueTokens(ctx, found.ID, found.Email)

	if err != nil {
		return Tokens{}, err
	}

	l.emit(Transition{Event: SignedIn, Session: &Session{UserID: found.ID, Email: found.Email}})

	return tokens, nil
}

func (l *Local) SignUp(ctx context.Context, input SignUpInput) (Tokens, error) {
	hash, err := security.HashPassword(input.Password)

	if err != nil {
		return Tokens{}, err
	}

	created, err := l.accounts.Create(ctx, input.Email, hash)

	if err != nil {
		return Tokens{}, err
	}

	// Persist the attached metadata as the profile row. A failure here leaves
	// the account usable with "no profile yet" semantics.
	if err := l.profiles.Create(ctx, created.ID, input.FullName, input.Phone); err != nil {
		l.log.Error("profile create failed on sign-up", "user_id", created.ID, "err", err)
	}

	tokens, err := l.issueTokens(ctx, created.ID, created.Email)

	if err != nil {
		return Tokens{}, err
	}

	l.emit(Transition{Event: SignedIn, Session: &Session{UserID: created.ID, Email: created.Email}})

	return tokens, nil
}

func (l *Local) SignOut(ctx context.Context, refreshToken string) error {
	var identity *Session

	if refreshToken != "" && l.refresh != nil {
		claims, err := l.jwt.VerifyRefreshToken(refreshToken)

		if err == nil {
			identity = &Session{UserID: claims.UserID, Email: claims.Email}

			tx, txErr := l.refresh.BeginTx(ctx)

			if txErr == nil {
				defer func() { _ = tx.Rollback(ctx) }()

				// revoke that one token (idempotent)
				_ = l.refresh.Revoke(ctx, tx, claims.JTI, nil)
				_ = tx.Commit(ctx)
			}
		}
	}

	// identity stays nil when the token is unverifiable; subscribers treat
	// that as a broadcast sign-out
	l.emit(Transition{Event: SignedOut, Session: identity})

	return nil
}

// Refresh rotates a refresh token, revoking the old one and issuing a fresh
// pair. Requires the refresh store.
func (l *Local) Refresh(ctx context.Context, raw string) (Tokens, error) {
	if l.refresh == nil {
		return Tokens{}, errors.New("refresh not supported")
	}

	claims, err := l.jwt.VerifyRefreshToken(raw)

	if err != nil {
		return Tokens{}, ErrNoSession
	}

	tx, err := l.refresh.BeginTx(ctx)

	if err != nil {
		return Tokens{}, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	row, err := l.refresh.GetForUpdate(ctx, tx, claims.JTI)

	if err != nil {
		return Tokens{}, ErrNoSession
	}

	if row.RevokedAt != nil {
		return Tokens{}, ErrNoSession
	}

	if time.Now().UTC().After(row.ExpiresAt) {
		return Tokens{}, ErrNoSession
	}

	// verify hash matches the presented token (prevents token substitution)
	if row.TokenHash != l.jwt.HashRefreshToken(raw) {
		return Tokens{}, ErrNoSession
	}

	// re-derive rather than carry the old claim, so a flag granted or revoked
	// since issuance takes effect on rotation
	isAdmin := l.isAdminFor(ctx, row.UserID, claims.Email)

	access, err := l.jwt.GenerateAccessToken(row.UserID, claims.Email, isAdmin)

	if err != nil {
		return Tokens{}, err
	}

	newRaw, newJTI, newExpiresAt, err := l.jwt.GenerateRefreshToken(row.UserID, claims.Email, isAdmin)

	if err != nil {
		return Tokens{}, err
	}

	// revoke old, insert new
	if err := l.refresh.Revoke(ctx, tx, row.ID, &newJTI); err != nil {
		return Tokens{}, err
	}

	newRow := postgres.RefreshTokenRow{
		ID:        newJTI,
		UserID:    row.UserID,
		TokenHash: l.jwt.HashRefreshToken(newRaw),
		ExpiresAt: newExpiresAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := l.refresh.Create(ctx, tx, newRow); err != nil {
		return Tokens{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Tokens{}, err
	}

	return Tokens{
		Access:           access,
		Refresh:          newRaw,
		RefreshJTI:       newJTI,
		RefreshExpiresAt: newExpiresAt,
	}, nil
}

// DegradedSignIn synthesizes a session for the fixed local admin identity
// without touching the store. Used when both sign-in and sign-up failed for
// the privileged credential pair.
func (l *Local) DegradedSignIn(ctx context.Context) (Tokens, error) {
	access, err := l.jwt.GenerateAccessToken(session.DegradedAdminID, l.adminEmail, true)

	if err != nil {
		return Tokens{}, err
	}

	l.log.Warn("auth provider unreachable for admin, using degraded local session")

	l.emit(Transition{Event: SignedIn, Session: &Session{
		UserID:   session.DegradedAdminID,
		Email:    l.adminEmail,
		Degraded: true,
	}})

	// no refresh token: a degraded session lives only as long as the access token
	return Tokens{Access: access}, nil
}

func (l *Local) Subscribe(fn func(Transition)) (unsubscribe func()) {
	l.mu.Lock()
	id := l.next
	l.next++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

func (l *Local) emit(t Transition) {
	l.mu.Lock()
	fns := make([]func(Transition), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(t)
	}
}

// isAdminFor derives the adm claim the same way session resolution does:
// privileged address OR the persisted profile flag. A missing profile row
// means no flag yet.
func (l *Local) isAdminFor(ctx context.Context, userID, email string) bool {
	if l.adminEmail != "" && email == l.adminEmail {
		return true
	}

	prof, err := l.profiles.GetByID(ctx, userID)

	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			l.log.Warn("profile lookup failed while minting tokens", "user_id", userID, "err", err)
		}
		return false
	}

	return prof.IsAdmin
}

func (l *Local) issueTokens(ctx context.Context, userID, email string) (Tokens, error) {
	isAdmin := l.isAdminFor(ctx, userID, email)

	access, err := l.jwt.GenerateAccessToken(userID, email, isAdmin)

	if err != nil {
		return Tokens{}, err
	}

	raw, jti, expiresAt, err := l.jwt.GenerateRefreshToken(userID, email, isAdmin)

	if err != nil {
		return Tokens{}, err
	}

	if l.refresh != nil {
		if err := l.storeRefreshToken(ctx, userID, jti, raw, expiresAt); err != nil {
			return Tokens{}, err
		}
	}

	return Tokens{
		Access:           access,
		Refresh:          raw,
		RefreshJTI:       jti,
		RefreshExpiresAt: expiresAt,
	}, nil
}

func (l *Local) storeRefreshToken(ctx context.Context, userID, jti, raw string, expiresAt time.Time) error {
	tx, err := l.refresh.BeginTx(ctx)

	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := postgres.RefreshTokenRow{
		ID:        jti,
		UserID:    userID,
		TokenHash: l.jwt.HashRefreshToken(raw),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}

	err = l.refresh.Create(ctx, tx, row)

	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
