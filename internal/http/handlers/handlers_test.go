package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/auth"
	"github.com/olamidek/coursehub/internal/domain/product"
	"github.com/olamidek/coursehub/internal/domain/session"
	"github.com/olamidek/coursehub/internal/http/middlewares"
	"github.com/olamidek/coursehub/internal/repo/memory"
	"github.com/olamidek/coursehub/internal/storefront"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fake token verifier: any "Bearer <userID>|<email>|<admin?>" shaped token
// maps straight onto claims, no real JWTs in handler tests.

type fakeVerifier struct {
	claims map[string]*auth.Claims
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{claims: make(map[string]*auth.Claims)}
}

func (f *fakeVerifier) allow(token, userID, email string, isAdmin bool) {
	f.claims[token] = &auth.Claims{UserID: userID, Email: email, IsAdmin: isAdmin, TokenType: "access"}
}

func (f *fakeVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	c, ok := f.claims[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return c, nil
}

// testEnv bundles the pieces most handler tests need.

type testEnv struct {
	hub         *storefront.Hub
	products    *memory.ProductsRepo
	profiles    *memory.ProfilesRepo
	enrollments *memory.EnrollmentsRepo
	verifier    *fakeVerifier
	mw          *middlewares.AuthMiddleware
}

func newTestEnv(adminEmail string) *testEnv {
	products := memory.NewProductsRepo()
	profiles := memory.NewProfilesRepo()
	enrollments := memory.NewEnrollmentsRepo()

	policy := session.EmailAdminPolicy(adminEmail)

	hub := storefront.NewHub(func() *storefront.Controller {
		return storefront.NewController(products, profiles, enrollments, policy, testLogger(), nil)
	}, testLogger())

	verifier := newFakeVerifier()

	return &testEnv{
		hub:         hub,
		products:    products,
		profiles:    profiles,
		enrollments: enrollments,
		verifier:    verifier,
		mw:          middlewares.NewAuthMiddleware(verifier),
	}
}

func (e *testEnv) seedProducts(t *testing.T, names ...string) []product.Product {
	t.Helper()

	out := make([]product.Product, 0, len(names))

	for _, name := range names {
		p, err := e.products.Create(context.Background(), product.CreateProductRequest{
			Name:        name,
			Price:       "₦5,000",
			Description: "test product",
		})
		if err != nil {
			t.Fatalf("seed product %q: %v", name, err)
		}
		out = append(out, p)
	}

	return out
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reader)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not valid json: %v\nbody: %s", err, w.Body.String())
	}
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("expected status %d, got %d; body: %s", want, w.Code, w.Body.String())
	}
}
