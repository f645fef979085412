package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/auth"
	"github.com/olamidek/coursehub/internal/authprovider"
	"github.com/olamidek/coursehub/internal/domain/product"
	"github.com/olamidek/coursehub/internal/domain/session"
	"github.com/olamidek/coursehub/internal/http/handlers"
	"github.com/olamidek/coursehub/internal/http/middlewares"
	"github.com/olamidek/coursehub/internal/repo/memory"
	"github.com/olamidek/coursehub/internal/storefront"
)

func adminRouter(env *testEnv) *gin.Engine {
	r := gin.New()

	h := handlers.NewAdminHandler(env.hub, nil)

	grp := r.Group("/admin", env.mw.RequireAuth(), env.mw.RequireAdmin())
	grp.POST("/products", h.CreateProduct)
	grp.DELETE("/products/:id", h.DeleteProduct)
	grp.POST("/products/restore", h.RestoreDefaults)

	return r
}

func TestAdminRoutesRejectAnonymous(t *testing.T) {
	env := newTestEnv("boss@example.com")
	r := adminRouter(env)

	w := doJSON(t, r, http.MethodPost, "/admin/products", "", `{"name":"Course","price":"5,000","description":"d"}`)

	requireStatus(t, w, http.StatusUnauthorized)
}

func TestAdminRoutesRejectNonAdmin(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.verifier.allow("user-token", "u1", "jane@example.com", false)
	r := adminRouter(env)

	w := doJSON(t, r, http.MethodPost, "/admin/products", "user-token", `{"name":"Course","price":"5,000","description":"d"}`)

	requireStatus(t, w, http.StatusForbidden)
}

func TestCreateProductNormalizes(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.verifier.allow("admin-token", "admin-1", "boss@example.com", true)
	r := adminRouter(env)

	w := doJSON(t, r, http.MethodPost, "/admin/products", "admin-token",
		`{"name":"Prompt Engineering 101","price":"10,000","description":"Intro course"}`)

	requireStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)

	created, ok := body["product"].(map[string]any)
	if !ok {
		t.Fatalf("expected a product object, got %v", body)
	}

	if created["price"] != "₦10,000" {
		t.Fatalf("expected the currency prefix on the price, got %v", created["price"])
	}
	if created["image"] != product.PlaceholderImage {
		t.Fatalf("expected the placeholder image, got %v", created["image"])
	}
	if created["id"] == "" {
		t.Fatal("expected a store-assigned id")
	}

	// and it landed in the store
	list, err := env.products.ListNewestFirst(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "Prompt Engineering 101" {
		t.Fatalf("expected the product in the store, got %v", list)
	}
}

func TestDeleteProductDemandsConfirmation(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.verifier.allow("admin-token", "admin-1", "boss@example.com", true)
	seeded := env.seedProducts(t, "Course A")
	r := adminRouter(env)

	w := doJSON(t, r, http.MethodDelete, "/admin/products/"+seeded[0].ID, "admin-token", "")

	requireStatus(t, w, http.StatusBadRequest)

	list, err := env.products.ListNewestFirst(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatal("an unconfirmed delete must not touch the store")
	}
}

func TestDeleteProductConfirmed(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.verifier.allow("admin-token", "admin-1", "boss@example.com", true)
	seeded := env.seedProducts(t, "Course A", "Course B")
	r := adminRouter(env)

	w := doJSON(t, r, http.MethodDelete, "/admin/products/"+seeded[0].ID+"?confirm=true", "admin-token", "")

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if body["deleted"] != seeded[0].ID || body["localOnly"] != false {
		t.Fatalf("unexpected delete response: %v", body)
	}

	list, err := env.products.ListNewestFirst(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != seeded[1].ID {
		t.Fatalf("expected only the second product to remain, got %v", list)
	}
}

func TestDegradedAdminDeleteStaysLocal(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.verifier.allow("degraded-token", session.DegradedAdminID, "boss@example.com", true)
	seeded := env.seedProducts(t, "Course A")
	r := adminRouter(env)

	w := doJSON(t, r, http.MethodDelete, "/admin/products/"+seeded[0].ID+"?confirm=true", "degraded-token", "")

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if body["localOnly"] != true {
		t.Fatalf("expected a local-only delete for the degraded admin, got %v", body)
	}

	// the store keeps the row
	list, err := env.products.ListNewestFirst(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatal("a degraded-admin delete must never reach the store")
	}
}

func TestRestoreDefaults(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.verifier.allow("admin-token", "admin-1", "boss@example.com", true)
	r := adminRouter(env)

	w := doJSON(t, r, http.MethodPost, "/admin/products/restore?confirm=true", "admin-token", "")

	requireStatus(t, w, http.StatusOK)

	list, err := env.products.ListNewestFirst(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != len(product.Seed()) {
		t.Fatalf("expected the full seed set in the store, got %d products", len(list))
	}
}

func TestRestoreDefaultsDemandsConfirmation(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.verifier.allow("admin-token", "admin-1", "boss@example.com", true)
	r := adminRouter(env)

	w := doJSON(t, r, http.MethodPost, "/admin/products/restore", "admin-token", "")

	requireStatus(t, w, http.StatusBadRequest)
}

// End to end through real tokens: an admin granted by the profile flag (not
// the privileged address) must clear both the transport gate and the
// controller gate.
func TestProfileFlagAdminReachesAdminSurface(t *testing.T) {
	products := memory.NewProductsRepo()
	profiles := memory.NewProfilesRepo()
	enrollments := memory.NewEnrollmentsRepo()
	accounts := memory.NewAccountsRepo()

	manager := auth.NewManager("test-secret", 15*time.Minute, time.Hour)
	provider := authprovider.NewLocal(accounts, profiles, manager, nil, "boss@example.com", testLogger())

	policy := session.EmailAdminPolicy("boss@example.com")
	hub := storefront.NewHub(func() *storefront.Controller {
		return storefront.NewController(products, profiles, enrollments, policy, testLogger(), nil)
	}, testLogger())

	mw := middlewares.NewAuthMiddleware(manager)

	r := gin.New()
	h := handlers.NewAdminHandler(hub, nil)
	grp := r.Group("/admin", mw.RequireAuth(), mw.RequireAdmin())
	grp.POST("/products/restore", h.RestoreDefaults)

	ctx := context.Background()

	if _, err := provider.SignUp(ctx, authprovider.SignUpInput{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
		FullName: "Jane Doe",
	}); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	acct, err := accounts.GetByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}

	profiles.SetAdmin(acct.ID, true)

	tokens, err := provider.SignIn(ctx, "jane@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/admin/products/restore?confirm=true", tokens.Access, "")

	requireStatus(t, w, http.StatusOK)

	list, err := products.ListNewestFirst(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != len(product.Seed()) {
		t.Fatalf("expected the restore to reach the store, got %d products", len(list))
	}
}
