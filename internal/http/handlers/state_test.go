package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/http/handlers"
)

func stateRouter(env *testEnv) *gin.Engine {
	r := gin.New()

	h := handlers.NewStateHandler(env.hub)

	r.GET("/me/state", env.mw.OptionalAuth(), h.State)
	r.POST("/me/overlay", env.mw.OptionalAuth(), h.OpenOverlay)
	r.DELETE("/me/overlay", env.mw.OptionalAuth(), h.CloseOverlay)

	return r
}

func TestStateSnapshotShape(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.seedProducts(t, "Course A")
	env.verifier.allow("user-token", "u1", "jane@example.com", false)
	r := stateRouter(env)

	w := doJSON(t, r, http.MethodGet, "/me/state", "user-token", "")

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)

	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected a resolved user in the snapshot, got %v", body["user"])
	}
	if user["email"] != "jane@example.com" {
		t.Fatalf("unexpected user: %v", user)
	}

	catalog, ok := body["catalog"].([]any)
	if !ok || len(catalog) != 1 {
		t.Fatalf("expected one catalog entry, got %v", body["catalog"])
	}

	overlay, ok := body["overlay"].(map[string]any)
	if !ok || overlay["kind"] != "none" {
		t.Fatalf("expected no active overlay, got %v", body["overlay"])
	}
}

func TestOpenOverlayResolvesProduct(t *testing.T) {
	env := newTestEnv("boss@example.com")
	seeded := env.seedProducts(t, "Course A")
	env.verifier.allow("user-token", "u1", "jane@example.com", false)
	r := stateRouter(env)

	w := doJSON(t, r, http.MethodPost, "/me/overlay", "user-token",
		`{"kind":"details","productId":"`+seeded[0].ID+`"}`)

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)

	overlay, ok := body["overlay"].(map[string]any)
	if !ok || overlay["kind"] != "details" {
		t.Fatalf("unexpected overlay: %v", body)
	}

	prod, ok := overlay["product"].(map[string]any)
	if !ok || prod["id"] != seeded[0].ID {
		t.Fatalf("expected the product attached to the overlay, got %v", overlay)
	}
}

func TestOpenOverlayUnknownProductIsNoOp(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.seedProducts(t, "Course A")
	env.verifier.allow("user-token", "u1", "jane@example.com", false)
	r := stateRouter(env)

	w := doJSON(t, r, http.MethodPost, "/me/overlay", "user-token",
		`{"kind":"payment","productId":"no-such-id"}`)

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)

	overlay, ok := body["overlay"].(map[string]any)
	if !ok || overlay["kind"] != "none" {
		t.Fatalf("an unknown product id must leave the overlay untouched, got %v", body)
	}
}

func TestOpenOverlayRejectsUnknownKind(t *testing.T) {
	env := newTestEnv("boss@example.com")
	r := stateRouter(env)

	w := doJSON(t, r, http.MethodPost, "/me/overlay", "", `{"kind":"jukebox"}`)

	requireStatus(t, w, http.StatusBadRequest)
}

func TestCloseOverlay(t *testing.T) {
	env := newTestEnv("boss@example.com")
	env.verifier.allow("user-token", "u1", "jane@example.com", false)
	r := stateRouter(env)

	if w := doJSON(t, r, http.MethodPost, "/me/overlay", "user-token", `{"kind":"auth"}`); w.Code != http.StatusOK {
		t.Fatalf("open overlay failed: %d %s", w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodDelete, "/me/overlay", "user-token", "")

	requireStatus(t, w, http.StatusNoContent)

	w = doJSON(t, r, http.MethodGet, "/me/state", "user-token", "")

	body := decodeBody(t, w)
	overlay, _ := body["overlay"].(map[string]any)
	if overlay["kind"] != "none" {
		t.Fatalf("expected the overlay cleared, got %v", body["overlay"])
	}
}
