package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/http/handlers"
	"github.com/olamidek/coursehub/internal/jobs"
	"github.com/olamidek/coursehub/internal/storefront"
	"github.com/olamidek/coursehub/internal/whatsapp"
)

type fakeEnqueuer struct {
	got []jobs.JobType
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, t jobs.JobType, payload any) (jobs.Job, error) {
	f.got = append(f.got, t)
	return jobs.Job{ID: "job-1", Type: t}, nil
}

func purchaseRouter(env *testEnv, notices handlers.NoticeEnqueuer) *gin.Engine {
	r := gin.New()

	h := handlers.NewPurchaseHandler(env.hub, notices, whatsapp.NewBuilder("2348000000000"), testLogger())

	r.POST("/purchases", env.mw.OptionalAuth(), h.Confirm)
	r.GET("/me/state", env.mw.OptionalAuth(), handlers.NewStateHandler(env.hub).State)

	return r
}

func TestPurchaseRequiresSessionAndOpensAuthOverlay(t *testing.T) {
	env := newTestEnv("")
	seeded := env.seedProducts(t, "AI Course Bundle")

	r := purchaseRouter(env, nil)

	w := doJSON(t, r, http.MethodPost, "/purchases", "", `{"productId":"`+seeded[0].ID+`"}`)

	requireStatus(t, w, http.StatusUnauthorized)

	// the anonymous view now shows the auth overlay
	ov := env.hub.Anonymous(context.Background()).ActiveOverlay()

	if ov.Kind != storefront.OverlayAuth {
		t.Fatalf("expected the auth overlay after an unauthenticated purchase, got %q", ov.Kind)
	}
}

func TestPurchaseGrantsEnrollmentAndReturnsLink(t *testing.T) {
	env := newTestEnv("")
	seeded := env.seedProducts(t, "AI Course Bundle")

	env.verifier.allow("tok", "u1", "jane@example.com", false)

	notices := &fakeEnqueuer{}
	r := purchaseRouter(env, notices)

	w := doJSON(t, r, http.MethodPost, "/purchases", "tok", `{"productId":"`+seeded[0].ID+`"}`)

	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)

	link, _ := body["whatsappLink"].(string)

	if !strings.HasPrefix(link, "https://wa.me/2348000000000?text=") {
		t.Fatalf("expected a wa.me payment link, got %q", link)
	}

	// remote write-behind landed
	enrolled, err := env.enrollments.ListProductIDs(context.Background(), "u1")

	if err != nil || len(enrolled) != 1 || enrolled[0] != seeded[0].ID {
		t.Fatalf("expected the enrollment persisted, got %v (%v)", enrolled, err)
	}

	if len(notices.got) != 1 || notices.got[0] != jobs.JobSendCheckoutNotice {
		t.Fatalf("expected one checkout notice job, got %v", notices.got)
	}
}

func TestPurchaseUnknownProduct(t *testing.T) {
	env := newTestEnv("")
	env.seedProducts(t, "AI Course Bundle")

	env.verifier.allow("tok", "u1", "jane@example.com", false)

	r := purchaseRouter(env, nil)

	w := doJSON(t, r, http.MethodPost, "/purchases", "tok", `{"productId":"missing"}`)

	requireStatus(t, w, http.StatusNotFound)
}

func TestPurchaseSurvivesMissingQueue(t *testing.T) {
	env := newTestEnv("")
	seeded := env.seedProducts(t, "AI Course Bundle")

	env.verifier.allow("tok", "u1", "jane@example.com", false)

	r := purchaseRouter(env, nil) // no queue wired

	w := doJSON(t, r, http.MethodPost, "/purchases", "tok", `{"productId":"`+seeded[0].ID+`"}`)

	requireStatus(t, w, http.StatusOK)
}
