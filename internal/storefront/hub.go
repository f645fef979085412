package storefront

import (
	"context"
	"log/slog"
	"sync"

	"github.com/olamidek/coursehub/internal/authprovider"
	"github.com/olamidek/coursehub/internal/domain/session"
)

// Hub owns one Controller per signed-in identity plus a shared anonymous one
// for callers browsing without a session. It subscribes to the auth provider
// and routes transitions to the controller they belong to.
type Hub struct {
	factory func() *Controller
	log     *slog.Logger

	mu          sync.Mutex
	controllers map[string]*Controller
	anon        *Controller
}

func NewHub(factory func() *Controller, log *slog.Logger) *Hub {
	return &Hub{
		factory:     factory,
		log:         log,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the controller for a user id, creating it (with a fresh catalog
// load) on first use.
func (h *Hub) Get(ctx context.Context, userID string) *Controller {
	h.mu.Lock()

	c, ok := h.controllers[userID]
	if !ok {
		c = h.factory()
		h.controllers[userID] = c
	}

	h.mu.Unlock()

	if !ok {
		c.LoadCatalog(ctx)
	}

	return c
}

// Anonymous returns the shared controller for unauthenticated callers.
func (h *Hub) Anonymous(ctx context.Context) *Controller {
	h.mu.Lock()

	created := h.anon == nil
	if created {
		h.anon = h.factory()
	}
	c := h.anon

	h.mu.Unlock()

	if created {
		c.LoadCatalog(ctx)
	}

	return c
}

// Drop discards the controller for a user id. The next Get starts fresh.
func (h *Hub) Drop(userID string) {
	h.mu.Lock()
	delete(h.controllers, userID)
	h.mu.Unlock()
}

// Attach subscribes the hub to provider transitions. The returned function
// unsubscribes.
func (h *Hub) Attach(p authprovider.Provider) (unsubscribe func()) {
	return p.Subscribe(func(t authprovider.Transition) {
		h.route(context.Background(), t)
	})
}

func (h *Hub) route(ctx context.Context, t authprovider.Transition) {
	switch t.Event {
	case authprovider.SignedIn:
		if t.Session == nil {
			return
		}

		key := t.Session.UserID
		if t.Session.Degraded {
			key = session.DegradedAdminID
		}

		h.Get(ctx, key).HandleTransition(ctx, t)

	case authprovider.SignedOut:
		if t.Session == nil {
			// unattributable sign-out: let every controller decide
			h.mu.Lock()
			all := make([]*Controller, 0, len(h.controllers))
			for _, c := range h.controllers {
				all = append(all, c)
			}
			h.mu.Unlock()

			for _, c := range all {
				c.HandleTransition(ctx, t)
			}
			return
		}

		h.mu.Lock()
		c, ok := h.controllers[t.Session.UserID]
		h.mu.Unlock()

		if ok {
			c.HandleTransition(ctx, t)
		}
	}
}
