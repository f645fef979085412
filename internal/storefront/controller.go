package storefront

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/olamidek/coursehub/internal/authprovider"
	"github.com/olamidek/coursehub/internal/domain/product"
	"github.com/olamidek/coursehub/internal/domain/profile"
	"github.com/olamidek/coursehub/internal/domain/session"
	"github.com/olamidek/coursehub/internal/observability"
)

var (
	ErrAuthRequired         = errors.New("sign in to continue")
	ErrAdminRequired        = errors.New("admin role required")
	ErrConfirmationRequired = errors.New("confirmation required")
)

type ProductStore interface {
	ListNewestFirst(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, req product.CreateProductRequest) (product.Product, error)
	Delete(ctx context.Context, id string) error
	BulkInsert(ctx context.Context, products []product.Product) error
}

type ProfileStore interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Update(ctx context.Context, id, fullName, phone string) error
}

type EnrollmentStore interface {
	ListProductIDs(ctx context.Context, userID string) ([]string, error)
	Create(ctx context.Context, userID, productID string) error
}

// Controller is the session & catalog state synchronizer: it owns the resolved
// User, the catalog, and the active overlay, and reconciles them against the
// remote store. All mutation goes through its coordinator methods; everything
// else gets read-only snapshots and signals intent upward.
type Controller struct {
	products    ProductStore
	profiles    ProfileStore
	enrollments EnrollmentStore
	policy      session.AdminPolicy
	log         *slog.Logger
	prom        *observability.Prom

	mu      sync.Mutex
	user    *session.User
	catalog []product.Product
	overlay Overlay
}

func NewController(products ProductStore, profiles ProfileStore, enrollments EnrollmentStore, policy session.AdminPolicy, log *slog.Logger, prom *observability.Prom) *Controller {
	return &Controller{
		products:    products,
		profiles:    profiles,
		enrollments: enrollments,
		policy:      policy,
		log:         log,
		prom:        prom,
		overlay:     NoOverlay(),
	}
}

// Snapshot is the read-only view handed to presentational collaborators.
type Snapshot struct {
	User    *session.User     `json:"user"`
	Catalog []product.Product `json:"catalog"`
	Overlay Overlay           `json:"overlay"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		User:    c.userCopyLocked(),
		Catalog: append([]product.Product(nil), c.catalog...),
		Overlay: c.overlay,
	}
}

func (c *Controller) User() *session.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userCopyLocked()
}

func (c *Controller) Catalog() []product.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]product.Product(nil), c.catalog...)
}

// LoadCatalog fetches all products, newest first. Any transport or query error
// substitutes the built-in seed set (never an empty list) and is logged only.
// A successful empty response is respected as "no products available" — it
// must NOT trigger the fallback.
func (c *Controller) LoadCatalog(ctx context.Context) {
	fetched, err := c.products.ListNewestFirst(ctx)

	if err != nil {
		c.log.Warn("catalog fetch failed, using seed defaults", "err", err)

		if c.prom != nil {
			c.prom.CatalogFallbacks.Inc()
		}

		c.mu.Lock()
		c.catalog = product.Seed()
		c.mu.Unlock()
		return
	}

	if fetched == nil {
		fetched = []product.Product{}
	}

	c.mu.Lock()
	c.catalog = fetched
	c.mu.Unlock()
}

// ResolveSession builds the User for an authenticated identity: profile row
// (a missing row is "no profile yet", not an error) combined with the
// enrollment set. The User is replaced wholesale; on failure the previously
// held value is left untouched.
func (c *Controller) ResolveSession(ctx context.Context, userID, email string) {
	prof, err := c.profiles.GetByID(ctx, userID)

	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		c.log.Error("error building user profile", "user_id", userID, "err", err)
		return
	}

	enrolled, err := c.enrollments.ListProductIDs(ctx, userID)

	if err != nil {
		c.log.Error("error fetching enrollments", "user_id", userID, "err", err)
		return
	}

	name := prof.FullName
	if name == "" {
		name = session.NameFromEmail(email)
	}

	u := &session.User{
		ID:              userID,
		Email:           email,
		Name:            name,
		Phone:           prof.Phone,
		EnrolledCourses: enrolled,
		IsAdmin:         prof.IsAdmin || c.policy(email),
	}

	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}

// UseDegradedAdmin installs the fixed local administrator identity without
// contacting the store.
func (c *Controller) UseDegradedAdmin(email string) {
	c.mu.Lock()
	c.user = session.NewDegradedAdmin(email)
	c.mu.Unlock()
}

// HandleTransition reacts to an auth-provider session change. Each signed-in
// transition re-resolves the User from scratch; a signed-out transition clears
// it unless the held identity is the degraded admin, which survives provider
// noise.
func (c *Controller) HandleTransition(ctx context.Context, t authprovider.Transition) {
	switch t.Event {
	case authprovider.SignedIn:
		if t.Session == nil {
			return
		}

		if t.Session.Degraded {
			c.UseDegradedAdmin(t.Session.Email)
			return
		}

		c.ResolveSession(ctx, t.Session.UserID, t.Session.Email)

	case authprovider.SignedOut:
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.user.IsDegraded() {
			return
		}

		c.user = nil
		c.overlay = NoOverlay()
	}
}

// PurchaseOutcome reports how far an optimistic purchase made it past the
// session.
type PurchaseOutcome string

const (
	PurchasePersisted    PurchaseOutcome = "persisted"
	PurchaseSessionOnly  PurchaseOutcome = "session_only"
	PurchaseInsertFailed PurchaseOutcome = "insert_failed"
)

// ConfirmPurchase optimistically grants the enrollment and publishes the
// updated User before the remote insert. Insert failures are logged, never
// rolled back: the optimistic state is authoritative for this session, and
// the caller can queue a reconcile from the returned outcome. The degraded
// admin identity is session-only and skips the insert entirely.
func (c *Controller) ConfirmPurchase(ctx context.Context, productID string) (*session.User, PurchaseOutcome, error) {
	c.mu.Lock()

	if c.user == nil {
		c.mu.Unlock()
		return nil, "", ErrAuthRequired
	}

	u := *c.user
	u.EnrolledCourses = append(append([]string(nil), u.EnrolledCourses...), productID)
	c.user = &u

	updated := c.userCopyLocked()
	degraded := u.IsDegraded()
	userID := u.ID
	c.mu.Unlock()

	outcome := PurchasePersisted

	if degraded {
		outcome = PurchaseSessionOnly
	} else if err := c.enrollments.Create(ctx, userID, productID); err != nil {
		c.log.Error("error saving enrollment", "user_id", userID, "product_id", productID, "err", err)
		outcome = PurchaseInsertFailed
	}

	if c.prom != nil {
		c.prom.PurchasesTotal.WithLabelValues(string(outcome)).Inc()
	}

	return updated, outcome, nil
}

// AddProduct inserts a product and prepends the persisted record (with its
// store-assigned id) to the catalog. Admin only; errors are loud.
func (c *Controller) AddProduct(ctx context.Context, req product.CreateProductRequest) (product.Product, error) {
	if !c.isAdmin() {
		return product.Product{}, ErrAdminRequired
	}

	req.Normalize()

	created, err := c.products.Create(ctx, req)

	if err != nil {
		return product.Product{}, err
	}

	c.mu.Lock()
	c.catalog = append([]product.Product{created}, c.catalog...)
	c.mu.Unlock()

	return created, nil
}

// DeleteProduct removes optimistically, then deletes remotely. On remote
// failure the catalog is resynchronized with a full reload — not a local
// re-insert — so it matches whatever the store actually holds. The degraded
// admin skips the remote delete; localOnly reports that to the caller.
func (c *Controller) DeleteProduct(ctx context.Context, productID string, confirmed bool) (localOnly bool, err error) {
	if !c.isAdmin() {
		return false, ErrAdminRequired
	}

	if !confirmed {
		return false, ErrConfirmationRequired
	}

	c.mu.Lock()
	kept := make([]product.Product, 0, len(c.catalog))
	for _, p := range c.catalog {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	c.catalog = kept
	degraded := c.user.IsDegraded()
	c.mu.Unlock()

	if degraded {
		c.log.Info("product deleted locally only (degraded admin)", "product_id", productID)
		return true, nil
	}

	if err := c.products.Delete(ctx, productID); err != nil {
		c.log.Error("error deleting product", "product_id", productID, "err", err)
		c.LoadCatalog(ctx)
		return false, err
	}

	return false, nil
}

// RestoreDefaults bulk-inserts the seed set with ids stripped so the store
// assigns fresh ones, then resynchronizes. On failure the catalog is left
// untouched.
func (c *Controller) RestoreDefaults(ctx context.Context, confirmed bool) error {
	if !c.isAdmin() {
		return ErrAdminRequired
	}

	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := c.products.BulkInsert(ctx, product.SeedForInsert()); err != nil {
		c.log.Error("error restoring defaults", "err", err)
		return err
	}

	c.LoadCatalog(ctx)
	return nil
}

// UpdateProfile persists the edit and republishes the User wholesale.
func (c *Controller) UpdateProfile(ctx context.Context, fullName, phone string) (*session.User, error) {
	c.mu.Lock()

	if c.user == nil {
		c.mu.Unlock()
		return nil, ErrAuthRequired
	}

	userID := c.user.ID
	degraded := c.user.IsDegraded()
	c.mu.Unlock()

	// the degraded admin has no profile row and never writes one
	if !degraded {
		if err := c.profiles.Update(ctx, userID, fullName, phone); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil || c.user.ID != userID {
		return c.userCopyLocked(), nil
	}

	u := *c.user
	u.Name = fullName
	u.Phone = phone
	c.user = &u

	return c.userCopyLocked(), nil
}

// OpenOverlay activates a modal surface. Product-scoped kinds resolve the id
// against the current catalog; an unknown id is a silent no-op, leaving the
// overlay unchanged.
func (c *Controller) OpenOverlay(kind OverlayKind, productID string) error {
	if !kind.valid() || kind == OverlayNone {
		return ErrUnknownOverlay
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !kind.needsProduct() {
		c.overlay = Overlay{Kind: kind}
		return nil
	}

	for i := range c.catalog {
		if c.catalog[i].ID == productID {
			p := c.catalog[i]
			c.overlay = Overlay{Kind: kind, Product: &p}
			return nil
		}
	}

	return nil
}

// OpenCourse opens the course viewer for a product value directly, bypassing
// catalog resolution.
func (c *Controller) OpenCourse(p product.Product) {
	c.mu.Lock()
	c.overlay = Overlay{Kind: OverlayViewer, Product: &p}
	c.mu.Unlock()
}

// CloseOverlay always resets to none; slots have no memory.
func (c *Controller) CloseOverlay() {
	c.mu.Lock()
	c.overlay = NoOverlay()
	c.mu.Unlock()
}

func (c *Controller) ActiveOverlay() Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}

func (c *Controller) isAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil && c.user.IsAdmin
}

func (c *Controller) userCopyLocked() *session.User {
	if c.user == nil {
		return nil
	}

	u := *c.user
	u.EnrolledCourses = append([]string(nil), u.EnrolledCourses...)
	return &u
}
