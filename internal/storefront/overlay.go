package storefront

import (
	"errors"

	"github.com/olamidek/coursehub/internal/domain/product"
)

// OverlayKind names the modal surfaces. Exactly one overlay may be active at a
// time; the tagged Overlay value makes that exclusivity structural rather than
// a convention over independent flags.
type OverlayKind string

const (
	OverlayNone       OverlayKind = "none"
	OverlayAuth       OverlayKind = "auth"
	OverlayProfile    OverlayKind = "profile"
	OverlayAddProduct OverlayKind = "addProduct"
	OverlayPayment    OverlayKind = "payment"
	OverlayDetails    OverlayKind = "details"
	OverlayViewer     OverlayKind = "viewer"
)

var ErrUnknownOverlay = errors.New("unknown overlay kind")

// Overlay is the single active-overlay slot. Product is set only for the
// product-scoped kinds (payment, details, viewer).
type Overlay struct {
	Kind    OverlayKind      `json:"kind"`
	Product *product.Product `json:"product,omitempty"`
}

func NoOverlay() Overlay {
	return Overlay{Kind: OverlayNone}
}

func (k OverlayKind) valid() bool {
	switch k {
	case OverlayNone, OverlayAuth, OverlayProfile, OverlayAddProduct,
		OverlayPayment, OverlayDetails, OverlayViewer:
		return true
	default:
		return false
	}
}

func (k OverlayKind) needsProduct() bool {
	switch k {
	case OverlayPayment, OverlayDetails, OverlayViewer:
		return true
	default:
		return false
	}
}
