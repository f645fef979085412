package jobs

import "time"

// CheckoutNoticePayload carries everything the worker needs to hand the
// purchase off to the sales channel. Keep it minimal and ID-based; the worker
// loads display details itself.
type CheckoutNoticePayload struct {
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Price       string    `json:"price"`
	RequestedAt time.Time `json:"requestedAt"`
	RequestID   string    `json:"requestId,omitempty"` // optional: correlation
}

// ReconcileEnrollmentPayload retries an enrollment insert that failed while
// the purchase was granted optimistically.
type ReconcileEnrollmentPayload struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}
