package jobs

import "strings"

// ValidatePayload performs minimal validation on decoded payloads.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	trim := func(s string) string { return strings.TrimSpace(s) }

	switch t {
	case JobSendCheckoutNotice:
		var p CheckoutNoticePayload
		switch v := payload.(type) {
		case CheckoutNoticePayload:
			p = v
		case *CheckoutNoticePayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.UserID) == "" || trim(p.ProductID) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	case JobReconcileEnrollment:
		var p ReconcileEnrollmentPayload
		switch v := payload.(type) {
		case ReconcileEnrollmentPayload:
			p = v
		case *ReconcileEnrollmentPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.UserID) == "" || trim(p.ProductID) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}
