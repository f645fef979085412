package jobs

import (
	"encoding/json"
	"fmt"
)

func EncodePayload(t JobType, payload any) ([]byte, error) {
	if !t.IsValid() {
		return nil, ErrInvalidJobType
	}

	switch t {
	case JobSendCheckoutNotice:
		switch payload.(type) {
		case CheckoutNoticePayload, *CheckoutNoticePayload:
		default:
			return nil, ErrPayloadTypeMismatch
		}

	case JobReconcileEnrollment:
		switch payload.(type) {
		case ReconcileEnrollmentPayload, *ReconcileEnrollmentPayload:
		default:
			return nil, ErrPayloadTypeMismatch
		}
	}

	b, err := json.Marshal(payload)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	return b, nil
}

// DecodePayload unmarshals job.Payload into the correct typed payload struct.
func DecodePayload(j Job) (any, error) {
	if !j.Type.IsValid() {
		return nil, ErrInvalidJobType
	}
	if len(j.Payload) == 0 {
		return nil, ErrInvalidJobPayload
	}

	switch j.Type {
	case JobSendCheckoutNotice:
		var p CheckoutNoticePayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		return p, nil

	case JobReconcileEnrollment:
		var p ReconcileEnrollmentPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		return p, nil

	default:
		return nil, ErrInvalidJobType
	}
}
