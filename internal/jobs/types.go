package jobs

type JobType string

const (
	JobSendCheckoutNotice JobType = "send_checkout_notice"

	// JobReconcileEnrollment re-checks an enrollment that failed its
	// write-behind insert.
	JobReconcileEnrollment JobType = "reconcile_enrollment"
)

// check that the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobSendCheckoutNotice, JobReconcileEnrollment:
		return true
	default:
		return false
	}
}
