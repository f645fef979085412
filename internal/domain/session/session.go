package session

import "strings"

// DegradedAdminID is the identity sentinel for the locally synthesized admin
// session used when the auth provider is unreachable. Nothing is persisted
// remotely for this identity.
const DegradedAdminID = "admin-local"

// User is the resolved session identity: auth identity combined with the
// profile row and the enrollment set. Rebuilt wholesale on every auth
// transition, never patched in place.
type User struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	Phone           string   `json:"phone,omitempty"`
	EnrolledCourses []string `json:"enrolledCourses"`
	IsAdmin         bool     `json:"isAdmin"`
}

func (u *User) IsDegraded() bool {
	return u != nil && u.ID == DegradedAdminID
}

func (u *User) Enrolled(productID string) bool {
	if u == nil {
		return false
	}

	for _, id := range u.EnrolledCourses {
		if id == productID {
			return true
		}
	}

	return false
}

// AdminPolicy decides whether an identity holds the admin flag. The admin flag
// is derivable ONLY from the persisted profile flag or this predicate.
type AdminPolicy func(email string) bool

// EmailAdminPolicy grants admin to exactly one privileged address. An empty
// address grants nobody.
func EmailAdminPolicy(adminEmail string) AdminPolicy {
	return func(email string) bool {
		return adminEmail != "" && email == adminEmail
	}
}

// NameFromEmail falls back to the local part of the email when the profile has
// no display name.
func NameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}

	return email[:at]
}

// NewDegradedAdmin synthesizes the fixed administrator identity used by the
// degraded auth path. Enrollments for this user stay session-only.
func NewDegradedAdmin(email string) *User {
	return &User{
		ID:              DegradedAdminID,
		Email:           email,
		Name:            "Admin",
		EnrolledCourses: []string{},
		IsAdmin:         true,
	}
}
