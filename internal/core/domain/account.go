package domain

import (
	"strings"
	"time"
)

// MinPasswordLength is the shortest plaintext password accepted on
// registration or password change.
const MinPasswordLength = 6

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

// Account is the record shape shared by every principal type. The password
// hash and refresh token never leave the service layer.
type Account struct {
	ID            string
	FullName      string
	ContactNumber string
	EmailAddress  string
	PasswordHash  string
	UserImage     *string
	RefreshToken  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeEmail returns the canonical login key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PrincipalKind binds a concrete principal type to the shared account shape
// and to the role it is granted when it authenticates.
type PrincipalKind[P any] struct {
	Role Role
	// Folder is the image storage folder for profile pictures.
	Folder  string
	New     func(Account) P
	Account func(P) *Account
	Claim   func(P) RoleClaim
}
