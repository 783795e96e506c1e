package domain

import "time"

const (
	DefaultOccupation         = "Administrator"
	DefaultReleaseDescription = "Admin account deleted"
)

// EmployeeHistory is the audit snapshot written when an Admin is removed.
// AdminID is informational only; the Admin record no longer exists.
type EmployeeHistory struct {
	ID             string
	FullName       string
	ContactNumber  string
	EmailAddress   string
	UserImage      *string
	RegisteredDate time.Time
	ReleaseDate    time.Time
	Occupation     string
	Description    string
	AdminID        string
	CreatedAt      time.Time
}
