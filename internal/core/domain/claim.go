package domain

// Role is the privilege level carried by a token.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// RoleClaim is the payload embedded in access and refresh tokens. It is built
// from the authenticated record at mint time and never taken from input.
type RoleClaim struct {
	ID    string
	Email string
	Role  Role
}
