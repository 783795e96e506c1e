package ports

import "context"

// CredentialStore is the persistence contract the authentication protocol
// needs from a principal collection. Lookups return domain.ErrAccountNotFound
// when no record matches.
type CredentialStore[P any] interface {
	FindByEmail(ctx context.Context, email string) (P, error)
	FindByID(ctx context.Context, id string) (P, error)
	FindByRefreshToken(ctx context.Context, token string) (P, error)
	// SetRefreshToken overwrites the single refresh-token slot. A nil token
	// clears it.
	SetRefreshToken(ctx context.Context, id string, token *string) error
}

// AccountChanges lists the fields of an account update. Nil fields are left
// untouched.
type AccountChanges struct {
	FullName      *string
	ContactNumber *string
	EmailAddress  *string
	PasswordHash  *string
	UserImage     *string
}

// AccountRepository is the full CRUD contract for a principal collection.
type AccountRepository[P any] interface {
	CredentialStore[P]
	Create(ctx context.Context, principal P) (P, error)
	Update(ctx context.Context, id string, changes AccountChanges) (P, error)
	Delete(ctx context.Context, id string) error
	// Search matches term case-insensitively against name, contact number and
	// email, newest first. An empty term returns every record.
	Search(ctx context.Context, term string) ([]P, error)
	// EmailTaken reports whether another record (other than excludeID) already
	// uses email.
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}
