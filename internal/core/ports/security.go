package ports

import "github.com/eventhall/booking-api/internal/core/domain"

// PasswordHasher hashes and verifies passwords with a per-call salt.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenVerifier decodes access tokens on protected requests.
type TokenVerifier interface {
	VerifyAccess(token string) (domain.RoleClaim, error)
}

// TokenCodec signs and verifies access and refresh tokens. Verification fails
// with domain.ErrInvalidOrExpiredToken or domain.ErrMalformedToken.
type TokenCodec interface {
	TokenVerifier
	SignAccess(claim domain.RoleClaim) (string, error)
	SignRefresh(claim domain.RoleClaim) (string, error)
	VerifyRefresh(token string) (domain.RoleClaim, error)
}

// ImageStore persists base64 data-URI images and returns their public path.
type ImageStore interface {
	Save(encoded, folder string) (string, error)
	Delete(path string) error
}
