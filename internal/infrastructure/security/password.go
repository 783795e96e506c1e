package security

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is used when the configured cost is out of bcrypt's range.
const DefaultBcryptCost = bcrypt.DefaultCost

// BcryptHasher hashes passwords with bcrypt. Every hash carries its own salt,
// so hashing the same password twice yields different strings.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hash. Malformed hashes never match.
func (h *BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
