package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eventhall/booking-api/internal/core/domain"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenConfig holds the signing material for both token classes. The two
// secrets must differ.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type tokenClaims struct {
	PrincipalID string      `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type signer struct {
	secret []byte
	ttl    time.Duration
}

// JWTCodec signs and verifies HS256 access and refresh tokens with
// independent secrets and lifetimes.
type JWTCodec struct {
	access  signer
	refresh signer
	now     func() time.Time
}

func NewJWTCodec(cfg TokenConfig) (*JWTCodec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token codec: both secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("token codec: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &JWTCodec{
		access:  signer{secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
		refresh: signer{secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		now:     time.Now,
	}, nil
}

func (c *JWTCodec) SignAccess(claim domain.RoleClaim) (string, error) {
	return c.sign(c.access, claim)
}

func (c *JWTCodec) SignRefresh(claim domain.RoleClaim) (string, error) {
	return c.sign(c.refresh, claim)
}

func (c *JWTCodec) VerifyAccess(token string) (domain.RoleClaim, error) {
	return c.verify(c.access, token)
}

func (c *JWTCodec) VerifyRefresh(token string) (domain.RoleClaim, error) {
	return c.verify(c.refresh, token)
}

func (c *JWTCodec) sign(s signer, claim domain.RoleClaim) (string, error) {
	if claim.ID == "" || !claim.Role.Valid() {
		return "", fmt.Errorf("sign token: incomplete claim for %q", claim.ID)
	}

	now := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		PrincipalID: claim.ID,
		Email:       claim.Email,
		Role:        claim.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claim.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return t.SignedString(s.secret)
}

// verify maps every jwt failure onto two outcomes: the token could not be
// decoded at all (ErrMalformedToken), or it decoded but is not acceptable
// (ErrInvalidOrExpiredToken).
func (c *JWTCodec) verify(s signer, token string) (domain.RoleClaim, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	var claims tokenClaims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return domain.RoleClaim{}, domain.ErrMalformedToken
		}
		return domain.RoleClaim{}, domain.ErrInvalidOrExpiredToken
	}
	if !parsed.Valid || claims.PrincipalID == "" || !claims.Role.Valid() {
		return domain.RoleClaim{}, domain.ErrInvalidOrExpiredToken
	}

	return domain.RoleClaim{
		ID:    claims.PrincipalID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
