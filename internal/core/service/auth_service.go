package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

// AuthService implements login, refresh and logout for one principal type.
// The same implementation serves Admin and User; kind supplies the field
// accessors and the claim builder, store supplies persistence.
type AuthService[P any] struct {
	kind   domain.PrincipalKind[P]
	store  ports.CredentialStore[P]
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	log    zerolog.Logger
}

func NewAuthService[P any](
	kind domain.PrincipalKind[P],
	store ports.CredentialStore[P],
	hasher ports.PasswordHasher,
	tokens ports.TokenCodec,
	log zerolog.Logger,
) *AuthService[P] {
	return &AuthService[P]{
		kind:   kind,
		store:  store,
		hasher: hasher,
		tokens: tokens,
		log:    log.With().Str("role", string(kind.Role)).Logger(),
	}
}

// Login verifies the credentials, mints an access/refresh pair and stores the
// refresh token on the record, replacing whatever was there. Concurrent logins
// for the same principal race on that write; the last one wins.
func (s *AuthService[P]) Login(ctx context.Context, email, password string) (*ports.LoginResult[P], error) {
	principal, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	account := s.kind.Account(principal)
	if !s.hasher.Verify(password, account.PasswordHash) {
		s.log.Info().Str("account_id", account.ID).Msg("login rejected: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	claim := s.kind.Claim(principal)
	accessToken, err := s.tokens.SignAccess(claim)
	if err != nil {
		return nil, fmt.Errorf("login: sign access token: %w", err)
	}
	refreshToken, err := s.tokens.SignRefresh(claim)
	if err != nil {
		return nil, fmt.Errorf("login: sign refresh token: %w", err)
	}

	if err := s.store.SetRefreshToken(ctx, account.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("login: store refresh token: %w", err)
	}
	account.RefreshToken = &refreshToken

	s.log.Info().Str("account_id", account.ID).Msg("login succeeded")

	return &ports.LoginResult[P]{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Principal:    principal,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The token must
// verify and must also be the value currently stored on the record, so a
// token superseded by a later login or cleared by logout is rejected even
// while unexpired. The refresh token itself is not rotated.
func (s *AuthService[P]) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", domain.ErrMissingRefreshToken
	}

	claim, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh rejected: token verification failed")
		return "", domain.ErrInvalidRefreshToken
	}
	if claim.Role != s.kind.Role {
		return "", domain.ErrInvalidRefreshToken
	}

	principal, err := s.store.FindByID(ctx, claim.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("refresh: %w", err)
	}

	stored := s.kind.Account(principal).RefreshToken
	if stored == nil || subtle.ConstantTimeCompare([]byte(*stored), []byte(refreshToken)) != 1 {
		s.log.Info().Str("account_id", claim.ID).Msg("refresh rejected: token superseded")
		return "", domain.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.SignAccess(s.kind.Claim(principal))
	if err != nil {
		return "", fmt.Errorf("refresh: sign access token: %w", err)
	}
	return accessToken, nil
}

// Logout clears the stored refresh token. The token is matched by value and
// not decoded, so an expired token that is still stored can be logged out.
// Logging out a token that is no longer stored is a no-op.
func (s *AuthService[P]) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return domain.ErrMissingRefreshToken
	}

	principal, err := s.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("logout: %w", err)
	}

	account := s.kind.Account(principal)
	if err := s.store.SetRefreshToken(ctx, account.ID, nil); err != nil {
		return fmt.Errorf("logout: clear refresh token: %w", err)
	}
	account.RefreshToken = nil

	s.log.Info().Str("account_id", account.ID).Msg("logout succeeded")
	return nil
}
