package ports

import (
	"context"
)

// LoginResult is returned by a successful login.
type LoginResult[P any] struct {
	AccessToken  string
	RefreshToken string
	Principal    P
}

// AuthService runs the login / refresh / logout protocol for one principal type.
type AuthService[P any] interface {
	Login(ctx context.Context, email, password string) (*LoginResult[P], error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}
