package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

type stubAuthService[P any] struct {
	loginFn   func(ctx context.Context, email, password string) (*ports.LoginResult[P], error)
	refreshFn func(ctx context.Context, token string) (string, error)
	logoutFn  func(ctx context.Context, token string) error
}

func (s *stubAuthService[P]) Login(ctx context.Context, email, password string) (*ports.LoginResult[P], error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService[P]) Refresh(ctx context.Context, token string) (string, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService[P]) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService[*domain.Admin]{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult[*domain.Admin], error) {
			if email != "admin@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult[*domain.Admin]{
				AccessToken:  "access",
				RefreshToken: "refresh",
				Principal: &domain.Admin{Account: domain.Account{
					ID: "admin-1", FullName: "Grace", EmailAddress: email,
					PasswordHash: "hash", RefreshToken: strPtr("refresh"),
				}},
			}, nil
		},
	}
	h := NewAuthHandler[*domain.Admin](stub, domain.AdminKind, "administrator")

	rec, err := call(t, h.Login, http.MethodPost, "/admin/login", `{"email_address":"admin@example.com","password":"secret1"}`, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["accessToken"] != "access" || resp["refreshToken"] != "refresh" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	admin, ok := resp["administrator"].(map[string]any)
	if !ok || admin["id"] != "admin-1" || admin["full_name"] != "Grace" {
		t.Fatalf("unexpected administrator payload: %+v", resp["administrator"])
	}
	if _, leaked := admin["password"]; leaked {
		t.Fatalf("password hash must not be rendered")
	}
	if _, leaked := admin["refresh_token"]; leaked {
		t.Fatalf("refresh token must not be rendered in the view")
	}
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	stub := &stubAuthService[*domain.User]{
		loginFn: func(context.Context, string, string) (*ports.LoginResult[*domain.User], error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler[*domain.User](stub, domain.UserKind, "user")

	for _, body := range []string{`{"email_address":"  ","password":"secret1"}`, `{"email_address":"a@b.c"}`} {
		_, err := call(t, h.Login, http.MethodPost, "/user/login", body, "")
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	h := NewAuthHandler[*domain.User](&stubAuthService[*domain.User]{}, domain.UserKind, "user")

	_, err := call(t, h.Login, http.MethodPost, "/user/login", "{", "")
	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Login_PropagatesDomainErrors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrAccountNotFound} {
		stub := &stubAuthService[*domain.User]{
			loginFn: func(context.Context, string, string) (*ports.LoginResult[*domain.User], error) {
				return nil, want
			},
		}
		h := NewAuthHandler[*domain.User](stub, domain.UserKind, "user")

		_, err := call(t, h.Login, http.MethodPost, "/user/login", `{"email_address":"a@b.c","password":"x"}`, "")
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	stub := &stubAuthService[*domain.User]{
		refreshFn: func(_ context.Context, token string) (string, error) {
			if token != "refresh" {
				return "", domain.ErrInvalidRefreshToken
			}
			return "new-access", nil
		},
	}
	h := NewAuthHandler[*domain.User](stub, domain.UserKind, "user")

	rec, err := call(t, h.RefreshToken, http.MethodPost, "/user/refresh-token", `{"refreshToken":" refresh "}`, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decode(t, rec); resp["accessToken"] != "new-access" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if _, present := decode(t, rec)["refreshToken"]; present {
		t.Fatalf("refresh must not rotate the refresh token")
	}

	_, err = call(t, h.RefreshToken, http.MethodPost, "/user/refresh-token", `{"refreshToken":"stale"}`, "")
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var got string
	stub := &stubAuthService[*domain.Admin]{
		logoutFn: func(_ context.Context, token string) error {
			got = token
			if token == "" {
				return domain.ErrMissingRefreshToken
			}
			return nil
		},
	}
	h := NewAuthHandler[*domain.Admin](stub, domain.AdminKind, "administrator")

	rec, err := call(t, h.Logout, http.MethodPost, "/admin/logout", `{"refreshToken":"refresh"}`, "")
	if err != nil || rec.Code != http.StatusOK || got != "refresh" {
		t.Fatalf("unexpected logout result: %d %v %q", rec.Code, err, got)
	}

	_, err = call(t, h.Logout, http.MethodPost, "/admin/logout", `{}`, "")
	if !errors.Is(err, domain.ErrMissingRefreshToken) {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}
}

func TestAuthOutcome(t *testing.T) {
	cases := map[error]string{
		nil:                            "success",
		domain.ErrInvalidCredentials:   "invalid_credentials",
		domain.ErrAccountNotFound:      "not_found",
		domain.ErrInvalidRefreshToken:  "invalid_token",
		domain.ErrMissingRefreshToken:  "bad_request",
		errors.New("mongo unreachable"): "error",
	}
	for err, want := range cases {
		if got := authOutcome(err); got != want {
			t.Errorf("authOutcome(%v) = %q, want %q", err, got, want)
		}
	}
}
