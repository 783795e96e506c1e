package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/core/domain"
)

func TestRequireRole_Allows(t *testing.T) {
	rec, called := serve(t, "Bearer admin-token", Auth(verifier), RequireRole(domain.RoleAdmin))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected admin to pass, got %d", rec.Code)
	}
}

func TestRequireRole_AllowsAnyListedRole(t *testing.T) {
	rec, called := serve(t, "Bearer user-token", Auth(verifier), RequireRole(domain.RoleAdmin, domain.RoleUser))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected user to pass, got %d", rec.Code)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	rec, called := serve(t, "Bearer user-token", Auth(verifier), RequireRole(domain.RoleAdmin))
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireRole(domain.RoleUser)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if err == nil {
		t.Fatalf("expected an error")
	}
	e.HTTPErrorHandler(err, c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
