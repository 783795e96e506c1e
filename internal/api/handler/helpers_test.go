package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/api/middleware"
	"github.com/eventhall/booking-api/internal/core/domain"
)

type stubVerifier map[string]domain.RoleClaim

func (s stubVerifier) VerifyAccess(token string) (domain.RoleClaim, error) {
	if claim, ok := s[token]; ok {
		return claim, nil
	}
	return domain.RoleClaim{}, domain.ErrInvalidOrExpiredToken
}

var testTokens = stubVerifier{
	"admin-token": {ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin},
	"user-token":  {ID: "user-1", Email: "user@example.com", Role: domain.RoleUser},
}

// call runs h against a JSON request. When token is set the request goes
// through the Auth middleware first.
func call(t *testing.T, h echo.HandlerFunc, method, target, body, token string, params ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		h = middleware.Auth(testTokens)(h)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return rec, h(c)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

func strPtr(s string) *string { return &s }
