package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/eventhall/booking-api/internal/api/handler"
	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
	"github.com/eventhall/booking-api/internal/core/service"
	"github.com/eventhall/booking-api/internal/infrastructure/security"
	"github.com/eventhall/booking-api/internal/infrastructure/storage"
)

const testBasePath = "/eventhall/api/v1"

type testServer struct {
	t      *testing.T
	router http.Handler
	admins *memAccounts[*domain.Admin]
	users  *memAccounts[*domain.User]
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()

	codec, err := security.NewJWTCodec(security.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
	})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	hasher := security.NewBcryptHasher(4)
	uploads := t.TempDir()
	images := storage.NewImageStore(uploads, log)

	admins := newMemAccounts(domain.AdminKind)
	users := newMemAccounts(domain.UserKind)
	history := &memHistory{}

	adminService := service.NewAdminService(admins, history, hasher, images, log)
	if _, err := adminService.Register(context.Background(), ports.RegisterInput{
		FullName:      "Root Admin",
		ContactNumber: "555-0100",
		EmailAddress:  "root@eventhall.test",
		Password:      "rootpass",
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	router := NewRouter(Dependencies{
		Log:       log,
		BasePath:  testBasePath,
		Tokens:    codec,
		AdminAuth: service.NewAuthService(domain.AdminKind, admins, hasher, codec, log),
		UserAuth:  service.NewAuthService(domain.UserKind, users, hasher, codec, log),
		Admins:    adminService,
		Users:     service.NewAccountService(domain.UserKind, users, hasher, images, log),
		History:   service.NewHistoryService(history),
		Packages:  service.NewPackageService(newMemPackages(), nil, 0, log),
		HealthChecks: []handler.DependencyCheck{
			{Name: "mongodb", Ping: func(context.Context) error { return nil }},
		},
		UploadDir: uploads,
		Registry:  prometheus.NewRegistry(),
	})

	return &testServer{t: t, router: router, admins: admins, users: users}
}

// do sends a request and decodes the JSON response body.
func (s *testServer) do(method, path, body, token string) (int, map[string]any) {
	s.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	if strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, "/user") ||
		strings.HasPrefix(path, "/package") || strings.HasPrefix(path, "/history") {
		path = testBasePath + path
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			s.t.Fatalf("%s %s: invalid json %q", method, path, rec.Body.String())
		}
	}
	return rec.Code, out
}

func (s *testServer) login(who, email, password string) (access, refresh string) {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/"+who+"/login",
		`{"email_address":"`+email+`","password":"`+password+`"}`, "")
	if code != http.StatusOK {
		s.t.Fatalf("%s login: expected 200, got %d %v", who, code, body)
	}
	return body["accessToken"].(string), body["refreshToken"].(string)
}

func expectError(t *testing.T, code int, body map[string]any, wantCode int, wantMsg string) {
	t.Helper()
	if code != wantCode {
		t.Fatalf("expected %d, got %d (%v)", wantCode, code, body)
	}
	if body["error"] != wantMsg {
		t.Fatalf("expected error %q, got %v", wantMsg, body["error"])
	}
}

func TestRouter_UserRegisterLoginProfile(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/user/register",
		`{"full_name":"Jane Doe","contact_number":"555-0101","email_address":" Jane@Example.com ","password":"hunter22"}`, "")
	if code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d %v", code, body)
	}

	access, _ := s.login("user", "jane@example.com", "hunter22")

	code, body = s.do(http.MethodGet, "/user/profile", "", access)
	if code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d %v", code, body)
	}
	user := body["user"].(map[string]any)
	if user["email_address"] != "jane@example.com" || user["full_name"] != "Jane Doe" {
		t.Fatalf("unexpected profile: %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("profile must not expose the password hash")
	}
}

func TestRouter_LoginErrors(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/admin/login", `{"email_address":"root@eventhall.test","password":"wrong"}`, "")
	expectError(t, code, body, http.StatusUnauthorized, "invalid credentials")

	code, body = s.do(http.MethodPost, "/admin/login", `{"email_address":"nobody@eventhall.test","password":"rootpass"}`, "")
	expectError(t, code, body, http.StatusNotFound, "account not found")

	code, body = s.do(http.MethodPost, "/admin/login", `{"email_address":"","password":"rootpass"}`, "")
	expectError(t, code, body, http.StatusBadRequest, "email address is required")

	// Admin credentials do not authenticate against the user collection.
	code, body = s.do(http.MethodPost, "/user/login", `{"email_address":"root@eventhall.test","password":"rootpass"}`, "")
	expectError(t, code, body, http.StatusNotFound, "account not found")
}

func TestRouter_AuthorizationGate(t *testing.T) {
	s := newTestServer(t)
	adminAccess, _ := s.login("admin", "root@eventhall.test", "rootpass")

	s.do(http.MethodPost, "/user/register",
		`{"full_name":"Jane Doe","contact_number":"555-0101","email_address":"jane@example.com","password":"hunter22"}`, "")
	userAccess, _ := s.login("user", "jane@example.com", "hunter22")

	code, body := s.do(http.MethodGet, "/admin/profile", "", "")
	expectError(t, code, body, http.StatusUnauthorized, "access token is required")

	code, body = s.do(http.MethodGet, "/admin/profile", "", "not-a-jwt")
	expectError(t, code, body, http.StatusForbidden, "invalid or expired token")

	code, _ = s.do(http.MethodGet, "/admin/profile", "", userAccess)
	if code != http.StatusForbidden {
		t.Fatalf("user token on admin route: expected 403, got %d", code)
	}
	code, _ = s.do(http.MethodGet, "/package/view-packages", "", userAccess)
	if code != http.StatusForbidden {
		t.Fatalf("user token on package route: expected 403, got %d", code)
	}

	code, body = s.do(http.MethodGet, "/admin/profile", "", adminAccess)
	if code != http.StatusOK || body["administrator"].(map[string]any)["email_address"] != "root@eventhall.test" {
		t.Fatalf("admin profile: %d %v", code, body)
	}

	code, _ = s.do(http.MethodGet, "/user/profile", "", adminAccess)
	if code != http.StatusForbidden {
		t.Fatalf("admin token on user self-service route: expected 403, got %d", code)
	}

	code, body = s.do(http.MethodGet, "/user/search", "", adminAccess)
	if code != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("user search: %d %v", code, body)
	}

	// A refresh token is signed with a different secret and is not an access token.
	_, refresh := s.login("admin", "root@eventhall.test", "rootpass")
	code, _ = s.do(http.MethodGet, "/admin/profile", "", refresh)
	if code != http.StatusForbidden {
		t.Fatalf("refresh token as access token: expected 403, got %d", code)
	}
}

func TestRouter_RefreshRotationAndLogout(t *testing.T) {
	s := newTestServer(t)

	_, first := s.login("admin", "root@eventhall.test", "rootpass")
	_, second := s.login("admin", "root@eventhall.test", "rootpass")

	code, body := s.do(http.MethodPost, "/admin/refresh-token", `{"refreshToken":"`+first+`"}`, "")
	expectError(t, code, body, http.StatusForbidden, "invalid refresh token")

	code, body = s.do(http.MethodPost, "/admin/refresh-token", `{"refreshToken":"`+second+`"}`, "")
	if code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d %v", code, body)
	}
	fresh := body["accessToken"].(string)
	if code, _ := s.do(http.MethodGet, "/admin/profile", "", fresh); code != http.StatusOK {
		t.Fatalf("refreshed access token rejected: %d", code)
	}

	code, body = s.do(http.MethodPost, "/admin/refresh-token", `{}`, "")
	expectError(t, code, body, http.StatusBadRequest, "refresh token is required")

	code, _ = s.do(http.MethodPost, "/admin/logout", `{"refreshToken":"`+second+`"}`, "")
	if code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", code)
	}
	code, body = s.do(http.MethodPost, "/admin/refresh-token", `{"refreshToken":"`+second+`"}`, "")
	expectError(t, code, body, http.StatusForbidden, "invalid refresh token")

	code, _ = s.do(http.MethodPost, "/admin/logout", `{"refreshToken":"`+second+`"}`, "")
	if code != http.StatusOK {
		t.Fatalf("second logout: expected 200, got %d", code)
	}
}

func TestRouter_AdminReleaseWritesHistory(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login("admin", "root@eventhall.test", "rootpass")

	code, body := s.do(http.MethodPost, "/admin/register",
		`{"full_name":"Temp Admin","contact_number":"555-0199","email_address":"temp@eventhall.test","password":"temppass"}`, access)
	if code != http.StatusCreated {
		t.Fatalf("register admin: %d %v", code, body)
	}
	id := body["administrator"].(map[string]any)["id"].(string)

	code, body = s.do(http.MethodDelete, "/admin/delete/"+id, "", access)
	if code != http.StatusOK {
		t.Fatalf("delete admin: %d %v", code, body)
	}
	if history := body["history"].(map[string]any); history["occupation"] != domain.DefaultOccupation {
		t.Fatalf("unexpected history: %v", history)
	}

	code, body = s.do(http.MethodGet, "/history/employee-history?search=temp", "", access)
	if code != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("history search: %d %v", code, body)
	}

	code, body = s.do(http.MethodGet, "/admin/employee-history?search=nobody", "", access)
	if code != http.StatusNotFound {
		t.Fatalf("history miss: expected 404, got %d %v", code, body)
	}

	code, body = s.do(http.MethodDelete, "/admin/delete/"+id, "", access)
	expectError(t, code, body, http.StatusNotFound, "account not found")
}

func TestRouter_PackageCatalog(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login("admin", "root@eventhall.test", "rootpass")

	code, body := s.do(http.MethodGet, "/package/view-packages", "", access)
	expectError(t, code, body, http.StatusNotFound, "no packages found")

	code, body = s.do(http.MethodPost, "/package/create",
		`{"package_name":" gold ","package_features":"Hall, catering","general_price":1500}`, access)
	if code != http.StatusCreated {
		t.Fatalf("create package: %d %v", code, body)
	}
	pkg := body["package"].(map[string]any)
	if pkg["package_name"] != "GOLD" || pkg["promotional_price"] != float64(1500) || pkg["is_active"] != true {
		t.Fatalf("unexpected package: %v", pkg)
	}

	code, body = s.do(http.MethodPost, "/package/create",
		`{"package_name":"Gold","package_features":"dup","general_price":10}`, access)
	expectError(t, code, body, http.StatusBadRequest, "package name already exists")

	code, body = s.do(http.MethodGet, "/package/view-packages", "", access)
	if code != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("list packages: %d %v", code, body)
	}

	code, body = s.do(http.MethodDelete, "/package/delete/"+pkg["id"].(string), "", access)
	if code != http.StatusOK || body["message"] != "GOLD package successfully deleted" {
		t.Fatalf("delete package: %d %v", code, body)
	}

	code, body = s.do(http.MethodPut, "/package/update/missing",
		`{"package_name":"x","package_features":"y","general_price":1}`, access)
	expectError(t, code, body, http.StatusNotFound, "package not found")
}

func TestRouter_OperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/health", "", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: %d %v", code, body)
	}
	code, body = s.do(http.MethodGet, "/health/ready", "", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("readiness: %d %v", code, body)
	}

	s.login("admin", "root@eventhall.test", "rootpass")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "booking_http_requests_total") {
		t.Fatalf("request metrics missing from /metrics output")
	}

	code, body = s.do(http.MethodGet, "/does-not-exist", "", "")
	if code != http.StatusNotFound || body["error"] == nil {
		t.Fatalf("unknown route: %d %v", code, body)
	}
}

func TestRouter_ProfileImageIsServed(t *testing.T) {
	s := newTestServer(t)

	// 1x1 transparent PNG.
	const png = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
	code, body := s.do(http.MethodPost, "/user/register",
		`{"full_name":"Pic User","contact_number":"555","email_address":"pic@example.com","password":"picpass","user_image":"`+png+`"}`, "")
	if code != http.StatusCreated {
		t.Fatalf("register: %d %v", code, body)
	}
	image, _ := body["user"].(map[string]any)["user_image"].(string)
	if !strings.HasPrefix(image, "/uploads/users/") {
		t.Fatalf("unexpected image path %q", image)
	}

	req := httptest.NewRequest(http.MethodGet, image, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("static image: expected 200, got %d", rec.Code)
	}
}
