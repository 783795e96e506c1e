package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eventhall/booking-api/docs"
	"github.com/eventhall/booking-api/internal/api/handler"
	"github.com/eventhall/booking-api/internal/api/middleware"
	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
	"github.com/eventhall/booking-api/internal/infrastructure/storage"
)

// Dependencies is everything the HTTP layer needs. Services are built by the
// caller so tests can swap in in-memory stores.
type Dependencies struct {
	Log      zerolog.Logger
	BasePath string
	Tokens   ports.TokenVerifier

	AdminAuth ports.AuthService[*domain.Admin]
	UserAuth  ports.AuthService[*domain.User]
	Admins    ports.AdminService
	Users     ports.AccountService[*domain.User]
	History   ports.HistoryService
	Packages  ports.PackageService

	HealthChecks []handler.DependencyCheck
	// UploadDir is served under /uploads. Empty disables static serving.
	UploadDir string
	// Registry collects the HTTP request metrics and backs /metrics. Nil
	// means the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "booking",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper:    skipOperational,
	}))

	// --- Operational routes (unprefixed, no auth) ---
	health := handler.NewHealthHandler(deps.HealthChecks...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if deps.UploadDir != "" {
		e.Static(storage.PublicPrefix, deps.UploadDir)
	}

	authenticated := middleware.Auth(deps.Tokens)
	adminOnly := []echo.MiddlewareFunc{authenticated, middleware.RequireRole(domain.RoleAdmin)}
	userOnly := []echo.MiddlewareFunc{authenticated, middleware.RequireRole(domain.RoleUser)}

	base := e.Group(deps.BasePath)

	adminAuth := handler.NewAuthHandler(deps.AdminAuth, domain.AdminKind, "administrator")
	admins := handler.NewAdminHandler(deps.Admins)
	history := handler.NewHistoryHandler(deps.History)

	admin := base.Group("/admin")
	admin.POST("/login", adminAuth.Login)
	admin.POST("/refresh-token", adminAuth.RefreshToken)
	admin.POST("/logout", adminAuth.Logout)
	admin.POST("/register", admins.Register, adminOnly...)
	admin.GET("/profile", admins.Profile, adminOnly...)
	admin.GET("/search", admins.Search, adminOnly...)
	admin.PUT("/update/:id", admins.Update, adminOnly...)
	admin.DELETE("/delete/:id", admins.Delete, adminOnly...)
	admin.GET("/employee-history", history.Search, adminOnly...)

	userAuth := handler.NewAuthHandler(deps.UserAuth, domain.UserKind, "user")
	users := handler.NewUserHandler(deps.Users)

	user := base.Group("/user")
	user.POST("/register", users.Register)
	user.POST("/login", userAuth.Login)
	user.POST("/refresh-token", userAuth.RefreshToken)
	user.POST("/logout", userAuth.Logout)
	user.GET("/profile", users.Profile, userOnly...)
	user.PUT("/update", users.Update, userOnly...)
	user.DELETE("/delete", users.Delete, userOnly...)
	user.GET("/search", users.Search, adminOnly...)

	base.GET("/history/employee-history", history.Search, adminOnly...)

	packages := handler.NewPackageHandler(deps.Packages)
	pkg := base.Group("/package", adminOnly...)
	pkg.POST("/create", packages.Create)
	pkg.GET("/view-packages", packages.List)
	pkg.PUT("/update/:id", packages.Update)
	pkg.DELETE("/delete/:id", packages.Delete)

	return e
}

func skipOperational(c echo.Context) bool {
	switch c.Path() {
	case "/metrics", "/health", "/health/ready":
		return true
	}
	return false
}

// requestLogger writes one zerolog entry per request. Bodies are never
// logged, so credentials and tokens stay out of the log.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
