package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"neurochat/internal/auth"
	"neurochat/internal/config"
	"neurochat/internal/errors"
	"neurochat/internal/handler"
	"neurochat/internal/metrics"
	"neurochat/internal/session"
	"neurochat/internal/web"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions *session.Manager,
	tokens *auth.JWTService,
	gatherer prometheus.Gatherer,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
) {
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'",
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		},
	}))
	e.Use(sessions.Middleware(skipStateless))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/static", web.Static())

	// Pages
	e.GET("/", chatHandler.Index)
	e.GET("/dashboard", userHandler.Dashboard, dashboardGuard(tokens))
	e.GET("/guest/status", chatHandler.GuestStatus)

	a := e.Group("/auth")
	a.GET("/login", authHandler.LoginPage)
	a.POST("/login", authHandler.Login)
	a.GET("/signup", authHandler.SignupPage)
	a.POST("/signup", authHandler.Signup)
	a.GET("/logout", authHandler.Logout)
	a.GET("/me", userHandler.Me)
	a.GET("/guest/status", chatHandler.GuestStatus)

	chat := a.Group("/chat")
	chat.GET("/history", chatHandler.History)
	chat.POST("/start", chatHandler.Start)
	chat.POST("/mode", chatHandler.SetMode)
	chat.POST("/message", chatHandler.Message, chatRateLimiter(cfg))
}

// skipStateless keeps session load/save off endpoints that never touch it.
func skipStateless(c echo.Context) bool {
	p := c.Path()
	return p == "/healthz" || p == "/metrics" ||
		strings.HasPrefix(p, "/swagger") || strings.HasPrefix(p, "/static")
}

// dashboardGuard validates the session token cookie and requires a logged-in
// user. Anything else is redirected to the login page.
func dashboardGuard(tokens *auth.JWTService) echo.MiddlewareFunc {
	toLogin := func(c echo.Context, _ error) error {
		return c.Redirect(http.StatusSeeOther, "/auth/login")
	}

	validate := echojwt.WithConfig(echojwt.Config{
		SigningKey:    tokens.SigningKey(),
		SigningMethod: echojwt.AlgorithmHS256,
		TokenLookup:   "cookie:" + session.CookieName,
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(auth.Claims) },
		ErrorHandler:  toLogin,
	})

	requireUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return toLogin(c, nil)
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || !claims.Authenticated() {
				return toLogin(c, nil)
			}
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return validate(requireUser(next))
	}
}

// chatRateLimiter limits message submissions per client IP.
func chatRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.ChatRateLimit),
		Burst:     cfg.ChatBurst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "Unable to identify client",
				Code:  "FORBIDDEN",
			})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: "Too many messages, please slow down",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
