package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/assets"
	"bookstore-admin/internal/books"
	"bookstore-admin/internal/forms"
	"bookstore-admin/internal/services/health"
	"bookstore-admin/internal/shared/config"
	"bookstore-admin/internal/shared/metrics"
	"bookstore-admin/internal/shared/server/middleware"
	"bookstore-admin/internal/shared/server/respond"
)

// RouterDeps are the handlers the router mounts.
type RouterDeps struct {
	Config        config.Config
	AssetsHandler *assets.Handler
	BooksHandler  *books.Handler
	FormsHandler  *forms.Handler
	Health        *health.Service
	RateLimiter   *middleware.RateLimiter
}

const (
	rateGroupDefault = "DEFAULT"
	rateGroupUpload  = "UPLOAD"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	authed := api.Group("")
	authed.Use(
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroupFor,
			Limiter:      deps.RateLimiter,
			Rules: map[string]middleware.RateLimitRule{
				rateGroupDefault: {Rate: 10, Burst: 40},
				rateGroupUpload:  {Rate: 2, Burst: 12},
			},
		}),
	)
	registerMeRoutes(authed)
	if deps.AssetsHandler != nil {
		deps.AssetsHandler.RegisterRoutes(authed)
	}
	if deps.BooksHandler != nil {
		deps.BooksHandler.RegisterRoutes(authed)
	}
	if deps.FormsHandler != nil {
		deps.FormsHandler.RegisterRoutes(authed)
	}

	return r
}

// uploads get their own bucket so a form with four attachments is not throttled by browsing.
func rateGroupFor(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case c.Request.Method == http.MethodPost && strings.HasPrefix(path, "/api/v1/assets/"):
		return rateGroupUpload
	case c.Request.Method == http.MethodPut && strings.HasSuffix(path, "/attachments/:slot"):
		return rateGroupUpload
	default:
		return rateGroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
