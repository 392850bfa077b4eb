package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"resume-builder/internal/health"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/tracing"
)

const livenessText = "Resume Builder API is running 🚀"

// RouterDeps carries what NewRouter registers.
type RouterDeps struct {
	Config        config.Config
	ResumeHandler *resumes.Handler
	Health        *health.Service
	// UploadsDir is served under Config.UploadsRoute when set.
	UploadsDir  string
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)
	if cfg.OTelEnabled {
		r.Use(otelgin.Middleware(tracing.ServiceName))
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, livenessText)
	})
	r.GET("/metrics", metrics.Handler())
	if deps.Health != nil {
		r.GET("/health", func(c *gin.Context) {
			st := deps.Health.Status(c.Request.Context())
			status := http.StatusOK
			if !st.OK {
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, st)
		})
	}

	if deps.UploadsDir != "" {
		r.Static(cfg.UploadsRoute, filepath.Clean(deps.UploadsDir))
	}

	if deps.ResumeHandler != nil {
		var createMiddleware []gin.HandlerFunc
		if cfg.RateLimitCreateRPS > 0 {
			createMiddleware = append(createMiddleware, middleware.RateLimit(deps.RateLimiter, middleware.RateLimitRule{
				Rate:  cfg.RateLimitCreateRPS,
				Burst: cfg.RateLimitCreateBurst,
			}))
		}
		deps.ResumeHandler.RegisterRoutes(r, createMiddleware...)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
