package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/hms-api/internal/config"
	appointmentHandler "github.com/jwalitptl/hms-api/internal/handler/appointment"
	"github.com/jwalitptl/hms-api/internal/handler/health"
	slotHandler "github.com/jwalitptl/hms-api/internal/handler/slot"
	userHandler "github.com/jwalitptl/hms-api/internal/handler/user"
	"github.com/jwalitptl/hms-api/internal/middleware"
)

type Handlers struct {
	User        *userHandler.Handler
	Appointment *appointmentHandler.Handler
	Slot        *slotHandler.Handler
}

// New assembles the engine with the full middleware chain and every
// route group mounted under /api/v1.
func New(cfg *config.ServerConfig, db *sqlx.DB, h Handlers) *gin.Engine {
	r := gin.New()

	limiter := middleware.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(middleware.DefaultCORSConfig()),
		middleware.Timeout(cfg.RequestTimeout),
		limiter.RateLimit(),
	)

	health.NewHandler(db).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	h.User.RegisterRoutes(api)
	h.Appointment.RegisterRoutes(api)
	h.Slot.RegisterRoutes(api)

	return r
}
