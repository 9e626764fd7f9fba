package router

import (
	"context"
	"net/http"
	"time"

	apphttp "creaturedex/internal/http"
	"creaturedex/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const healthTimeout = 2 * time.Second

// New builds the gin engine: shared middleware, the health route, and every
// module's routes under /api.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app)))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(app.Config.GetRateLimitPerSecond()), app.Config.GetRateLimitBurst(), app.Logger)

	api := engine.Group("/api")
	api.GET("/health", healthHandler(app.Health))

	limited := api.Group("")
	limited.Use(limiter.RateLimit())

	rc := &apphttp.RouterContext{
		Engine: engine,
		API:    limited,
		Admin:  limited.Group("/admin"),
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(rc)
		app.Logger.Debug("module routes registered", "module", m.Name())
	}

	return engine
}

func corsConfig(app *apphttp.App) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", httpkit.HeaderRequestID},
		ExposeHeaders: []string{httpkit.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if app.Config.GetCORSAllowAll() || len(app.Config.GetCORSOrigins()) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = app.Config.GetCORSOrigins()
	}
	return cfg
}

func healthHandler(health apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if health != nil {
			if err := health.Ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "status": "unavailable", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	}
}
