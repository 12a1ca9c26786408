package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/config"
	"github.com/stemsi/cutoff-backend/internal/handler"
	"github.com/stemsi/cutoff-backend/internal/metrics"
	"github.com/stemsi/cutoff-backend/internal/middleware"
	"github.com/stemsi/cutoff-backend/internal/response"
)

const metricsPath = "/metrics"

// Handlers groups all handler instances for route setup.
type Handlers struct {
	State   *handler.StateHandler
	College *handler.CollegeHandler
	Cutoff  *handler.CutoffHandler
	System  *handler.SystemHandler
}

// SetupRouter configures the Gin engine, its global middleware and every route.
func SetupRouter(
	handlers *Handlers,
	m *metrics.Metrics,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*).
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(
		cors.New(corsConfig),
		response.RequestIDMiddleware(),
		middleware.RequestLogger(log),
		middleware.Metrics(m),
		// promhttp negotiates its own compression.
		middleware.BrotliWithConfig(middleware.BrotliConfig{
			Quality:   middleware.DefaultBrotliConfig.Quality,
			MinLength: middleware.DefaultBrotliConfig.MinLength,
			SkipPaths: []string{metricsPath},
		}),
		// Innermost: the panic envelope must still pass through brotli.
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.Error().Interface("panic", recovered).Msg("Recovered from panic")
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
		}),
	)

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrRouteNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, response.ErrMethodNotAllowed)
	})

	// ─── System ────────────────────────────────────────────────────────
	router.GET("/", handlers.System.Root)
	router.GET("/health", handlers.System.Health)
	router.GET(metricsPath, gin.WrapH(m.Handler()))

	// ─── Query API ─────────────────────────────────────────────────────
	api := router.Group("/api")
	{
		api.GET("/get_states", handlers.State.GetStates)
		api.GET("/get_state_name_by_id/:state_id", handlers.State.GetStateName)
		api.GET("/get_categories_by_state/:state_id", handlers.State.GetCategories)

		api.GET("/get_colleges", handlers.College.GetColleges)
		api.GET("/get_colleges_by_state/:state_id", handlers.College.GetCollegesByState)
		api.GET("/get_college_name_by_id/:college_id", handlers.College.GetCollegeName)

		api.GET("/get_cutoffs_by_state/:state_id", handlers.Cutoff.GetBestCutoffsByState)
		api.GET("/get_cutoffs_by_college/:college_id", handlers.Cutoff.GetCutoffsByCollege)
	}

	return router
}
