package rest

import (
	"net/http"
	"time"

	"inspiration-backend/application/services"
	"inspiration-backend/infrastructure/ai"
	"inspiration-backend/interfaces/http/rest/handlers"
	"inspiration-backend/interfaces/http/rest/middleware"
	pkgerrors "inspiration-backend/pkg/errors"
	"inspiration-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig holds the HTTP surface settings
type RouterConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	EnableMetrics  bool
	Debug          bool
	Location       *time.Location
	// DefaultImageSize is used when a generate-image request has no size
	DefaultImageSize string
	// ImageRateLimit caps generate-image calls per client IP per minute; zero
	// disables the limit
	ImageRateLimit int
}

// Router creates and configures the HTTP router
type Router struct {
	content     *services.ContentStore
	profile     *services.ProfileStore
	synthesizer ai.ImageSynthesizer
	metrics     *observability.Collector
	cfg         RouterConfig
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	content *services.ContentStore,
	profile *services.ProfileStore,
	synthesizer ai.ImageSynthesizer,
	metrics *observability.Collector,
	cfg RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		content:     content,
		profile:     profile,
		synthesizer: synthesizer,
		metrics:     metrics,
		cfg:         cfg,
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.cfg.Debug)

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	inspirationHandler := handlers.NewInspirationHandler(rt.content, rt.metrics, errorHandler, rt.cfg.Location, rt.logger)
	profileHandler := handlers.NewProfileHandler(rt.profile, rt.metrics, errorHandler, rt.logger)
	aiHandler := handlers.NewAIHandler(rt.synthesizer, rt.cfg.DefaultImageSize, rt.metrics, rt.logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/config", aiHandler.GetConfig)

		r.Route("/ai", func(r chi.Router) {
			r.Get("/health", aiHandler.Health)
			r.Group(func(r chi.Router) {
				if rt.cfg.ImageRateLimit > 0 {
					r.Use(middleware.RateLimit(middleware.NewSlidingWindowLimiter(rt.cfg.ImageRateLimit, time.Minute)))
				}
				r.Post("/generate-image", aiHandler.GenerateImage)
			})
		})

		r.Route("/inspirations", func(r chi.Router) {
			r.Get("/", inspirationHandler.ListInspirations)
			r.Post("/", inspirationHandler.CreateInspiration)
			r.Get("/{id}", inspirationHandler.GetInspiration)
			r.Put("/{id}", inspirationHandler.UpdateInspiration)
			r.Delete("/{id}", inspirationHandler.DeleteInspiration)
		})

		r.Get("/tags", inspirationHandler.ListTags)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.GetProfile)
			r.Patch("/", profileHandler.UpdateProfile)
			r.Patch("/preferences", profileHandler.UpdatePreferences)
			r.Post("/achievements", profileHandler.UnlockAchievement)
			r.Post("/onboarding", profileHandler.CompleteOnboarding)
			r.Post("/points", profileHandler.AddPoints)
			r.Put("/level", profileHandler.SetLevel)
			r.Post("/tasks/{taskID}", profileHandler.CompleteTask)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
