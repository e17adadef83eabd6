package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aasim47/vendorconex/internal/auth"
	"github.com/Aasim47/vendorconex/internal/service"
	"github.com/Aasim47/vendorconex/pkg/health"
	"github.com/Aasim47/vendorconex/pkg/middleware"
)

// RouterConfig carries the services and settings the router wires together.
type RouterConfig struct {
	Users    *service.UserService
	Products *service.ProductService
	Carts    *service.CartService
	Orders   *service.OrderService
	Chat     *service.ChatService

	Health *health.Handler
	JWT    *auth.JWTManager
	Logger *slog.Logger

	CORSOrigins []string
	Environment string

	ChatRateLimitRPS   int
	ChatRateLimitBurst int
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	logger := cfg.Logger

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("vendorconex"))
	r.Use(middleware.Tracing("vendorconex"))
	r.Use(middleware.RequestLogger(logger))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = cfg.Environment
	if len(cfg.CORSOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.CORSOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	// Health check and metrics endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(cfg.Users, logger)
	userHandler := NewUserHandler(cfg.Users, logger)
	productHandler := NewProductHandler(cfg.Products, logger)
	cartHandler := NewCartHandler(cfg.Carts, logger)
	orderHandler := NewOrderHandler(cfg.Orders, logger)
	chatHandler := NewChatHandler(cfg.Chat, logger)

	requireAuth := middleware.Auth(tokenValidator(cfg.JWT))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/products", func(r chi.Router) {
			r.With(middleware.CacheControl(60)).Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.With(middleware.CacheControl(60)).Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)

			r.With(requireAuth).Post("/{id}/reviews", productHandler.AddReview)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/", cartHandler.Get)
			r.Post("/", cartHandler.AddItem)
			r.Put("/item/{productId}", cartHandler.UpdateItem)
			r.Delete("/item/{productId}", cartHandler.RemoveItem)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.Place)
			r.Get("/", orderHandler.List)
			r.Get("/{id}", orderHandler.Get)
			r.Put("/{id}/status", orderHandler.UpdateStatus)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(requireAuth).Get("/me", userHandler.Me)
			r.Get("/{userId}/orders", orderHandler.ListUserOrders)
		})

		r.With(middleware.RateLimit(cfg.ChatRateLimitRPS, cfg.ChatRateLimitBurst, logger)).
			Post("/chat", chatHandler.Complete)
	})

	return r
}

// tokenValidator adapts the JWT manager to the auth middleware contract.
func tokenValidator(jwt *auth.JWTManager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}
}
