package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/trinetra-labs/credentials-backend/internal/config"
	"github.com/trinetra-labs/credentials-backend/internal/handlers"
	"github.com/trinetra-labs/credentials-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	billingHandler *handlers.BillingHandler,
	entitlementHandler *handlers.EntitlementHandler,
	profileHandler *handlers.ProfileHandler,
	webhookHandler *handlers.WebhookHandler,
	adminPromoHandler *handlers.AdminPromoHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", healthHandler.Check)

	// Public catalog
	api.Get("/plans", billingHandler.ListPlans)
	api.Get("/institutions", profileHandler.ListInstitutions)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - apply middleware per route so
	// public routes stay unaffected
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Billing
	api.Post("/promo/validate", middleware.JWTProtected(cfg), billingHandler.ValidatePromo)
	api.Post("/checkout", middleware.JWTProtected(cfg), billingHandler.Checkout)
	api.Get("/transactions", middleware.JWTProtected(cfg), billingHandler.Transactions)

	// Entitlements
	api.Get("/entitlements/access", middleware.JWTProtected(cfg), entitlementHandler.CheckAccess)
	api.Get("/entitlements/subscription", middleware.JWTProtected(cfg), entitlementHandler.ActiveSubscription)
	api.Get("/entitlements/features/:key", middleware.JWTProtected(cfg), entitlementHandler.CheckFeature)

	// Student profiles and institution views
	api.Get("/students/profile", middleware.JWTProtected(cfg), profileHandler.GetProfile)
	api.Post("/students/profile", middleware.JWTProtected(cfg), profileHandler.SaveProfile)
	api.Put("/students/profile", middleware.JWTProtected(cfg), profileHandler.SaveProfile)
	api.Get("/institutions/students", middleware.JWTProtected(cfg), profileHandler.ListStudents)

	// Webhooks — shared-secret auth, no JWT
	api.Post("/webhooks/payment", webhookHandler.HandlePaymentCapture)

	// Admin promo management (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/promo-codes", adminPromoHandler.List)
	admin.Post("/promo-codes", adminPromoHandler.Create)
	admin.Put("/promo-codes/:code/deactivate", adminPromoHandler.Deactivate)
}
