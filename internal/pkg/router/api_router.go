package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/TimKoenig/FolioDesk/app/controllers"
	"github.com/TimKoenig/FolioDesk/app/repository"
	"github.com/TimKoenig/FolioDesk/internal/pkg/billing"
	"github.com/TimKoenig/FolioDesk/internal/pkg/config"
	"github.com/TimKoenig/FolioDesk/internal/pkg/constants"
	"github.com/TimKoenig/FolioDesk/internal/pkg/database"
	"github.com/TimKoenig/FolioDesk/internal/pkg/middleware"
	"github.com/TimKoenig/FolioDesk/internal/pkg/session"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	cfg := config.Get()
	db := database.GetDB()

	// Wire controllers with their collaborators
	factory := repository.NewFactory(db)
	controllers.InitializeAuthController(factory.GetUserRepository())

	provider := billing.NewStripeProvider(cfg.StripeSecretKey)
	service := billing.NewServiceFromDB(db, provider, cfg)
	service.SetNotifier(billing.NewMailNotifier(factory.GetUserRepository()))
	verifier := billing.NewStripeVerifier(cfg.StripeWebhookSecret)
	controllers.InitializeBillingController(service, verifier, cfg)

	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group(constants.APIv1Route)

	// Public routes
	v1.Post(constants.AuthRegisterRoute, controllers.HandleAuthRegister)
	v1.Post(constants.AuthLoginRoute, controllers.HandleAuthLogin)
	v1.Post(constants.AuthLogoutRoute, controllers.HandleAuthLogout)
	v1.Post(constants.BillingWebhookRoute, controllers.HandleStripeWebhook)
	v1.Get(constants.ConfigRoute, controllers.HandleAppConfig)
	v1.Get(constants.PricingRoute, controllers.HandlePricing)

	// Routes requiring a logged-in session
	v1.Post(constants.BillingCheckoutRoute, middleware.RequireAPISessionAuth, controllers.HandleBillingCheckout)
	v1.Get(constants.UserSubscriptionRoute, middleware.RequireAPISessionAuth, controllers.HandleUserSubscription)
	v1.Post(constants.UserCancelRoute, middleware.RequireAPISessionAuth, controllers.HandleCancelSubscription)
	v1.Post(constants.UserCleanupPurchasesRoute, middleware.RequireAPISessionAuth, controllers.HandleCleanupPurchases)

	// Admin routes
	v1.Get(constants.AdminStatsRoute, middleware.RequireAPIAdmin, controllers.HandleAdminStats)

	// Dev-only checkout simulation; the handler re-checks the environment
	if cfg.IsDev() {
		v1.Post(constants.BillingDevCompleteRoute, middleware.RequireAPISessionAuth, controllers.HandleDevCompleteCheckout)
	}
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
