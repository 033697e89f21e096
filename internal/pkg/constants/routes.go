package constants

// Static route constants
const (
	APIRoute   = "/api"
	APIv1Route = "/v1"

	AuthRegisterRoute = "/auth/register"
	AuthLoginRoute    = "/auth/login"
	AuthLogoutRoute   = "/auth/logout"

	BillingCheckoutRoute    = "/billing/checkout"
	BillingWebhookRoute     = "/billing/webhook"
	BillingDevCompleteRoute = "/billing/dev-complete"

	UserSubscriptionRoute     = "/user/subscription"
	UserCancelRoute           = "/user/cancel-subscription"
	UserCleanupPurchasesRoute = "/user/cleanup-purchases"

	ConfigRoute  = "/config"
	PricingRoute = "/pricing"

	AdminStatsRoute = "/admin/stats"
)
