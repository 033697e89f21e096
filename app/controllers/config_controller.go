package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleAppConfig exposes the billing-related client configuration. Price ids
// are public identifiers; the secret keys never leave the config package.
func HandleAppConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"billingEnabled": billingConfig.EnableBilling,
		"billingMode":    billingConfig.BillingMode,
		"priceIds": fiber.Map{
			"subscription": billingConfig.PriceIDSubscription,
			"starter":      billingConfig.PriceIDStarter,
			"pro":          billingConfig.PriceIDPro,
			"enterprise":   billingConfig.PriceIDEnterprise,
		},
	})
}

// HandlePricing returns live amounts for the configured prices.
func HandlePricing(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	prices, err := billingService.Pricing(ctx)
	if err != nil {
		log.Printf("billing: pricing lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pricing"})
	}

	return c.JSON(fiber.Map{
		"billingEnabled": billingConfig.EnableBilling,
		"billingMode":    billingConfig.BillingMode,
		"prices":         prices,
	})
}
