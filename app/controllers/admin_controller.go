package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/TimKoenig/FolioDesk/internal/pkg/metrics/counter"
	"github.com/TimKoenig/FolioDesk/internal/pkg/statistics"
)

// HandleAdminStats returns the aggregate billing numbers plus the live
// Redis counters.
func HandleAdminStats(c *fiber.Ctx) error {
	stats := statistics.GetStatisticsData()

	checkoutStarts, webhookOutcomes, err := counter.Snapshot()
	if err != nil {
		log.Printf("admin: counter snapshot failed: %v", err)
		checkoutStarts = map[string]string{}
		webhookOutcomes = map[string]string{}
	}

	return c.JSON(fiber.Map{
		"statistics": stats,
		"counters": fiber.Map{
			"checkoutStarts":  checkoutStarts,
			"webhookOutcomes": webhookOutcomes,
		},
	})
}
