package counter

import (
	"context"
	"strings"

	"github.com/TimKoenig/FolioDesk/internal/pkg/cache"
)

const (
	checkoutStartsKey  = "billing:counters:checkout_starts"
	webhookOutcomesKey = "billing:counters:webhook_outcomes"
)

// AddCheckoutStart increments the pending checkout counter for a tier in Redis
func AddCheckoutStart(tier string) error {
	ctx := context.Background()
	field := strings.ToLower(strings.TrimSpace(tier))
	if field == "" {
		field = "unknown"
	}
	return cache.GetClient().HIncrBy(ctx, checkoutStartsKey, field, 1).Err()
}

// AddWebhookOutcome increments the counter for one reconciliation outcome in Redis
func AddWebhookOutcome(outcome string) error {
	ctx := context.Background()
	field := strings.TrimSpace(outcome)
	if field == "" {
		field = "unknown"
	}
	return cache.GetClient().HIncrBy(ctx, webhookOutcomesKey, field, 1).Err()
}

// Snapshot returns the current counter hashes. Missing hashes come back as
// empty maps so callers can render them directly.
func Snapshot() (map[string]string, map[string]string, error) {
	ctx := context.Background()
	rdb := cache.GetClient()

	starts, err := rdb.HGetAll(ctx, checkoutStartsKey).Result()
	if err != nil {
		return nil, nil, err
	}
	outcomes, err := rdb.HGetAll(ctx, webhookOutcomesKey).Result()
	if err != nil {
		return nil, nil, err
	}
	return starts, outcomes, nil
}
