package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/appfounders/marketplace/internal/api/metrics"
)

const dedupTTL = time.Hour

// DedupChecker provides idempotency checks for moderation decisions.
// Key format: moderation:<app_id>:<status>:<unix_nano_timestamp>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client, ttl: dedupTTL}
}

// IsDuplicate reports whether this exact decision has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, appID, status string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(appID, status, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	if n > 0 {
		metrics.ModerationDedupTotal.WithLabelValues("hit").Inc()
		return true, nil
	}
	metrics.ModerationDedupTotal.WithLabelValues("miss").Inc()
	return false, nil
}

// Mark records that this decision has been applied. The key expires after ttl.
func (d *DedupChecker) Mark(ctx context.Context, appID, status string, ts time.Time) error {
	return d.client.Set(ctx, d.key(appID, status, ts), "1", d.ttl).Err()
}

func (d *DedupChecker) key(appID, status string, ts time.Time) string {
	return fmt.Sprintf("moderation:%s:%s:%d", appID, status, ts.UnixNano())
}
