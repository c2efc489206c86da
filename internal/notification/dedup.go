package notification

import (
	"context"
	"time"

	"market-admin/internal/common/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const dedupKeyPrefix = "notify:"

var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("market-admin/notifications"))

// DeterministicID derives the notification id for one moderation outcome,
// so a repeated action maps to the same id.
func DeterministicID(sourceID, targetStatus string) string {
	return uuid.NewSHA1(idNamespace, []byte(sourceID+":"+targetStatus)).String()
}

// Deduper guards notification writes with a Redis SETNX per notification id.
type Deduper struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewDeduper(rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: log,
	}
}

// AcquireOnce returns true the first time id is seen within the TTL.
// Redis errors allow the write.
func (d *Deduper) AcquireOnce(ctx context.Context, id string) bool {
	key := dedupKeyPrefix + id

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn("redis dedup check failed, allowing notification", map[string]interface{}{
			"notificationId": id,
			"error":          err,
		})
		return true
	}

	if !ok {
		d.logger.Info("skipped duplicate notification", map[string]interface{}{
			"notificationId": id,
			"dedupKey":       key,
		})
	}
	return ok
}

// Release drops the guard for id so a failed write can be retried.
func (d *Deduper) Release(ctx context.Context, id string) {
	key := dedupKeyPrefix + id
	if err := d.rdb.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
		d.logger.Warn("redis dedup release failed, retries are suppressed until the key expires", map[string]interface{}{
			"notificationId": id,
			"dedupKey":       key,
			"error":          err,
		})
	}
}
