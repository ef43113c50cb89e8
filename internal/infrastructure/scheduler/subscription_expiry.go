package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SubscriptionExpiryJobName is the registered name of the expiry job
const SubscriptionExpiryJobName = "subscription-expiry"

// SubscriptionExpirer marks ACTIVE subscriptions whose window closed before
// now as EXPIRED, at most limit per call, and returns how many it changed
type SubscriptionExpirer interface {
	ExpireDue(ctx context.Context, now time.Time, limit int) (int, error)
}

// SubscriptionExpiryJob drains due subscriptions across all tenants in batches
type SubscriptionExpiryJob struct {
	expirer   SubscriptionExpirer
	batchSize int
	maxRounds int
	now       func() time.Time
	logger    *zap.Logger
}

// NewSubscriptionExpiryJob creates the expiry job
func NewSubscriptionExpiryJob(expirer SubscriptionExpirer, batchSize int, logger *zap.Logger) *SubscriptionExpiryJob {
	if batchSize <= 0 {
		batchSize = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionExpiryJob{
		expirer:   expirer,
		batchSize: batchSize,
		maxRounds: 50,
		now:       time.Now,
		logger:    logger,
	}
}

// Name implements Job
func (j *SubscriptionExpiryJob) Name() string {
	return SubscriptionExpiryJobName
}

// Run implements Job
func (j *SubscriptionExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	total := 0
	for round := 0; round < j.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := j.expirer.ExpireDue(ctx, now, j.batchSize)
		total += n
		if err != nil {
			return err
		}
		if n < j.batchSize {
			break
		}
	}
	if total > 0 {
		j.logger.Info("Expired subscriptions", zap.Int("count", total))
	}
	return nil
}
