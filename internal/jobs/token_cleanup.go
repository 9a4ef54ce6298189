package jobs

import (
	"context"
	"milkroute/internal/config"
	"milkroute/internal/logger"
	"time"

	"github.com/cockroachdb/errors"
)

// TokenCleanupJobName is the name of the refresh token cleanup job
const TokenCleanupJobName = "token-cleanup"

// ExpiredTokenDeleter removes refresh tokens past their expiry
type ExpiredTokenDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanupJob deletes expired refresh tokens
type TokenCleanupJob struct {
	tokens ExpiredTokenDeleter
	config Config
	now    func() time.Time
}

// NewTokenCleanupJob creates the job
func NewTokenCleanupJob(tokens ExpiredTokenDeleter, cfg config.JobsConfig) *TokenCleanupJob {
	return &TokenCleanupJob{
		tokens: tokens,
		config: Config{
			Schedule: cfg.TokenCleanupSchedule,
			Enabled:  cfg.TokenCleanupEnabled,
		},
		now: time.Now,
	}
}

func (j *TokenCleanupJob) Name() string { return TokenCleanupJobName }

func (j *TokenCleanupJob) GetConfig() Config { return j.config }

func (j *TokenCleanupJob) Run(ctx context.Context) error {
	removed, err := j.tokens.DeleteExpired(ctx, j.now())
	if err != nil {
		return errors.Wrap(err, "failed to delete expired refresh tokens")
	}
	logger.WithComponent("jobs").WithField("removed", removed).Info("Expired refresh tokens removed")
	return nil
}
