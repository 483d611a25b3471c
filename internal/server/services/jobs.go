package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/dmitrijs2005/folio/internal/logging"
)

// TokenPurgeJob deletes expired refresh tokens periodically.
type TokenPurgeJob struct {
	users    *UserService
	interval time.Duration
	logger   logging.Logger
}

func NewTokenPurgeJob(u *UserService, interval time.Duration, logger logging.Logger) *TokenPurgeJob {
	return &TokenPurgeJob{users: u, interval: interval, logger: logger.With("module", "token-purge")}
}

func (j *TokenPurgeJob) Name() string {
	return "refresh_token_purge"
}

func (j *TokenPurgeJob) Schedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

func (j *TokenPurgeJob) Execute(ctx context.Context) {
	n, err := j.users.PurgeExpiredTokens(ctx)
	if err != nil {
		j.logger.Error(ctx, "purge failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info(ctx, "expired refresh tokens purged", "count", n)
	}
}
