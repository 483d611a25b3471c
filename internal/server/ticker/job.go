package ticker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// PollJob refreshes a Ticker on a fixed interval.
type PollJob struct {
	ticker   *Ticker
	interval time.Duration
}

func NewPollJob(t *Ticker, interval time.Duration) *PollJob {
	return &PollJob{ticker: t, interval: interval}
}

func (j *PollJob) Name() string {
	return "market_ticker"
}

func (j *PollJob) Schedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute never fails the job; Refresh already logs and keeps old values.
func (j *PollJob) Execute(ctx context.Context) {
	_ = j.ticker.Refresh(ctx)
}
