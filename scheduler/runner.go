// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/dailyq/metrics"
)

// Job names used in logs, metrics and the admin surface
const (
	JobSelect  = "select"
	JobPublish = "publish"
)

// Runner fires both jobs on their own cron schedules in the home zone.
type Runner struct {
	jobs    *Jobs
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time
}

func NewRunner(jobs *Jobs, selectSpec, checkSpec string, timeout time.Duration) (*Runner, error) {
	logger := slogCronLogger{}
	c := cron.New(
		cron.WithLocation(jobs.Location()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	r := &Runner{jobs: jobs, cron: c, timeout: timeout, now: time.Now}

	if _, err := c.AddFunc(selectSpec, func() { r.Run(context.Background(), JobSelect) }); err != nil {
		return nil, fmt.Errorf("invalid select schedule %q: %w", selectSpec, err)
	}
	if _, err := c.AddFunc(checkSpec, func() { r.Run(context.Background(), JobPublish) }); err != nil {
		return nil, fmt.Errorf("invalid check schedule %q: %w", checkSpec, err)
	}
	return r, nil
}

// Start runs one select pass so a process started after midnight still has
// a question for today, then starts the cron loop.
func (r *Runner) Start(ctx context.Context) {
	r.Run(ctx, JobSelect)
	r.cron.Start()
	slog.Info("scheduler started", "zone", r.jobs.Location().String())
}

// Stop halts new firings and returns a context done when running jobs finish.
func (r *Runner) Stop() context.Context {
	return r.cron.Stop()
}

// Run executes one job under its own timeout. Failures are logged and counted;
// the next firing is the retry.
func (r *Runner) Run(ctx context.Context, job string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	var (
		outcome string
		err     error
	)
	switch job {
	case JobSelect:
		outcome, err = r.jobs.SelectAndSchedule(ctx, r.now())
	case JobPublish:
		outcome, err = r.jobs.CheckAndPublish(ctx, r.now())
	default:
		return "", fmt.Errorf("unknown job %q", job)
	}

	if err != nil {
		metrics.JobRuns.WithLabelValues(job, "error").Inc()
		slog.Error("job failed", "job", job, "duration", time.Since(start), "error", err)
		return "", err
	}
	metrics.JobRuns.WithLabelValues(job, outcome).Inc()
	slog.Debug("job finished", "job", job, "outcome", outcome, "duration", time.Since(start))
	return outcome, nil
}

// slogCronLogger routes cron's internal logging through slog.
type slogCronLogger struct{}

func (slogCronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
