// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler runs the two daily question jobs.

# Jobs

SelectAndSchedule fires at local midnight. It picks a question that has not
been used for 30 days (falling back to the whole bank when none qualifies) and
a random publish minute inside the publish window, and writes both as the
day's daily_question row. A second run for the same day is a no-op.

CheckAndPublish fires every few minutes. Once the scheduled minute has passed
it sets published_at with a conditional write; the caller whose write lands
announces the question through the notify package, every other caller sees
OutcomeLostRace or OutcomeAlreadyPublished.

The jobs never talk to each other directly. The daily_question row is the
only shared state, so either job may run in another process.

# Runner

Runner registers both jobs on a robfig/cron scheduler in the home zone with
SkipIfStillRunning, gives every run its own timeout and records the outcome
in the dailyq_job_runs_total counter. Failed runs are not retried in-process.
*/
package scheduler
