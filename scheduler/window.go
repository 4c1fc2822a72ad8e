// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/danielhkuo/dailyq/models"
)

// Window is the local time-of-day range in which questions are published,
// kept as minutes after midnight.
type Window struct {
	Start int
	End   int
}

// ParseWindow parses "HH:MM" bounds. End must be after start.
func ParseWindow(start, end string) (Window, error) {
	s, err := parseClock(start)
	if err != nil {
		return Window{}, fmt.Errorf("invalid window start %q: %w", start, err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Window{}, fmt.Errorf("invalid window end %q: %w", end, err)
	}
	if e <= s {
		return Window{}, fmt.Errorf("window end %s must be after start %s", end, start)
	}
	return Window{Start: s, End: e}, nil
}

func parseClock(v string) (int, error) {
	t, err := time.Parse(models.ClockLayout, v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether t's local time of day falls inside [Start, End].
// The end minute is included so a check firing exactly at the close still runs.
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.Start && m <= w.End
}

// Pick returns a uniformly random minute in [Start, End) formatted as "HH:MM".
func (w Window) Pick(rng *rand.Rand) string {
	m := w.Start + rng.IntN(w.End-w.Start)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
