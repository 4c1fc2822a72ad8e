// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package answers

import "time"

// Classify grades a submission against the publish time. Within the window
// the answer is on time; after it, lateness counts whole minutes past the
// window. A missing publish time grades as on time.
func Classify(publishedAt *time.Time, submittedAt time.Time, window time.Duration) (onTime bool, lateMinutes int) {
	if publishedAt == nil {
		return true, 0
	}
	gap := submittedAt.Sub(*publishedAt)
	if gap <= window {
		return true, 0
	}
	return false, int((gap - window) / time.Minute)
}
