// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify announces a newly published question to every registered push
// destination. Destinations are split into batches of at most 100, and batches
// are sent concurrently with a bound. A failed batch is counted and logged but
// never stops the rest.
package notify
