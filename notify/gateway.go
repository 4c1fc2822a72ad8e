// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resty.dev/v3"
)

// ErrGatewayRejected means the push gateway answered with a non-2xx status.
var ErrGatewayRejected = errors.New("push gateway rejected batch")

// ExpoGateway posts batches as a JSON array to an Expo-compatible push endpoint.
type ExpoGateway struct {
	client *resty.Client
	url    string
}

// NewExpoGateway makes at most attempts requests per batch. Transport errors,
// 429 and 5xx responses are retried by resty's default conditions; other
// non-2xx responses are retried too.
func NewExpoGateway(url string, timeout time.Duration, attempts int) *ExpoGateway {
	if attempts < 1 {
		attempts = 1
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetRetryCount(attempts - 1).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		SetAllowNonIdempotentRetry(true).
		AddRetryConditions(func(res *resty.Response, err error) bool {
			return err != nil || res.IsError()
		}).
		AddRetryHooks(func(res *resty.Response, err error) {
			attrs := []any{"error", err}
			if res != nil {
				attrs = append(attrs, "attempt", res.Request.Attempt, "status", res.StatusCode())
			}
			slog.Warn("push batch attempt failed", attrs...)
		})

	return &ExpoGateway{client: client, url: url}
}

const (
	retryWait    = 50 * time.Millisecond
	retryMaxWait = 500 * time.Millisecond
)

func (g *ExpoGateway) Close() error {
	return g.client.Close()
}

// Send posts one batch. A batch still rejected after the last attempt
// returns ErrGatewayRejected.
func (g *ExpoGateway) Send(ctx context.Context, batch []Message) error {
	res, err := g.client.R().
		WithContext(ctx).
		SetBody(batch).
		Post(g.url)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("%w: status %d", ErrGatewayRejected, res.StatusCode())
	}
	return nil
}
