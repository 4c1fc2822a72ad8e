// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/dailyq/metrics"
	"github.com/danielhkuo/dailyq/models"
)

// Announcement is the question that just went live.
type Announcement struct {
	Date         string
	QuestionID   string
	QuestionText string
}

// Message is one push notification addressed to one device token.
type Message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
	Sound string            `json:"sound,omitempty"`
}

// Gateway delivers one batch of messages. Implementations must be safe for
// concurrent use.
type Gateway interface {
	Send(ctx context.Context, batch []Message) error
}

// DestinationSource lists every registered push destination.
type DestinationSource interface {
	ListPushDestinations(ctx context.Context) ([]models.PushDestination, error)
}

// Report summarises one fan-out.
type Report struct {
	Destinations int
	Batches      int
	Failed       int
}

// FanOut sends the daily announcement to every registered device.
type FanOut struct {
	source      DestinationSource
	gateway     Gateway
	batchSize   int
	concurrency int
}

func NewFanOut(source DestinationSource, gateway Gateway, batchSize, concurrency int) *FanOut {
	if batchSize < 1 || batchSize > 100 {
		batchSize = 100
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &FanOut{source: source, gateway: gateway, batchSize: batchSize, concurrency: concurrency}
}

// Publish is best-effort. A failed batch is logged and counted and never stops
// the others; only failing to list destinations is returned as an error.
func (f *FanOut) Publish(ctx context.Context, a Announcement) (Report, error) {
	dests, err := f.source.ListPushDestinations(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list push destinations: %w", err)
	}
	if len(dests) == 0 {
		slog.Info("no push destinations registered", "date", a.Date)
		return Report{}, nil
	}

	messages := lo.Map(dests, func(d models.PushDestination, _ int) Message {
		return newMessage(d.Token, a)
	})
	batches := lo.Chunk(messages, f.batchSize)

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			if err := f.gateway.Send(gctx, batch); err != nil {
				failed.Add(1)
				metrics.PushBatches.WithLabelValues("failed").Inc()
				slog.Error("push batch failed", "date", a.Date, "batch", i, "size", len(batch), "error", err)
				return nil
			}
			metrics.PushBatches.WithLabelValues("sent").Inc()
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Destinations: len(dests),
		Batches:      len(batches),
		Failed:       int(failed.Load()),
	}
	slog.Info("question announced",
		"date", a.Date,
		"destinations", report.Destinations,
		"batches", report.Batches,
		"failed", report.Failed,
	)
	return report, nil
}

func newMessage(token string, a Announcement) Message {
	return Message{
		To:    token,
		Title: "Today's question is live",
		Body:  a.QuestionText,
		Data:  map[string]string{"questionId": a.QuestionID, "date": a.Date},
		Sound: "default",
	}
}
