// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/dailyq/models"
)

type fakeSource struct {
	dests []models.PushDestination
	err   error
}

func (f fakeSource) ListPushDestinations(context.Context) ([]models.PushDestination, error) {
	return f.dests, f.err
}

type fakeGateway struct {
	mu       sync.Mutex
	batches  [][]Message
	failOn   map[string]bool // first token of a batch that should fail
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (g *fakeGateway) Send(_ context.Context, batch []Message) error {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.batches = append(g.batches, batch)
	if g.failOn[batch[0].To] {
		return errors.New("gateway unavailable")
	}
	return nil
}

func destinations(n int) []models.PushDestination {
	out := make([]models.PushDestination, n)
	for i := range out {
		out[i] = models.PushDestination{UserID: fmt.Sprintf("u%d", i), Token: fmt.Sprintf("tok-%03d", i), Platform: "ios"}
	}
	return out
}

var announcement = Announcement{Date: "2024-05-01", QuestionID: "q1", QuestionText: "What made you smile?"}

func TestPublish_NoDestinations(t *testing.T) {
	gw := &fakeGateway{}
	report, err := NewFanOut(fakeSource{}, gw, 100, 4).Publish(context.Background(), announcement)
	require.NoError(t, err)
	assert.Equal(t, Report{}, report)
	assert.Empty(t, gw.batches)
}

func TestPublish_Batches(t *testing.T) {
	gw := &fakeGateway{}
	report, err := NewFanOut(fakeSource{dests: destinations(250)}, gw, 100, 4).Publish(context.Background(), announcement)
	require.NoError(t, err)

	assert.Equal(t, Report{Destinations: 250, Batches: 3, Failed: 0}, report)
	require.Len(t, gw.batches, 3)

	sizes := map[int]int{}
	seen := map[string]bool{}
	for _, b := range gw.batches {
		sizes[len(b)]++
		for _, m := range b {
			assert.False(t, seen[m.To], "token %s delivered twice", m.To)
			seen[m.To] = true
			assert.Equal(t, "What made you smile?", m.Body)
			assert.Equal(t, "q1", m.Data["questionId"])
			assert.Equal(t, "2024-05-01", m.Data["date"])
		}
	}
	assert.Equal(t, map[int]int{100: 2, 50: 1}, sizes)
	assert.Len(t, seen, 250)
}

func TestPublish_FailedBatchDoesNotStopOthers(t *testing.T) {
	gw := &fakeGateway{failOn: map[string]bool{"tok-000": true}}
	report, err := NewFanOut(fakeSource{dests: destinations(30)}, gw, 10, 2).Publish(context.Background(), announcement)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Batches)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, gw.batches, 3)
}

func TestPublish_BoundedParallelism(t *testing.T) {
	gw := &fakeGateway{}
	_, err := NewFanOut(fakeSource{dests: destinations(20)}, gw, 1, 3).Publish(context.Background(), announcement)
	require.NoError(t, err)

	assert.Len(t, gw.batches, 20)
	assert.LessOrEqual(t, gw.peak.Load(), int32(3))
}

func TestPublish_ListFailure(t *testing.T) {
	_, err := NewFanOut(fakeSource{err: errors.New("db down")}, &fakeGateway{}, 100, 1).Publish(context.Background(), announcement)
	assert.Error(t, err)
}

func TestNewFanOut_ClampsBatchSize(t *testing.T) {
	assert.Equal(t, 100, NewFanOut(nil, nil, 0, 1).batchSize)
	assert.Equal(t, 100, NewFanOut(nil, nil, 500, 1).batchSize)
	assert.Equal(t, 1, NewFanOut(nil, nil, 10, 0).concurrency)
}

func TestExpoGateway_Send(t *testing.T) {
	var received []Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	gw := NewExpoGateway(srv.URL, time.Second, 1)
	defer gw.Close()

	batch := []Message{newMessage("tok-1", announcement), newMessage("tok-2", announcement)}
	require.NoError(t, gw.Send(context.Background(), batch))

	require.Len(t, received, 2)
	assert.Equal(t, "tok-1", received[0].To)
	assert.Equal(t, "What made you smile?", received[1].Body)
}

func TestExpoGateway_BoundedAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gw := NewExpoGateway(srv.URL, time.Second, 2)
	defer gw.Close()

	err := gw.Send(context.Background(), []Message{newMessage("tok-1", announcement)})
	assert.ErrorIs(t, err, ErrGatewayRejected)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExpoGateway_RecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := NewExpoGateway(srv.URL, time.Second, 3)
	defer gw.Close()

	require.NoError(t, gw.Send(context.Background(), []Message{newMessage("tok-1", announcement)}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestExpoGateway_RetriesRejectedBatchWithSameBody(t *testing.T) {
	var (
		calls  atomic.Int32
		mu     sync.Mutex
		bodies [][]Message
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got []Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		mu.Lock()
		bodies = append(bodies, got)
		mu.Unlock()
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := NewExpoGateway(srv.URL, time.Second, 2)
	defer gw.Close()

	require.NoError(t, gw.Send(context.Background(), []Message{newMessage("tok-1", announcement)}))
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, "tok-1", bodies[1][0].To)
}
