package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StripeDiscordRelay/internal/domain/notification"
	"StripeDiscordRelay/pkg/correlation"
	"StripeDiscordRelay/pkg/logger"
	"StripeDiscordRelay/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []notification.Message
	err      error
	block    chan struct{}
	deadline bool
}

func (f *fakeSender) Send(ctx context.Context, msg notification.Message) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	_, f.deadline = ctx.Deadline()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeSender) messages() []notification.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification.Message(nil), f.sent...)
}

var msg = notification.Message{Color: notification.BrandColor, Title: "Charge Failed"}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("delivers once in the background", func(t *testing.T) {
		sender := &fakeSender{}
		d := NewDispatcher(sender, time.Second, nil)

		before := testutil.ToFloat64(metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusOK))

		d.Dispatch(context.Background(), "evt_1", msg)
		require.NoError(t, d.Wait(context.Background()))

		assert.Equal(t, []notification.Message{msg}, sender.messages())
		assert.True(t, sender.deadline)
		after := testutil.ToFloat64(metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusOK))
		assert.Equal(t, before+1, after)
	})

	t.Run("outlives a cancelled request context", func(t *testing.T) {
		sender := &fakeSender{block: make(chan struct{})}
		d := NewDispatcher(sender, time.Second, nil)

		ctx, cancel := context.WithCancel(context.Background())
		d.Dispatch(ctx, "evt_2", msg)
		cancel()
		close(sender.block)

		require.NoError(t, d.Wait(context.Background()))
		assert.Len(t, sender.messages(), 1)
	})

	t.Run("logs failures with the correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		sender := &fakeSender{err: errors.New("discord down")}
		d := NewDispatcher(sender, time.Second, logger.New(logger.Options{Output: &buf}))

		before := testutil.ToFloat64(metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusError))

		d.Dispatch(correlation.WithID(context.Background(), "corr-9"), "evt_3", msg)
		require.NoError(t, d.Wait(context.Background()))

		out := buf.String()
		assert.Contains(t, out, "notification delivery failed")
		assert.Contains(t, out, "discord down")
		assert.Contains(t, out, "corr-9")
		assert.Contains(t, out, "evt_3")
		after := testutil.ToFloat64(metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusError))
		assert.Equal(t, before+1, after)
	})
}

func TestDispatcher_Wait(t *testing.T) {
	t.Run("returns when nothing is in flight", func(t *testing.T) {
		d := NewDispatcher(&fakeSender{}, time.Second, nil)
		assert.NoError(t, d.Wait(context.Background()))
	})

	t.Run("gives up when the context ends first", func(t *testing.T) {
		sender := &fakeSender{block: make(chan struct{})}
		d := NewDispatcher(sender, time.Minute, nil)
		d.Dispatch(context.Background(), "evt_4", msg)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

		close(sender.block)
		require.NoError(t, d.Wait(context.Background()))
	})
}

func TestDispatcher_DispatchAfterWait(t *testing.T) {
	t.Run("drops and logs instead of sending", func(t *testing.T) {
		var buf bytes.Buffer
		sender := &fakeSender{}
		d := NewDispatcher(sender, time.Second, logger.New(logger.Options{Output: &buf}))
		require.NoError(t, d.Wait(context.Background()))

		before := testutil.ToFloat64(metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusDropped))

		d.Dispatch(context.Background(), "evt_late", msg)
		require.NoError(t, d.Wait(context.Background()))

		assert.Empty(t, sender.messages())
		assert.Contains(t, buf.String(), "notification dropped")
		assert.Contains(t, buf.String(), "evt_late")
		after := testutil.ToFloat64(metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusDropped))
		assert.Equal(t, before+1, after)
	})

	t.Run("concurrent dispatch and shutdown", func(t *testing.T) {
		sender := &fakeSender{}
		d := NewDispatcher(sender, time.Second, logger.New(logger.Options{Output: &bytes.Buffer{}}))

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.Dispatch(context.Background(), "evt_race", msg)
			}()
		}
		require.NoError(t, d.Wait(context.Background()))
		wg.Wait()
		require.NoError(t, d.Wait(context.Background()))

		assert.LessOrEqual(t, len(sender.messages()), 50)
	})
}
