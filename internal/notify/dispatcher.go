// Package notify delivers rendered notifications without holding up the
// webhook response.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"StripeDiscordRelay/internal/domain/notification"
	"StripeDiscordRelay/pkg/correlation"
	"StripeDiscordRelay/pkg/metrics"
)

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, msg notification.Message) error
}

// Dispatcher sends each message once, in the background. Failures are logged
// and counted; they are never reported back to the caller and never retried.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex // guards closed and wg.Add against Wait
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, timeout: timeout, logger: logger}
}

// Dispatch returns immediately. The delivery keeps the values of ctx (the
// correlation id) but not its cancellation, so it outlives the request.
// eventID is attached to ctx for logging.
// Once Wait has been called, messages are logged and dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, eventID string, msg notification.Message) {
	ctx = correlation.WithEventID(context.WithoutCancel(ctx), eventID)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusDropped).Inc()
		d.logger.WarnContext(ctx, "notification dropped, relay is shutting down",
			slog.String("title", msg.Title),
		)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.deliver(ctx, msg)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, msg notification.Message) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	err := d.sender.Send(ctx, msg)
	metrics.NotificationDeliveryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusError).Inc()
		d.logger.ErrorContext(ctx, "notification delivery failed",
			slog.String("title", msg.Title),
			slog.Any("error", err),
		)
		return
	}

	metrics.NotificationDeliveriesTotal.WithLabelValues(metrics.DeliveryStatusOK).Inc()
	d.logger.DebugContext(ctx, "notification delivered",
		slog.String("title", msg.Title),
	)
}

// Wait stops accepting new messages and blocks until in-flight deliveries
// finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
