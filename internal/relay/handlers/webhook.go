package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"StripeDiscordRelay/internal/domain/notification"
	"StripeDiscordRelay/internal/external/stripehook"
	"StripeDiscordRelay/pkg/correlation"
	"StripeDiscordRelay/pkg/metrics"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=webhook.go -destination=mock_dispatcher_test.go -package=handlers

// MaxPayloadBytes caps the body read before verification.
const MaxPayloadBytes = 1 << 20

// Dispatcher hands a rendered message off for delivery without blocking.
type Dispatcher interface {
	Dispatch(ctx context.Context, eventID string, msg notification.Message)
}

type WebhookHandler struct {
	verifier   *stripehook.Verifier
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewWebhookHandler(verifier *stripehook.Verifier, dispatcher Dispatcher, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{verifier: verifier, dispatcher: dispatcher, logger: logger}
}

// Webhook verifies a Stripe delivery, relays recognized charge events to the
// chat channel and echoes the event's data object back to Stripe.
func (h *WebhookHandler) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxPayloadBytes))
	if err != nil {
		h.reject(c, "", metrics.OutcomeUnverified, err)
		return
	}

	event, err := h.verifier.Verify(payload, c.GetHeader(stripehook.SignatureHeader))
	if err != nil {
		h.reject(c, "", metrics.OutcomeUnverified, err)
		return
	}

	ctx = correlation.WithEventID(ctx, event.ID())
	c.Request = c.Request.WithContext(ctx)

	msg, err := notification.Render(event.Type(), event.Object())
	switch {
	case errors.Is(err, notification.ErrUnhandledEventType):
		metrics.WebhookEventsTotal.WithLabelValues("other", metrics.OutcomeUnhandled).Inc()
		h.logger.InfoContext(ctx, "ignoring webhook event",
			slog.String("event_type", event.Type()),
		)
		c.Status(http.StatusBadRequest)
		return
	case err != nil:
		h.reject(c, event.Type(), metrics.OutcomeUndecodable, err)
		return
	}

	h.dispatcher.Dispatch(ctx, event.ID(), msg)

	metrics.WebhookEventsTotal.WithLabelValues(event.Type(), metrics.OutcomeRelayed).Inc()
	h.logger.InfoContext(ctx, "webhook event relayed",
		slog.String("event_type", event.Type()),
	)

	c.Data(http.StatusOK, "application/json; charset=utf-8", event.Object())
}

func (h *WebhookHandler) reject(c *gin.Context, eventType, outcome string, err error) {
	label := eventType
	if label == "" {
		label = "unknown"
	}
	metrics.WebhookEventsTotal.WithLabelValues(label, outcome).Inc()

	h.logger.WarnContext(c.Request.Context(), "webhook rejected",
		slog.String("outcome", outcome),
		slog.Any("error", err),
	)
	c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
}
