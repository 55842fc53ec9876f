package relay

import (
	"StripeDiscordRelay/internal/relay/handlers"
	"StripeDiscordRelay/pkg/health"
	"StripeDiscordRelay/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceName labels liveness responses.
const ServiceName = "stripe-discord-relay"

type Router struct {
	webhook        *handlers.WebhookHandler
	healthRegistry *health.Registry
}

func NewRouter(webhook *handlers.WebhookHandler, healthRegistry *health.Registry) *Router {
	return &Router{
		webhook:        webhook,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/", handlers.Index)
	engine.POST("/webhook", r.webhook.Webhook)

	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler(ServiceName))
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
}
