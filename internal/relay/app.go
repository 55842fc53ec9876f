// Package relay wires the Stripe webhook endpoint to Discord delivery.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"StripeDiscordRelay/config"
	"StripeDiscordRelay/internal/external/discord"
	"StripeDiscordRelay/internal/external/stripehook"
	"StripeDiscordRelay/internal/notify"
	"StripeDiscordRelay/internal/relay/handlers"
	"StripeDiscordRelay/pkg/health"
	"StripeDiscordRelay/pkg/logger"

	"github.com/gin-gonic/gin"
)

// App holds everything built from Config. It is immutable after New.
type App struct {
	cfg        config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	discord    *discord.Client
	dispatcher *notify.Dispatcher
}

func New(cfg config.Config, l *slog.Logger) *App {
	gin.SetMode(gin.ReleaseMode)
	engine := NewGinEngine(l)

	discordClient := discord.New(discord.Config{
		BaseURL: cfg.DiscordHook.BaseURL,
		ID:      cfg.DiscordHook.ID,
		Token:   cfg.DiscordHook.Token,
		Timeout: cfg.DiscordTimeout,
	})
	dispatcher := notify.NewDispatcher(discordClient, cfg.DiscordTimeout, l)
	verifier := stripehook.NewVerifier(cfg.StripeEndpointSecret, cfg.StripeWebhookTolerance)

	healthRegistry := health.NewRegistry(
		health.CheckerFunc{CheckName: "discord", Fn: discordClient.Ping},
	)

	webhookHandler := handlers.NewWebhookHandler(verifier, dispatcher, l)
	NewRouter(webhookHandler, healthRegistry).SetUp(engine)

	return &App{
		cfg:        cfg,
		logger:     l,
		engine:     engine,
		discord:    discordClient,
		dispatcher: dispatcher,
	}
}

func (a *App) Handler() http.Handler {
	return a.engine
}

// Serve listens until ctx is cancelled, then drains HTTP and in-flight
// deliveries within ShutdownTimeout.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Port),
		Handler: a.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Relay started", slog.Int("port", a.cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("relay - Serve - ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down relay...")
	return a.shutdown(server)
}

func (a *App) shutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := a.dispatcher.Wait(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("pending notifications dropped: %w", err))
	}
	a.discord.Close()

	a.logger.Info("Relay stopped")
	return errors.Join(errs...)
}

// Run bootstraps the relay and blocks until SIGINT/SIGTERM.
func Run(cfg config.Config) {
	logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	l := slog.Default()

	if err := run(cfg, l); err != nil {
		l.Error("relay - Run", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, l *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return New(cfg, l).Serve(ctx)
}
