package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidDiscordHook = errors.New("invalid discord webhook url")

type Config struct {
	Port            int           `env:"PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// Full Discord webhook URL: https://discord.com/api/webhooks/<id>/<token>
	DiscordHook    DiscordHook   `env:"DISCORD_HOOK,required,notEmpty"`
	DiscordTimeout time.Duration `env:"DISCORD_TIMEOUT" envDefault:"10s"`

	StripeAPIKey           string        `env:"STRIPE_API_KEY,required,notEmpty"`
	StripeEndpointSecret   string        `env:"STRIPE_ENDPOINT_SECRET,required,notEmpty"`
	StripeWebhookTolerance time.Duration `env:"STRIPE_WEBHOOK_TOLERANCE" envDefault:"5m"`
}

// DiscordHook is the webhook URL split into the parts the Discord API needs.
type DiscordHook struct {
	BaseURL string
	ID      string
	Token   string
}

// URL reassembles the execute endpoint of the webhook.
func (h DiscordHook) URL() string {
	return h.BaseURL + "/" + h.ID + "/" + h.Token
}

// ParseDiscordHook splits a webhook URL on "/" and takes the id and token
// from path segments 5 and 6.
func ParseDiscordHook(raw string) (DiscordHook, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) < 7 || parts[4] != "webhooks" || parts[2] == "" {
		return DiscordHook{}, fmt.Errorf("%w: expected <scheme>://<host>/api/webhooks/<id>/<token>", ErrInvalidDiscordHook)
	}

	hook := DiscordHook{
		BaseURL: strings.Join(parts[:5], "/"),
		ID:      parts[5],
		Token:   parts[6],
	}
	if hook.ID == "" || hook.Token == "" {
		return DiscordHook{}, fmt.Errorf("%w: empty id or token", ErrInvalidDiscordHook)
	}

	return hook, nil
}

func New() (Config, error) {
	c, err := env.ParseAsWithOptions[Config](env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(DiscordHook{}): func(v string) (any, error) {
				return ParseDiscordHook(v)
			},
		},
	})
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
