// Package discord delivers notifications through a Discord channel webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StripeDiscordRelay/internal/domain/notification"

	"github.com/bwmarrin/discordgo"
)

const maxErrorBody = 1024

type Client struct {
	webhookURL string
	http       *http.Client
}

// Config points the client at one webhook. BaseURL is everything before the
// id, e.g. https://discord.com/api/webhooks.
type Config struct {
	BaseURL string
	ID      string
	Token   string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		webhookURL: strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.ID + "/" + cfg.Token,
		http:       &http.Client{Timeout: timeout},
	}
}

// Send posts msg as a single embed.
func (c *Client) Send(ctx context.Context, msg notification.Message) error {
	params, err := webhookParams(msg)
	if err != nil {
		return err
	}

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal webhook params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// Ping fetches the webhook object; Discord answers 200 while the webhook exists.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.webhookURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error quotes the URL, which carries the webhook token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return handleResponse(resp)
}

func handleResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: retry after %s", ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, resp.StatusCode, string(body))
	default:
		return fmt.Errorf("%w: status %d, body: %s", ErrRejected, resp.StatusCode, string(body))
	}
}

func webhookParams(msg notification.Message) (*discordgo.WebhookParams, error) {
	color, err := parseColor(msg.Color)
	if err != nil {
		return nil, err
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
	}

	return &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{{
			Type:   discordgo.EmbedTypeRich,
			Title:  msg.Title,
			Color:  color,
			Fields: fields,
		}},
	}, nil
}

func parseColor(hex string) (int, error) {
	if hex == "" {
		return 0, nil
	}
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return int(n), nil
}
