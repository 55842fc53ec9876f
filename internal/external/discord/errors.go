package discord

import "errors"

var (
	// ErrRateLimited is returned when Discord throttles the webhook (HTTP 429)
	ErrRateLimited = errors.New("discord rate limited")

	// ErrRejected is returned when Discord refuses the message (HTTP 4xx)
	ErrRejected = errors.New("discord rejected message")

	// ErrUnavailable is returned when Discord can not be reached (HTTP 5xx, transport, timeout)
	ErrUnavailable = errors.New("discord unavailable")

	// ErrInvalidColor is returned for colors that are not #rrggbb
	ErrInvalidColor = errors.New("invalid embed color")
)
