package main

import (
	"log"

	"StripeDiscordRelay/config"
	"StripeDiscordRelay/internal/relay"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	relay.Run(cfg)
}
