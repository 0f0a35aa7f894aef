package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/aggregator"

	tele "gopkg.in/telebot.v3"
)

// StartTelegramBot wires chat commands over the aggregation service. Startup
// is skipped when no token is configured.
func StartTelegramBot(tokens *aggregator.Service) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/token", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /token <address>")
		}
		address := strings.TrimSpace(args[0])
		token, ok, err := tokens.ByAddress(context.Background(), address)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching token %s: %v", address, err))
		}
		if !ok {
			return c.Send("No provider knows address " + address)
		}
		msg := fmt.Sprintf(
			"%s (%s)\nPrice: $%.6f\n24h Change: %.2f%%\n24h Volume: $%.0f\nLiquidity: $%.0f",
			token.Name, token.Ticker, token.PriceUSD, token.PriceChange24h, token.VolumeUSD, token.LiquidityUSD,
		)
		return c.Send(msg)
	})

	b.Handle("/trending", func(c tele.Context) error {
		trending, err := tokens.Trending(context.Background(), 10)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching trending tokens: %v", err))
		}
		if len(trending) == 0 {
			return c.Send("No trending tokens right now")
		}
		var sb strings.Builder
		sb.WriteString("Top tokens by 24h volume:\n")
		for i, t := range trending {
			sb.WriteString(fmt.Sprintf("%d. %s  $%.6f  (%.2f%%)  vol $%.0f\n",
				i+1, t.Ticker, t.PriceUSD, t.PriceChange24h, t.VolumeUSD))
		}
		return c.Send(sb.String())
	})

	log.Println("Telegram bot started")
	go b.Start()
}
