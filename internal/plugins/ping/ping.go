// Package ping provides the /ping health command.
package ping

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nekoprojects/nekobot/internal/bot"
)

// Plugin returns the ping plugin.
func Plugin() bot.Plugin {
	return bot.Plugin{
		Name:   "ping",
		Module: "Ping",
		Setup:  setup,
	}
}

func setup(b *bot.Bot) error {
	b.OnCommand([]string{"ping"}, func(ctx context.Context, msg *telego.Message) error {
		start := time.Now()
		sent, err := b.API().SendMessage(ctx, tu.Message(tu.ID(msg.Chat.ID), "Pong!"))
		if err != nil {
			return fmt.Errorf("send pong: %w", err)
		}
		latency := time.Since(start).Round(time.Millisecond)
		_, err = b.API().EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:    tu.ID(msg.Chat.ID),
			MessageID: sent.MessageID,
			Text:      fmt.Sprintf("Pong! %s", latency),
		})
		return err
	})
	return nil
}
