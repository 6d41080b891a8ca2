// Package pin provides the admin-only /pin command.
package pin

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nekoprojects/nekobot/internal/bot"
)

// Plugin returns the pin plugin.
func Plugin() bot.Plugin {
	return bot.Plugin{
		Name:   "pin",
		Module: "Pin",
		Setup:  setup,
	}
}

func setup(b *bot.Bot) error {
	b.OnCommand([]string{"pin"}, func(ctx context.Context, msg *telego.Message) error {
		if msg.ReplyToMessage == nil {
			return b.Reply(ctx, msg, "Reply to the message you want pinned.")
		}
		err := b.API().PinChatMessage(ctx, &telego.PinChatMessageParams{
			ChatID:    tu.ID(msg.Chat.ID),
			MessageID: msg.ReplyToMessage.MessageID,
		})
		if err != nil {
			return fmt.Errorf("pin message: %w", err)
		}
		return nil
	}, bot.AdminOnly())
	return nil
}
