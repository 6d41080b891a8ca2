// Package stats provides the staff-only /stats command: uptime plus
// the current staff registry.
package stats

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"

	"github.com/nekoprojects/nekobot/internal/bot"
)

// Plugin returns the stats plugin.
func Plugin() bot.Plugin {
	return bot.Plugin{
		Name:   "stats",
		Module: "Stats",
		Setup:  setup,
	}
}

func setup(b *bot.Bot) error {
	b.OnCommand([]string{"stats", "status"}, func(ctx context.Context, msg *telego.Message) error {
		text := fmt.Sprintf("Uptime: %s\nStaff list:\n%s",
			bot.FormatUptime(b.Uptime()), b.Staff())
		return b.Reply(ctx, msg, text)
	}, bot.StaffOnly())
	return nil
}
