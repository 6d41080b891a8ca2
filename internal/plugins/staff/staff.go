// Package staff provides staff management commands: /promote and
// /demote write the staff store and reload the registry.
package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/nekoprojects/nekobot/internal/bot"
	"github.com/nekoprojects/nekobot/internal/store"
)

// Plugin returns the staff management plugin.
func Plugin() bot.Plugin {
	return bot.Plugin{
		Name:   "staff",
		Module: "Staff",
		Setup:  setup,
	}
}

func setup(b *bot.Bot) error {
	b.OnCommand([]string{"promote"}, promote(b), bot.StaffOnly())
	b.OnCommand([]string{"demote"}, demote(b), bot.StaffOnly())
	return nil
}

// target resolves the user a staff command acts on: the sender of the
// replied-to message.
func target(msg *telego.Message) (*telego.User, error) {
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		return nil, errors.New("reply to the user's message")
	}
	return msg.ReplyToMessage.From, nil
}

func promote(b *bot.Bot) bot.HandlerFunc {
	return func(ctx context.Context, msg *telego.Message) error {
		user, err := target(msg)
		if err != nil {
			return b.Reply(ctx, msg, "Usage: reply with /promote [dev|sudo]")
		}

		rank := store.RankSudo
		if fields := strings.Fields(msg.Text); len(fields) > 1 {
			rank = strings.ToLower(fields[1])
		}
		if !store.ValidRank(rank) {
			return b.Reply(ctx, msg, fmt.Sprintf("Unknown rank %q, expected dev or sudo", rank))
		}
		if user.ID == b.Staff().Owner() {
			return b.Reply(ctx, msg, "The owner outranks everything already.")
		}

		if err := b.Store().AddStaff(ctx, store.StaffRecord{UserID: user.ID, Rank: rank}); err != nil {
			return fmt.Errorf("promote %d: %w", user.ID, err)
		}
		if err := b.Staff().Load(ctx, b.Store()); err != nil {
			return fmt.Errorf("reload staff: %w", err)
		}
		return b.Reply(ctx, msg, fmt.Sprintf("Promoted %s to %s.", user.FirstName, rank))
	}
}

func demote(b *bot.Bot) bot.HandlerFunc {
	return func(ctx context.Context, msg *telego.Message) error {
		user, err := target(msg)
		if err != nil {
			return b.Reply(ctx, msg, "Usage: reply with /demote")
		}

		switch err := b.Store().RemoveStaff(ctx, user.ID); {
		case errors.Is(err, store.ErrNotFound):
			return b.Reply(ctx, msg, fmt.Sprintf("%s is not staff.", user.FirstName))
		case err != nil:
			return fmt.Errorf("demote %d: %w", user.ID, err)
		}
		if err := b.Staff().Load(ctx, b.Store()); err != nil {
			return fmt.Errorf("reload staff: %w", err)
		}
		return b.Reply(ctx, msg, fmt.Sprintf("Demoted %s.", user.FirstName))
	}
}
