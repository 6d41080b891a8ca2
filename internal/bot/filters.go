package bot

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"
)

// Filter is a message predicate. Handlers run only when every filter
// attached to their registration passes.
type Filter func(ctx context.Context, msg *telego.Message) bool

// And combines filters; all must pass.
func And(filters ...Filter) Filter {
	return func(ctx context.Context, msg *telego.Message) bool {
		for _, f := range filters {
			if !f(ctx, msg) {
				return false
			}
		}
		return true
	}
}

// commandFilter matches messages whose first token is one of the given
// /commands. A "@botname" suffix is accepted only when it addresses
// this bot; commands for other bots in the same group are ignored.
func (b *Bot) commandFilter(cmds ...string) Filter {
	names := make(map[string]bool, len(cmds))
	for _, cmd := range cmds {
		names[strings.ToLower(strings.TrimPrefix(cmd, "/"))] = true
	}

	return func(_ context.Context, msg *telego.Message) bool {
		text := msg.Text
		if len(text) == 0 || text[0] != '/' {
			return false
		}
		cmd := strings.SplitN(text, " ", 2)[0]
		cmd, mention, hasMention := strings.Cut(cmd[1:], "@")
		if hasMention && !strings.EqualFold(mention, b.username()) {
			return false
		}
		return names[strings.ToLower(cmd)]
	}
}

// adminFilter passes when the sender is an administrator of the chat.
// Private chats never pass: admin status is meaningless there.
func (b *Bot) adminFilter() Filter {
	return func(ctx context.Context, msg *telego.Message) bool {
		if msg.From == nil || !isGroupChat(msg.Chat.Type) {
			return false
		}
		return b.chatAdmin(ctx, msg.Chat.ID, msg.From.ID)
	}
}

// botAdminFilter passes when the bot itself is an administrator of the
// chat.
func (b *Bot) botAdminFilter() Filter {
	return func(ctx context.Context, msg *telego.Message) bool {
		if b.me == nil || !isGroupChat(msg.Chat.Type) {
			return false
		}
		return b.chatAdmin(ctx, msg.Chat.ID, b.me.ID)
	}
}

// staffFilter passes when the sender is in the staff registry. The
// registry is consulted at dispatch time, so a reload takes effect on
// the next message.
func (b *Bot) staffFilter() Filter {
	return func(_ context.Context, msg *telego.Message) bool {
		return msg.From != nil && b.staff.IsStaff(msg.From.ID)
	}
}

func isGroupChat(chatType string) bool {
	return chatType == telego.ChatTypeGroup || chatType == telego.ChatTypeSupergroup
}
