package bot

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/sync/errgroup"

	"github.com/nekoprojects/nekobot/internal/config"
	"github.com/nekoprojects/nekobot/internal/store"
)

// Bot is the NekoBot client: a Telegram Bot API client plus the staff
// registry, the plugin set, and the lifecycle state machine. The
// database handle and the chat client are held as fields; nothing is
// inherited.
type Bot struct {
	cfg     *config.Config
	api     *telego.Bot
	store   store.StaffStore
	staff   *StaffList
	plugins []Plugin

	registrations []registration
	limiter       *senderLimiter

	mu          sync.Mutex // guards lifecycle state
	state       state
	initialized bool

	me        *telego.User
	startTime time.Time

	pollCancel context.CancelFunc
	pollDone   chan struct{}

	tasks      *errgroup.Group
	taskCtx    context.Context
	taskCancel context.CancelFunc

	sigCh chan os.Signal

	// chatAdmin reports whether userID is an administrator (or the
	// creator) of chatID. Overridable in tests.
	chatAdmin func(ctx context.Context, chatID, userID int64) bool
}

// New creates a bot client from config. The staff store must already
// be open; the bot takes ownership and closes it on shutdown.
func New(cfg *config.Config, st store.StaffStore, plugins []Plugin) (*Bot, error) {
	api, err := telego.NewBot(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := &Bot{
		cfg:       cfg,
		api:       api,
		store:     st,
		staff:     NewStaffList(cfg.Telegram.OwnerID),
		plugins:   plugins,
		startTime: time.Now(),
		sigCh:     make(chan os.Signal, 1),
	}
	if cfg.RateLimit.PerMinute > 0 {
		b.limiter = newSenderLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	}
	b.chatAdmin = b.isChatAdmin
	return b, nil
}

// API exposes the underlying Telegram client for plugins that need
// calls beyond the reply helper.
func (b *Bot) API() *telego.Bot { return b.api }

// Store exposes the staff store for plugins that manage staff records.
func (b *Bot) Store() store.StaffStore { return b.store }

// Staff exposes the in-memory staff registry.
func (b *Bot) Staff() *StaffList { return b.staff }

// Uptime returns how long the bot has been up.
func (b *Bot) Uptime() time.Duration { return time.Since(b.startTime) }

// Reply sends text to the chat of msg as a reply to it.
func (b *Bot) Reply(ctx context.Context, msg *telego.Message, text string) error {
	params := tu.Message(tu.ID(msg.Chat.ID), text)
	params.ReplyParameters = &telego.ReplyParameters{MessageID: msg.MessageID}
	if _, err := b.api.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// username returns the bot's own username, known after Start.
func (b *Bot) username() string {
	if b.me == nil {
		return ""
	}
	return b.me.Username
}

// isChatAdmin checks admin status via the Bot API. Lookup failures
// count as not-admin.
func (b *Bot) isChatAdmin(ctx context.Context, chatID, userID int64) bool {
	member, err := b.api.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: tu.ID(chatID),
		UserID: userID,
	})
	if err != nil {
		return false
	}
	switch member.MemberStatus() {
	case telego.MemberStatusCreator, telego.MemberStatusAdministrator:
		return true
	}
	return false
}

// FormatUptime renders a duration as "1d 2h 3m 4s", dropping leading
// zero units.
func FormatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
