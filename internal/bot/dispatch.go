package bot

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mymmrac/telego"
	"golang.org/x/time/rate"
)

// HandlerFunc handles one matched message.
type HandlerFunc func(ctx context.Context, msg *telego.Message) error

type registration struct {
	group   int
	order   int // registration order, ties within a group
	filter  Filter
	handler HandlerFunc
	cmds    []string
}

type commandOpts struct {
	filter Filter
	admin  bool
	staff  bool
	group  int
}

// CommandOption customizes a command registration.
type CommandOption func(*commandOpts)

// WithFilter conjoins an extra predicate with the command-name filter.
func WithFilter(f Filter) CommandOption {
	return func(o *commandOpts) { o.filter = f }
}

// AdminOnly restricts the command to chat administrators, in groups
// where the bot is itself an administrator. Takes precedence over
// StaffOnly when both are set.
func AdminOnly() CommandOption {
	return func(o *commandOpts) { o.admin = true }
}

// StaffOnly restricts the command to the staff registry (owner, dev,
// sudo).
func StaffOnly() CommandOption {
	return func(o *commandOpts) { o.staff = true }
}

// WithGroup sets the dispatch group. Groups run in ascending order;
// within a group the first matching handler wins. Default 0.
func WithGroup(group int) CommandOption {
	return func(o *commandOpts) { o.group = group }
}

// OnCommand registers handler for the given command names with the
// composed permission filter. Registration order is preserved within a
// dispatch group. Must be called before Start finishes (plugins
// register during startup).
func (b *Bot) OnCommand(cmds []string, handler HandlerFunc, opts ...CommandOption) {
	var o commandOpts
	for _, opt := range opts {
		opt(&o)
	}

	filter := b.commandFilter(cmds...)
	if o.filter != nil {
		filter = And(filter, o.filter)
	}
	if o.admin {
		filter = And(filter, b.adminFilter(), b.botAdminFilter())
	} else if o.staff {
		filter = And(filter, b.staffFilter())
	}

	b.registrations = append(b.registrations, registration{
		group:   o.group,
		order:   len(b.registrations),
		filter:  filter,
		handler: handler,
		cmds:    cmds,
	})
}

// sortRegistrations orders handlers by group, then registration order.
// Called once after plugin loading.
func (b *Bot) sortRegistrations() {
	sort.SliceStable(b.registrations, func(i, j int) bool {
		if b.registrations[i].group != b.registrations[j].group {
			return b.registrations[i].group < b.registrations[j].group
		}
		return b.registrations[i].order < b.registrations[j].order
	})
}

// dispatchMessage walks the sorted registrations: every dispatch group
// sees the message, and within a group only the first matching handler
// runs. Handler errors are logged, never fatal.
func (b *Bot) dispatchMessage(ctx context.Context, msg *telego.Message) {
	matchedGroup := false
	currentGroup := 0

	for i, reg := range b.registrations {
		if i == 0 || reg.group != currentGroup {
			currentGroup = reg.group
			matchedGroup = false
		}
		if matchedGroup || !reg.filter(ctx, msg) {
			continue
		}
		matchedGroup = true

		if b.limiter != nil && msg.From != nil && !b.limiter.Allow(msg.From.ID) {
			slog.Debug("command rate limited", "user", msg.From.ID, "cmds", reg.cmds)
			return
		}
		if err := reg.handler(ctx, msg); err != nil {
			slog.Error("command handler failed", "cmds", reg.cmds, "error", err)
		}
	}
}

// maxTrackedSenders caps the per-sender limiter map so rotating sender
// IDs cannot exhaust memory.
const maxTrackedSenders = 4096

// senderLimiter applies a token bucket per sender ID.
type senderLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets map[int64]*rate.Limiter
}

func newSenderLimiter(perMinute, burst int) *senderLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &senderLimiter{
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		buckets: make(map[int64]*rate.Limiter),
	}
}

// Allow reports whether the sender may run a command now.
func (l *senderLimiter) Allow(senderID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.buckets[senderID]
	if !ok {
		// Hard eviction at the cap (map iteration order is as good as
		// any victim choice here).
		for len(l.buckets) >= maxTrackedSenders {
			for k := range l.buckets {
				delete(l.buckets, k)
				break
			}
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.buckets[senderID] = lim
	}
	return lim.Allow()
}
