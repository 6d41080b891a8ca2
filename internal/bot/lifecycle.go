package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/mymmrac/telego"
	"golang.org/x/sync/errgroup"
)

type state int

const (
	stateCreated state = iota
	stateStarting
	stateRunning
	stateStopping
	stateStopped
)

// pollDrainTimeout bounds how long shutdown waits for the update
// consumer to exit after the polling context is cancelled.
const pollDrainTimeout = 10 * time.Second

// Start brings the bot up: database ping, plugin loading, staff load,
// then long polling. Steps run strictly in that order because each
// depends on the previous one. Any failure aborts startup; no partial
// recovery is attempted.
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.state != stateCreated && b.state != stateStopped {
		b.mu.Unlock()
		return fmt.Errorf("bot already started")
	}
	b.state = stateStarting
	b.mu.Unlock()

	slog.Info("setting up bot client")

	if err := b.store.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}

	slog.Info("loading plugins", "count", len(b.plugins))
	if err := b.loadPlugins(); err != nil {
		return err
	}
	b.sortRegistrations()

	if err := b.staff.Load(ctx, b.store); err != nil {
		return fmt.Errorf("load staff: %w", err)
	}

	me, err := b.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("get bot identity: %w", err)
	}
	b.me = me

	pollCtx, cancel := context.WithCancel(ctx)
	updates, err := b.api.UpdatesViaLongPolling(pollCtx, &telego.GetUpdatesParams{
		Timeout:        30,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		cancel()
		return fmt.Errorf("start long polling: %w", err)
	}
	b.pollCancel = cancel
	b.pollDone = make(chan struct{})

	taskCtx, taskCancel := context.WithCancel(context.Background())
	b.tasks, b.taskCtx = errgroup.WithContext(taskCtx)
	b.taskCancel = taskCancel

	go b.consumeUpdates(pollCtx, updates)

	b.mu.Lock()
	b.state = stateRunning
	b.initialized = true
	b.mu.Unlock()

	slog.Info("bot client started", "username", me.Username)
	return nil
}

// Go runs fn as a tracked background task. Tracked tasks are cancelled
// first during shutdown, before the client stops.
func (b *Bot) Go(name string, fn func(context.Context) error) {
	if b.tasks == nil {
		slog.Warn("background task submitted before start", "task", name)
		return
	}
	b.tasks.Go(func() error {
		if err := fn(b.taskCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("background task failed", "task", name, "error", err)
		}
		return nil
	})
}

// Run blocks until shutdown. With a one-shot task, the task runs to
// completion (or a signal interrupts it) and then the bot shuts down.
// Without one, the bot idles until SIGHUP, SIGTERM, or SIGINT arrives;
// the three signals have identical effect.
func (b *Bot) Run(ctx context.Context, task func(context.Context) error) error {
	signal.Notify(b.sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(b.sigCh)

	var taskErr error
	if task != nil {
		slog.Info("running one-shot task")
		done := make(chan error, 1)
		go func() { done <- task(ctx) }()
		select {
		case taskErr = <-done:
		case sig := <-b.sigCh:
			slog.Info("received stop signal, exiting", "signal", sig.String())
		case <-ctx.Done():
		}
	} else {
		slog.Info("idling")
		select {
		case sig := <-b.sigCh:
			slog.Info("received stop signal, exiting", "signal", sig.String())
		case <-ctx.Done():
		}
	}

	b.Shutdown()
	return taskErr
}

// Shutdown runs the stop sequence exactly once: cancel tracked tasks,
// stop the client if it was started, close the staff store. Later
// calls (a second signal, a concurrent delivery) find a non-runnable
// state and return immediately. Errors are logged and suppressed so
// the process still exits cleanly.
func (b *Bot) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateStopping || b.state == stateStopped {
		return
	}
	b.state = stateStopping
	slog.Info("disconnecting...")

	if b.taskCancel != nil {
		b.taskCancel()
		_ = b.tasks.Wait()
	}

	if b.initialized {
		if b.pollCancel != nil {
			b.pollCancel()
		}
		if b.pollDone != nil {
			select {
			case <-b.pollDone:
			case <-time.After(pollDrainTimeout):
				slog.Warn("update consumer did not exit within timeout")
			}
		}
		if err := b.store.Close(); err != nil {
			slog.Warn("database close failed", "error", err)
		}
		b.initialized = false
	}

	b.state = stateStopped
	slog.Info("bot stopped")
}

// consumeUpdates feeds the dispatcher from the long-polling channel
// until the polling context is cancelled or the channel closes.
func (b *Bot) consumeUpdates(ctx context.Context, updates <-chan telego.Update) {
	defer close(b.pollDone)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				slog.Info("updates channel closed")
				return
			}
			if update.Message != nil {
				b.dispatchMessage(ctx, update.Message)
			} else {
				slog.Debug("update skipped (no message)", "update_id", update.UpdateID)
			}
		}
	}
}
