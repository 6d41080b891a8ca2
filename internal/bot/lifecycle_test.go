package bot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// markRunning puts a test bot into the RUNNING state without starting
// a real client. The poll context is already cancelled and the
// consumer already drained, so Shutdown does not block.
func markRunning(b *Bot, initialized bool) {
	b.state = stateRunning
	b.initialized = initialized
	if initialized {
		b.pollCancel = func() {}
		done := make(chan struct{})
		close(done)
		b.pollDone = done
	}
}

func TestShutdownSkipsClientAndStoreWhenNotInitialized(t *testing.T) {
	st := &fakeStaffStore{}
	b := newTestBot(st)
	markRunning(b, false)

	b.Shutdown()

	if n := atomic.LoadInt32(&st.closeCalls); n != 0 {
		t.Fatalf("store closed %d times, want 0 for an uninitialized client", n)
	}
	if b.state != stateStopped {
		t.Fatalf("state = %d, want stopped", b.state)
	}
}

func TestShutdownRunsExactlyOnce(t *testing.T) {
	st := &fakeStaffStore{}
	b := newTestBot(st)
	markRunning(b, true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Shutdown()
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&st.closeCalls); n != 1 {
		t.Fatalf("store closed %d times, want exactly 1", n)
	}

	// Completed shutdown is terminal: a late call must not re-run the
	// stop sequence.
	b.Shutdown()
	if n := atomic.LoadInt32(&st.closeCalls); n != 1 {
		t.Fatalf("store closed %d times after late call, want 1", n)
	}
}

func TestSignalTriggersSingleShutdown(t *testing.T) {
	st := &fakeStaffStore{}
	b := newTestBot(st)
	markRunning(b, true)

	done := make(chan error, 1)
	go func() { done <- b.Run(context.Background(), nil) }()

	b.sigCh <- syscall.SIGTERM

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after signal")
	}

	if n := atomic.LoadInt32(&st.closeCalls); n != 1 {
		t.Fatalf("store closed %d times, want 1", n)
	}
	if b.state != stateStopped {
		t.Fatalf("state = %d, want stopped", b.state)
	}
}

func TestRunOneShotTaskThenShutdown(t *testing.T) {
	st := &fakeStaffStore{}
	b := newTestBot(st)
	markRunning(b, true)

	taskErr := errors.New("task failed")
	err := b.Run(context.Background(), func(context.Context) error {
		return taskErr
	})
	if !errors.Is(err, taskErr) {
		t.Fatalf("run error = %v, want the task error", err)
	}
	if b.state != stateStopped {
		t.Fatalf("state = %d, want stopped after one-shot task", b.state)
	}
}

func TestShutdownCancelsTrackedTasksFirst(t *testing.T) {
	st := &fakeStaffStore{}
	b := newTestBot(st)
	markRunning(b, true)

	taskCtx, taskCancel := context.WithCancel(context.Background())
	b.tasks, b.taskCtx = errgroup.WithContext(taskCtx)
	b.taskCancel = taskCancel

	taskExited := make(chan struct{})
	b.Go("idle", func(ctx context.Context) error {
		<-ctx.Done()
		close(taskExited)
		return ctx.Err()
	})

	b.Shutdown()

	select {
	case <-taskExited:
	default:
		t.Fatal("tracked task still running after shutdown")
	}
	if n := atomic.LoadInt32(&st.closeCalls); n != 1 {
		t.Fatalf("store closed %d times, want 1", n)
	}
}

func TestStartRejectsDoubleStart(t *testing.T) {
	b := newTestBot(&fakeStaffStore{})
	b.state = stateRunning

	if err := b.Start(context.Background()); err == nil {
		t.Fatal("expected an error starting a running bot")
	}
}
