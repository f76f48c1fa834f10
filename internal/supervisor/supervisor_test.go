package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"rtcritical/rtresource-controller/internal/config"
)

func testConfig(min, max, threshold int) config.Controller {
	return config.Controller{MinWatchdogs: min, MaxWatchdogs: max, Threshold: threshold, EventQueue: "/eventqueue"}
}

// TestBootstrapInvariants checks I1-I4 immediately after bootstrap.
func TestBootstrapInvariants(t *testing.T) {
	state := NewState(testConfig(2, 8, 3))
	sup := New(state, func(ctx context.Context, slotIndex int, done chan<- struct{}) error { return nil })

	if err := sup.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	snap := state.Snapshot()
	if snap.ActiveThreads != 2 {
		t.Fatalf("expected active_threads=2, got %d", snap.ActiveThreads)
	}
	activeSlots := 0
	for _, s := range snap.Slots {
		if s.Active {
			activeSlots++
		}
	}
	if activeSlots != snap.ActiveThreads {
		t.Fatalf("expected %d active slots, got %d", snap.ActiveThreads, activeSlots)
	}
}

// TestGrowthOnIdleShortage exercises S5: min=2, max=8, threshold=3, two
// workers busy -> idle=0 < threshold, needed=3, new_active=min(2+3,8)=5.
func TestGrowthOnIdleShortage(t *testing.T) {
	state := NewState(testConfig(2, 8, 3))
	var spawnCount int32
	sup := New(state, func(ctx context.Context, slotIndex int, done chan<- struct{}) error {
		atomic.AddInt32(&spawnCount, 1)
		return nil
	})

	if err := sup.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = sup.Run(ctx)
		close(done)
	}()

	state.MarkBusy()
	state.MarkBusy()

	// Give the supervisor goroutine a chance to observe the change and grow.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if state.ActiveThreads() == 5 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := state.ActiveThreads(); got != 5 {
		t.Fatalf("expected active_threads=5, got %d", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervisor did not exit after cancellation")
	}
}

// TestPoolNeverExceedsMax checks I1 holds even when idle stays below
// threshold across repeated growth triggers.
func TestPoolNeverExceedsMax(t *testing.T) {
	state := NewState(testConfig(1, 3, 2))
	sup := New(state, func(ctx context.Context, slotIndex int, done chan<- struct{}) error { return nil })
	if err := sup.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sup.Run(ctx) }()

	for i := 0; i < 5; i++ {
		state.MarkBusy()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(50 * time.Millisecond)
	if got := state.ActiveThreads(); got > 3 {
		t.Fatalf("active_threads exceeded max_watchdogs: %d", got)
	}
}

// TestFinishEventTerminatesWhenOverProvisioned checks §4.6 step 6 and the
// I5 slot-release contract.
func TestFinishEventTerminatesWhenOverProvisioned(t *testing.T) {
	state := NewState(testConfig(1, 8, 1))
	state.SetActiveThreads(5)
	for i := 0; i < 5; i++ {
		state.ActivateSlot(i, make(chan struct{}))
	}

	// No workers busy: FinishEvent decrements working_threads to -1, so
	// idle = 5 - (-1) = 6 > threshold(1), and active(5) > min(1), so
	// finishing an event must terminate the worker.
	terminate := state.FinishEvent(0)
	if !terminate {
		t.Fatal("expected worker to terminate when over-provisioned")
	}
	snap := state.Snapshot()
	if snap.ActiveThreads != 4 {
		t.Fatalf("expected active_threads=4 after termination, got %d", snap.ActiveThreads)
	}
	if snap.Slots[0].Active {
		t.Fatal("expected slot 0 to be released")
	}
}

// TestFinishEventKeepsMinimum ensures I3: a worker never terminates itself
// below min_watchdogs.
func TestFinishEventKeepsMinimum(t *testing.T) {
	state := NewState(testConfig(2, 8, 1))
	state.SetActiveThreads(2)
	state.ActivateSlot(0, make(chan struct{}))
	state.ActivateSlot(1, make(chan struct{}))

	terminate := state.FinishEvent(0)
	if terminate {
		t.Fatal("worker must not terminate below min_watchdogs")
	}
	if got := state.ActiveThreads(); got != 2 {
		t.Fatalf("expected active_threads unchanged at 2, got %d", got)
	}
}

// TestFatalDegradedJoinsActiveWorkers exercises spec.md §4.7 "Robustness":
// more than 5 consecutive spawn failures within one growth round must make
// Run return a wrapped error, and only after joining every still-active
// worker's Done channel.
func TestFatalDegradedJoinsActiveWorkers(t *testing.T) {
	state := NewState(testConfig(1, 20, 10))

	var calls int32
	sup := New(state, func(ctx context.Context, slotIndex int, done chan<- struct{}) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			// The bootstrap worker "exits" immediately, so the later join
			// has something already-closed to wait on.
			close(done)
			return nil
		}
		return errors.New("spawn failure")
	})

	if err := sup.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state.MarkBusy() // idle=0 against threshold=10 demands toSpawn=10, all of which fail.

	errCh := make(chan error, 1)
	go func() { errCh <- sup.Run(ctx) }()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected a fatal-degraded error after repeated spawn failures")
		}
	case <-time.After(time.Second):
		t.Fatal("supervisor did not return after repeated spawn failures (or hung joining workers)")
	}
}
