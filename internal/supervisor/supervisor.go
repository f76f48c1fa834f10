package supervisor

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"
)

// maxSpawnFailures is the consecutive-failure threshold after which the
// supervisor enters the fatal-degraded state (spec.md §4.7 "Robustness").
const maxSpawnFailures = 5

// SpawnFunc starts one worker bound to the given slot index and returns an
// error only if the worker could not be started at all (spawn failure, not
// a reconciliation failure). On success the worker must close done when its
// run loop returns, so the supervisor can join it later.
type SpawnFunc func(ctx context.Context, slotIndex int, done chan<- struct{}) error

// Supervisor is C7: it bootstraps the initial worker pool, then blocks on
// C2's condition variable and grows the pool when idle capacity falls
// below threshold. It never shrinks the pool; shrinking is opportunistic
// and driven by workers themselves (spec.md §4.7 Note).
type Supervisor struct {
	State *State
	Spawn SpawnFunc
}

// New constructs a Supervisor over the given shared state and spawn
// function.
func New(state *State, spawn SpawnFunc) *Supervisor {
	return &Supervisor{State: state, Spawn: spawn}
}

// Bootstrap spawns min_watchdogs workers into slots 0..min-1, per spec.md
// §4.7 "Bootstrap". A bootstrap spawn failure is fatal-bootstrap (spec.md
// §7): the process cannot proceed without its initial pool.
func (s *Supervisor) Bootstrap(ctx context.Context) error {
	s.State.Bootstrap()
	for i := 0; i < s.State.Config.MinWatchdogs; i++ {
		idx, ok := s.State.FindFreeSlot()
		if !ok {
			return fmt.Errorf("supervisor: no free slot during bootstrap (index %d)", i)
		}
		done := make(chan struct{})
		if err := s.Spawn(ctx, idx, done); err != nil {
			return fmt.Errorf("supervisor: bootstrap worker spawn failed: %w", err)
		}
		s.State.ActivateSlot(idx, done)
	}
	return nil
}

// Run is C7's main loop (spec.md §4.7). It returns only on fatal-degraded
// exit (>5 consecutive spawn failures) or context cancellation.
func (s *Supervisor) Run(ctx context.Context) error {
	lastWorking := 0
	consecutiveFailures := 0

	// Cancelling ctx wakes the condition wait below.
	go func() {
		<-ctx.Done()
		s.State.mu.Lock()
		s.State.cond.Broadcast()
		s.State.mu.Unlock()
	}()

	for {
		s.State.mu.Lock()
		for s.State.workingThreads == lastWorking && ctx.Err() == nil {
			s.State.cond.Wait()
		}
		working, active := s.State.workingThreads, s.State.activeThreads
		s.State.mu.Unlock()
		if ctx.Err() != nil {
			return nil
		}
		lastWorking = working

		idle := active - working
		if idle >= s.State.Config.Threshold {
			continue
		}

		needed := s.State.Config.Threshold - idle
		newActive := active + needed
		if newActive > s.State.Config.MaxWatchdogs {
			newActive = s.State.Config.MaxWatchdogs
		}
		previousActive := active
		s.State.SetActiveThreads(newActive)

		toSpawn := newActive - previousActive
		for i := 0; i < toSpawn; i++ {
			idx, ok := s.State.FindFreeSlot()
			if !ok {
				klog.InfoS("Max Thread Number reached!")
				break
			}
			done := make(chan struct{})
			if err := s.Spawn(ctx, idx, done); err != nil {
				klog.ErrorS(err, "worker spawn failed")
				consecutiveFailures++
				if consecutiveFailures > maxSpawnFailures {
					klog.InfoS("supervisor entering fatal-degraded state, restart required")
					s.joinActiveWorkers()
					return fmt.Errorf("supervisor: %d consecutive spawn failures: %w", consecutiveFailures, err)
				}
				continue
			}
			s.State.ActivateSlot(idx, done)
			consecutiveFailures = 0
		}
	}
}

// joinActiveWorkers waits for every currently active worker's Done channel
// to close, the Go analogue of event_server.rs's pthread_join loop over
// shared_state.workers on fatal-degraded exit. Workers only return on
// context cancellation or self-termination (spec.md §4.6 step 6), so this
// is the same deliberate "wait for graceful shutdown" block the original
// performs rather than a guaranteed-prompt return.
func (s *Supervisor) joinActiveWorkers() {
	done := s.State.ActiveDoneChannels()
	if len(done) == 0 {
		return
	}
	klog.InfoS("waiting for currently active watchdogs to terminate for graceful shutdown", "count", len(done))
	for _, d := range done {
		<-d
	}
}
