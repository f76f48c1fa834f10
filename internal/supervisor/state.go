// Package supervisor implements the shared supervisor state (C2) and the
// autoscaling supervisor (C7). Grounded on
// original_source/controller/src/utils/vars.rs (SharedState/Worker) for
// the counters+slot-table shape and
// original_source/controller/src/components/event_server.rs for the
// growth algorithm; sync.Mutex/sync.Cond stand in for the pthread
// mutex/condvar pair (spec.md §9: "avoid process-wide statics in the
// reimplementation").
package supervisor

import (
	"sync"

	"rtcritical/rtresource-controller/internal/config"
)

// Slot is one entry of C2's fixed-capacity worker table (spec.md §3). Done
// is closed by the worker bound to this slot when its Run loop returns,
// giving the supervisor something to pthread_join-style wait on (spec.md
// §4.7 "Robustness": fatal-degraded exit joins still-active workers before
// returning).
type Slot struct {
	WorkerID int
	Active   bool
	Done     chan struct{}
}

// State is C2: the pool counters, the slot table, and the mutex+condvar
// (M/V in spec.md §4.2) guarding them. All three counters and every slot
// are only ever mutated under mu.
type State struct {
	mu   sync.Mutex
	cond *sync.Cond

	Config config.Controller

	activeThreads  int
	workingThreads int
	slots          []Slot
	nextWorkerID   int
}

// NewState allocates an empty slot table sized to MaxWatchdogs, matching
// new_shared_state's `vec![Worker{id:0,active:false}; workers_number]`.
func NewState(cfg config.Controller) *State {
	s := &State{
		Config: cfg,
		slots:  make([]Slot, cfg.MaxWatchdogs),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Snapshot is a point-in-time, lock-free copy of the counters, for tests
// checking invariants P1/P2.
type Snapshot struct {
	ActiveThreads  int
	WorkingThreads int
	Slots          []Slot
}

// Snapshot returns a defensive copy of the current counters and slot table.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := make([]Slot, len(s.slots))
	copy(slots, s.slots)
	return Snapshot{ActiveThreads: s.activeThreads, WorkingThreads: s.workingThreads, Slots: slots}
}

// FindFreeSlot returns the index of the first slot with Active == false.
// Only the supervisor goroutine calls this (C7 is a single instance per
// spec.md §2), so no reservation bookkeeping beyond the read is needed.
func (s *State) FindFreeSlot() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.slots {
		if !s.slots[i].Active {
			return i, true
		}
	}
	return 0, false
}

// ActivateSlot marks slot index active and assigns it a fresh worker id,
// called "immediately after spawn succeeds" per spec.md §4.7 step 3. done
// is the worker's completion signal, closed by the worker itself when it
// returns; it is stored in the slot so a later join can wait on it.
func (s *State) ActivateSlot(index int, done chan struct{}) (workerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextWorkerID++
	id := s.nextWorkerID
	s.slots[index] = Slot{WorkerID: id, Active: true, Done: done}
	return id
}

// ActiveDoneChannels returns the completion channel of every currently
// active slot, for the fatal-degraded join in Supervisor.Run.
func (s *State) ActiveDoneChannels() []chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	done := make([]chan struct{}, 0, len(s.slots))
	for _, slot := range s.slots {
		if slot.Active && slot.Done != nil {
			done = append(done, slot.Done)
		}
	}
	return done
}

// SetActiveThreads sets active_threads under M, per spec.md §4.7 step 3's
// "Update active_threads := new_active under M, then release M."
func (s *State) SetActiveThreads(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeThreads = n
}

// Bootstrap performs C7's bootstrap step: active_threads := min_watchdogs.
// Slot activation for the initial workers still goes through
// FindFreeSlot/ActivateSlot so the table stays the single source of truth.
func (s *State) Bootstrap() {
	s.SetActiveThreads(s.Config.MinWatchdogs)
}

// MarkBusy implements spec.md §4.6 step 2: working_threads++ under M,
// signal V.
func (s *State) MarkBusy() {
	s.mu.Lock()
	s.workingThreads++
	s.mu.Unlock()
	s.cond.Broadcast()
}

// FinishEvent implements spec.md §4.6 step 6 and its termination cleanup,
// all under one critical section: working_threads--; signal V; decide
// whether the worker is now over-provisioned and, if so, release its slot
// and decrement active_threads in the same section. Returns true if the
// caller must terminate.
func (s *State) FinishEvent(slotIndex int) (terminate bool) {
	s.mu.Lock()
	s.workingThreads--
	idle := s.activeThreads - s.workingThreads
	if idle > s.Config.Threshold && s.activeThreads > s.Config.MinWatchdogs {
		s.slots[slotIndex] = Slot{}
		s.activeThreads--
		terminate = true
	}
	s.mu.Unlock()
	s.cond.Broadcast()
	return terminate
}

// WaitForWorkingChange blocks (spec.md §4.7 step 1, edge-triggered) until
// working_threads differs from last, then returns (workingThreads,
// activeThreads) read under the same acquisition.
func (s *State) WaitForWorkingChange(last int) (workingThreads, activeThreads int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.workingThreads == last {
		s.cond.Wait()
	}
	return s.workingThreads, s.activeThreads
}

// ActiveThreads returns the current active_threads count under lock.
func (s *State) ActiveThreads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeThreads
}
