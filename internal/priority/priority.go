// Package priority abstracts OS scheduling-priority manipulation behind a
// narrow capability, per spec.md §9 Design Notes: "expose priority changes
// behind an abstract PriorityController capability; provide a real-time
// FIFO implementation on systems that support it and a no-op on those that
// do not." The engine's correctness never depends on this taking effect —
// only the queue's band ordering does.
package priority

// Baseline is the idle-worker FIFO priority (spec.md §5).
const Baseline = 94

// Supervisor is the FIFO priority the autoscaling supervisor runs at.
const Supervisor = 95

// Watcher is the FIFO priority the resource/pod watchers run at.
const Watcher = 96

// Controller raises or restores the calling goroutine's OS thread
// scheduling priority. Because criticality is carried as a per-event band
// rather than a per-goroutine OS thread (Go goroutines are not 1:1 with OS
// threads in general), an implementation is free to treat this as
// best-effort; see Linux for the real SCHED_FIFO realization and Noop for
// platforms/tests that don't need it.
type Controller interface {
	// SetFIFO sets the real-time FIFO priority to prio. Higher values run
	// preferentially over lower ones under contention.
	SetFIFO(prio int) error
}

// ForEvent computes a worker's temporary priority while servicing an event
// in the given criticality band, per spec.md §4.6 step 3: "94 - band".
func ForEvent(band uint32) int {
	return Baseline - int(band)
}
