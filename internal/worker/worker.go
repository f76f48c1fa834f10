// Package worker implements the priority-inheriting worker (C6): it
// dequeues from C1, temporarily raises its own OS scheduling priority,
// invokes the reconciliation action (C5) synchronously, restores its
// baseline priority, and self-terminates when the pool is over-provisioned.
// Grounded on the teacher's runWorker/processNextWorkItem loop shape
// (controller.go) and the priority-change/self-termination steps of
// original_source/controller/src/components/watchdog.rs.
package worker

import (
	"context"
	"errors"
	"runtime"

	"k8s.io/klog/v2"

	"rtcritical/rtresource-controller/internal/priority"
	"rtcritical/rtresource-controller/internal/queue"
	"rtcritical/rtresource-controller/internal/reconcile"
	"rtcritical/rtresource-controller/internal/supervisor"
)

// Worker is one instance of C6, bound to a fixed slot in C2's table.
type Worker struct {
	ID        int
	SlotIndex int

	Queue    *queue.Queue
	State    *supervisor.State
	Priority priority.Controller
	Action   *reconcile.Action

	// Done, if set, is closed when Run returns, letting the supervisor
	// join this worker on fatal-degraded exit (spec.md §4.7 "Robustness").
	Done chan<- struct{}
}

// Run is the worker's unbounded dequeue loop (spec.md §4.6). It returns
// when the worker self-terminates (over-provisioned), when the queue is
// closed, or when ctx is found cancelled before the next Receive; a
// Receive that is already blocking is not interrupted by cancellation.
// SCHED_FIFO priority is a per-OS-thread property, so the goroutine locks
// itself to one OS thread for its whole lifetime.
func (w *Worker) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if w.Done != nil {
		defer close(w.Done)
	}

	for {
		if ctx.Err() != nil {
			return
		}

		msg, band, err := w.Queue.Receive()
		if err != nil {
			if errors.Is(err, queue.ErrClosed) {
				return
			}
			klog.ErrorS(err, "worker: receive failed, continuing", "worker", w.ID)
			continue
		}

		w.State.MarkBusy()

		if err := w.Priority.SetFIFO(priority.ForEvent(band)); err != nil {
			klog.ErrorS(err, "worker: failed to raise priority", "worker", w.ID, "band", band)
		}

		if err := w.Action.Reconcile(ctx, msg); err != nil {
			klog.ErrorS(err, "worker: reconcile returned unexpected error", "worker", w.ID, "name", msg.Name, "correlationID", msg.CorrelationID)
		}

		if err := w.Priority.SetFIFO(priority.Baseline); err != nil {
			klog.ErrorS(err, "worker: failed to restore baseline priority", "worker", w.ID)
		}

		if w.State.FinishEvent(w.SlotIndex) {
			klog.InfoS("worker: pool over-provisioned, terminating", "worker", w.ID, "slot", w.SlotIndex)
			return
		}
	}
}
