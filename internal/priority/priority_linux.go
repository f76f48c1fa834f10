//go:build linux

package priority

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Linux is the real-time SCHED_FIFO implementation, the Go analogue of the
// original's pthread_setschedparam(SCHED_FIFO, ...) calls in main.rs and
// watchdog.rs. It operates on the calling OS thread, so callers must have
// locked themselves to that thread with runtime.LockOSThread first.
type Linux struct{}

var _ Controller = Linux{}

// NewLinux returns the Linux SCHED_FIFO controller.
func NewLinux() Linux { return Linux{} }

// SetFIFO sets the calling thread's scheduling policy to SCHED_FIFO with
// the given priority.
func (Linux) SetFIFO(prio int) error {
	param := &unix.SchedParam{Priority: int32(prio)}
	if err := unix.SchedSetscheduler(0, unix.SCHED_FIFO, param); err != nil {
		return fmt.Errorf("sched_setscheduler(SCHED_FIFO, %d): %w", prio, err)
	}
	return nil
}
