//go:build !linux

package priority

// Noop is the no-op PriorityController for platforms without real-time
// FIFO scheduling support (spec.md §9: "the engine must remain correct
// when priorities are ignored").
type Noop struct{}

var _ Controller = Noop{}

// NewLinux falls back to Noop outside Linux so callers can construct the
// "best available" controller without a build-tag switch of their own.
func NewLinux() Noop { return Noop{} }

// SetFIFO does nothing.
func (Noop) SetFIFO(prio int) error { return nil }
