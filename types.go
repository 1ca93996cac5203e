package sortcycles

import "github.com/cwbudde/sortcycles/internal/cpu"

// Counter brackets a measured region with serialized timestamp reads.
// The canonical definition is in internal/cpu.
type Counter = cpu.Counter

// HardwareCounter returns the best counter for this processor: the cycle
// counter when it is available, the monotonic clock otherwise.
func HardwareCounter() Counter {
	return cpu.NewCounter()
}
