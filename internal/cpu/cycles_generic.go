//go:build (!amd64 && !arm64) || purego

package cpu

import (
	"sync/atomic"
	"time"
)

var fenceWord atomic.Uint64

// readCycleCounter falls back to the monotonic clock on platforms without
// assembly support. Returns nanoseconds since package initialization.
func readCycleCounter() uint64 {
	return uint64(time.Since(clockEpoch))
}

func startCycles() uint64 {
	Fence()

	return readCycleCounter()
}

func stopCycles() uint64 {
	t := readCycleCounter()
	Fence()

	return t
}

// getCounterFrequencyHz reports the nanosecond clock as a 1 GHz counter.
func getCounterFrequencyHz() uint64 {
	return 1_000_000_000
}

// Fence is a sequentially consistent read-modify-write. The Go memory model
// orders every load and store of the calling goroutine around it.
func Fence() {
	fenceWord.Add(1)
}
