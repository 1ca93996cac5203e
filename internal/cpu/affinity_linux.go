//go:build linux

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PinToCPU locks the calling goroutine to its OS thread and restricts that
// thread to the given CPU. The goroutine stays locked afterwards.
func PinToCPU(id int) error {
	runtime.LockOSThread()

	var set unix.CPUSet

	set.Zero()
	set.Set(id)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("cpu: pin to cpu %d: %w", id, err)
	}

	return nil
}

// AllowedCPUs returns the CPU ids the calling thread may run on.
func AllowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("cpu: read affinity: %w", err)
	}

	ids := make([]int, 0, set.Count())

	for id := range len(set) * 64 {
		if set.IsSet(id) {
			ids = append(ids, id)
		}
	}

	return ids, nil
}
