//go:build arm64 && !purego

package cpu

// readCycleCounter reads the virtual counter (CNTVCT_EL0).
// Implemented in cycles_arm64.s
//
//go:noescape
func readCycleCounter() uint64

// startCycles executes ISB followed by a CNTVCT_EL0 read.
//
//go:noescape
func startCycles() uint64

// stopCycles reads CNTVCT_EL0 between two ISB barriers.
//
//go:noescape
func stopCycles() uint64

// getCounterFrequencyHz reads the counter frequency from CNTFRQ_EL0.
//
//go:noescape
func getCounterFrequencyHz() uint64

// Fence executes DMB ISH.
//
//go:noescape
func Fence()
