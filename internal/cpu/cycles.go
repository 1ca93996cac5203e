package cpu

import (
	"math"
	"sync"
	"time"
)

// Counter brackets a measured region with a pair of timestamps.
//
// Start serializes execution before reading the counter, so no earlier
// instruction is still in flight when the timestamp is taken. Stop reads the
// counter only after every earlier instruction has retired and serializes
// afterwards, so no later instruction is hoisted into the measured region.
// Stop() - Start() is the elapsed count for everything issued in between,
// including the fixed cost of the serializing instructions themselves.
type Counter interface {
	Start() uint64
	Stop() uint64
}

// TSC is the hardware cycle counter backend (RDTSC/RDTSCP on amd64,
// CNTVCT_EL0 on arm64). On platforms without assembly support it behaves
// like Clock.
type TSC struct{}

// Start implements Counter.
func (TSC) Start() uint64 { return startCycles() }

// Stop implements Counter.
func (TSC) Stop() uint64 { return stopCycles() }

// FrequencyHz returns the hardware counter rate, see CounterFrequencyHz.
func (TSC) FrequencyHz() uint64 { return CounterFrequencyHz() }

// Clock is the portable backend. It counts nanoseconds of the monotonic
// clock, so cycle-level precision is lost and short regions may read as zero.
type Clock struct{}

var clockEpoch = time.Now()

// Start implements Counter.
func (Clock) Start() uint64 {
	Fence()

	return uint64(time.Since(clockEpoch))
}

// Stop implements Counter.
func (Clock) Stop() uint64 {
	t := uint64(time.Since(clockEpoch))
	Fence()

	return t
}

// FrequencyHz reports the nanosecond clock as a 1 GHz counter.
func (Clock) FrequencyHz() uint64 { return 1_000_000_000 }

// FrequencyOf returns the tick rate of c, or 0 when c does not report one.
func FrequencyOf(c Counter) uint64 {
	f, ok := c.(interface{ FrequencyHz() uint64 })
	if !ok {
		return 0
	}

	return f.FrequencyHz()
}

// NewCounter returns the hardware counter when the processor provides the
// required instructions and detection is not forced generic, and Clock
// otherwise.
func NewCounter() Counter {
	f := DetectFeatures()
	if f.ForceGeneric || !f.HasCycleCounter {
		return Clock{}
	}

	return TSC{}
}

// ReadCycleCounter reads the CPU's cycle counter (TSC on x86, CNTVCT on ARM)
// without serialization. Use Counter for measurements.
func ReadCycleCounter() uint64 {
	return readCycleCounter()
}

// CyclesSince returns the number of cycles elapsed since the given start cycle count.
func CyclesSince(start uint64) uint64 {
	return ReadCycleCounter() - start
}

// Overhead returns the smallest Stop-Start difference of c over samples
// empty regions. This is the fixed cost included in every measurement.
func Overhead(c Counter, samples int) uint64 {
	ovhd := uint64(math.MaxUint64)

	for range max(samples, 1) {
		start := c.Start()
		delta := c.Stop() - start

		if delta < ovhd {
			ovhd = delta
		}
	}

	return ovhd
}

var (
	frequencyOnce sync.Once
	frequencyHz   uint64
)

// CounterFrequencyHz returns the rate of the hardware counter.
// On ARM64 this is read from CNTFRQ_EL0; on AMD64 it is calibrated once
// against the wall clock on first use. Returns 0 if calibration failed.
func CounterFrequencyHz() uint64 {
	frequencyOnce.Do(func() {
		frequencyHz = getCounterFrequencyHz()
		if frequencyHz == 0 {
			frequencyHz = calibrateCycleCounter()
		}
	})

	return frequencyHz
}

// TicksToNanoseconds converts a tick count of c to approximate nanoseconds.
// It reports false when the rate of c is unknown. The conversion should only
// be used for reporting purposes.
func TicksToNanoseconds(c Counter, ticks uint64) (float64, bool) {
	freq := FrequencyOf(c)
	if freq == 0 {
		return 0, false
	}

	return float64(ticks) * 1e9 / float64(freq), true
}

// calibrateCycleCounter estimates the counter frequency by measuring cycles
// over a known time period.
func calibrateCycleCounter() uint64 {
	const calibrationDuration = 10 * time.Millisecond

	start := time.Now()
	startCycles := ReadCycleCounter()

	for time.Since(start) < calibrationDuration {
		// Spin
	}

	cycles := CyclesSince(startCycles)
	elapsed := time.Since(start)

	if elapsed <= 0 || cycles == 0 || cycles > math.MaxInt64 {
		return 0
	}

	return uint64(float64(cycles) / elapsed.Seconds())
}
