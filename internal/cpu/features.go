package cpu

import (
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

// Features describes the processor capabilities relevant to cycle counting.
type Features struct {
	// HasTSC reports the RDTSC instruction (amd64).
	HasTSC bool
	// HasRDTSCP reports the RDTSCP instruction used by Counter.Stop (amd64).
	HasRDTSCP bool
	// HasInvariantTSC reports a TSC that ticks at a constant rate across
	// P-, C- and T-state transitions (amd64).
	HasInvariantTSC bool
	// HasCycleCounter reports that TSC implements the serialized
	// start/stop pair on this processor.
	HasCycleCounter bool

	HasSSE2   bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool

	// ForceGeneric makes NewCounter return the Clock backend.
	ForceGeneric bool

	Architecture string
}

var (
	detectOnce sync.Once
	detected   Features

	forcedMu sync.RWMutex
	forced   *Features
)

// DetectFeatures reports the available CPU features for the current process.
// The result is cached after the first call unless overridden with
// SetForcedFeatures.
func DetectFeatures() Features {
	forcedMu.RLock()
	f := forced
	forcedMu.RUnlock()

	if f != nil {
		return *f
	}

	detectOnce.Do(func() {
		detected = detectFeaturesImpl()
	})

	return detected
}

// SetForcedFeatures overrides detection until ResetDetection is called.
func SetForcedFeatures(f Features) {
	forcedMu.Lock()
	defer forcedMu.Unlock()

	if f.Architecture == "" {
		f.Architecture = runtime.GOARCH
	}

	forced = &f
}

// ResetDetection drops any forced features.
func ResetDetection() {
	forcedMu.Lock()
	defer forcedMu.Unlock()

	forced = nil
}

func detectFeaturesImpl() Features {
	f := Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512F,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
	detectCounter(&f)

	return f
}
