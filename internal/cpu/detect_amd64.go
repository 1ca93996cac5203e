//go:build amd64 && !purego

package cpu

const (
	tscBit          = 1 << 4  // CPUID.01H:EDX[4]
	rdtscpBit       = 1 << 27 // CPUID.80000001H:EDX[27]
	invariantTSCBit = 1 << 8  // CPUID.80000007H:EDX[8]
)

// detectCounter fills the counter flags from raw CPUID leaves, which
// golang.org/x/sys/cpu does not expose.
func detectCounter(f *Features) {
	maxStd, _, _, _ := cpuid(0, 0)
	if maxStd >= 1 {
		_, _, _, edx := cpuid(1, 0)
		f.HasTSC = edx&tscBit != 0
	}

	maxExt, _, _, _ := cpuid(0x80000000, 0)
	if maxExt >= 0x80000001 {
		_, _, _, edx := cpuid(0x80000001, 0)
		f.HasRDTSCP = edx&rdtscpBit != 0
	}

	if maxExt >= 0x80000007 {
		_, _, _, edx := cpuid(0x80000007, 0)
		f.HasInvariantTSC = edx&invariantTSCBit != 0
	}

	f.HasCycleCounter = f.HasTSC && f.HasRDTSCP
}
