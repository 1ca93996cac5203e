//go:build amd64 && !purego

package cpu

// readCycleCounter reads the CPU timestamp counter using RDTSC.
// Implemented in cycles_amd64.s
//
//go:noescape
func readCycleCounter() uint64

// startCycles executes CPUID followed by RDTSC.
//
//go:noescape
func startCycles() uint64

// stopCycles executes RDTSCP followed by CPUID.
//
//go:noescape
func stopCycles() uint64

// cpuid executes the CPUID instruction with the given EAX and ECX inputs.
// Returns EAX, EBX, ECX, EDX outputs.
//
//go:noescape
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)

// Fence executes MFENCE. Being an assembly call it is also opaque to the
// compiler: no load or store is moved or eliminated across it.
//
//go:noescape
func Fence()

// getCounterFrequencyHz returns 0: the TSC rate is not architecturally
// visible and has to be calibrated.
func getCounterFrequencyHz() uint64 {
	return 0
}
