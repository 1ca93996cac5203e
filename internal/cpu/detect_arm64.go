//go:build arm64 && !purego

package cpu

// detectCounter reports the generic timer, which ARMv8 makes readable from
// EL0 on every supported OS.
func detectCounter(f *Features) {
	f.HasCycleCounter = true
}
