//go:build (!amd64 && !arm64) || purego

package cpu

// detectCounter leaves every counter flag unset: TSC falls back to the
// monotonic clock here.
func detectCounter(f *Features) {}
