//go:build !linux

package cpu

// PinToCPU is not available on this system.
func PinToCPU(id int) error {
	return ErrAffinityUnsupported
}

// AllowedCPUs is not available on this system.
func AllowedCPUs() ([]int, error) {
	return nil, ErrAffinityUnsupported
}
