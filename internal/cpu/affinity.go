package cpu

import "errors"

// ErrAffinityUnsupported is returned by PinToCPU and AllowedCPUs on systems
// without a thread affinity API.
var ErrAffinityUnsupported = errors.New("cpu: thread affinity not supported")
