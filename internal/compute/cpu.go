package compute

import (
	"runtime"

	"github.com/san-kum/actuate/internal/dynamo"
)

// minRowsPerWorker keeps small batches on the calling goroutine.
const minRowsPerWorker = 64

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Rows(n int, fn func(start, end int)) {
	dynamo.ParallelFor(n, minRowsPerWorker, c.workers, fn)
}

// SerialBackend runs every row range inline. Useful for deterministic
// profiling and tests.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend {
	return &SerialBackend{}
}

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) Rows(n int, fn func(start, end int)) {
	if n > 0 {
		fn(0, n)
	}
}
