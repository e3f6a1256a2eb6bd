// Package cpu implements the CPU execution backend: the strided
// scatter/gather engine and the concrete view transform kernels.
package cpu

import (
	"github.com/lattice-ml/lattice/internal/parallel"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// Backend implements tensor operations on CPU.
type Backend struct {
	device tensor.Device
	par    parallel.Config
	grain  int
}

// New creates a new CPU backend with default parallel configuration.
func New() *Backend {
	return &Backend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
		grain:  parallel.DefaultGrain,
	}
}

// NewSequential creates a CPU backend that never splits work across
// goroutines. Used by tests to compare chunked and unchunked execution.
func NewSequential() *Backend {
	b := New()
	b.par.Enabled = false
	return b
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return b.device
}
