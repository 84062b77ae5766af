// Package compute provides the execution backends that actuator groups use
// to sweep their (num_envs, num_joints) buffers.
//
//   - CPU: splits environment rows across runtime.NumCPU() goroutines once
//     a batch is large enough
//   - serial: runs every row on the calling goroutine
//
// # Usage
//
//	backend, err := compute.ByName("cpu")
//	backend.Rows(numEnvs, func(start, end int) {
//	    for e := start; e < end; e++ { ... }
//	})
//
// Rows returns only after every range has been processed, so a compute call
// built on it has no externally visible intermediate state.
package compute
