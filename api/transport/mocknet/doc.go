// Package mocknet implements the `transport.Network` interface entirely
// in memory and is intended ONLY for testing or local development.
//
// A mock network is invaluable when writing unit- or integration-tests
// because it:
//   - removes all external dependencies (no sockets, no bootstrap),
//   - runs deterministically inside a single OS process, and
//   - is orders of magnitude faster than loop-back TCP.
//
// Each party's messenger keeps one FIFO queue per sender; delivery pushes
// into the receiving party's queue, which faithfully replicates the
// per-pair ordering of the real transport, including the loopback path.
// The Runner executes one function per party over a wired network and is
// reusable across runs.
//
// For production deployments use the `tcpnet` transport or build your own
// implementation of the `transport.Network` interface.
package mocknet
