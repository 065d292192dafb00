// Package tcpnet implements the `transport.Network` interface over plain
// TCP for a fixed set of N numbered parties.
//
// Construction runs a one-time bootstrap that gives every pair of parties
// exactly one full-duplex channel without a connect/accept deadlock: the
// party with the lower id listens and the higher id dials, with retries
// and an overall timeout. The first byte on a fresh connection is the
// dialer's party id.
//
// After the bootstrap each remote peer is served by two goroutines – a
// sender draining an outbound FIFO queue and a receiver decoding
// length-prefixed frames into an inbound FIFO queue – so the caller gets
// a simple synchronous send/receive contract with per-pair ordering.
// Self-addressed messages go through an in-process loopback queue and
// never touch a socket.
//
// Two deliberate restrictions of this layer:
//
//   - Zero-length payloads are rejected. The shutdown path wakes an idle
//     sender with a zero-length sentinel, and allowing empty application
//     messages would make the two indistinguishable.
//   - A failed pipeline is terminal. There is no reconnect; the caller
//     learns of the failure via ErrPeerGone on the next send or receive
//     and must decide whether to abort the computation.
//
// For tests and local development prefer the in-memory `mocknet`
// implementation of the same interface.
package tcpnet
