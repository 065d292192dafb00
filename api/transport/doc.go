// Package transport defines the abstractions that glue secure-computation
// protocols to the underlying network.
//
// The core interface is `Messenger` which provides a minimal set of
// primitives understood by the protocol layer:
//
//	MessageSend(ctx, receiver, data)
//	MessageReceive(ctx, sender)
//	MessagesReceive(ctx, senders)
//
// A Messenger implementation does *not* need to care about protocol
// details – it simply delivers opaque byte slices between numbered
// parties, in order, pairwise.
//
// Out of the box the repository provides two implementations:
//
//   - mocknet – an in-process, fully deterministic transport ideal for tests
//   - tcpnet  – a TCP transport with deadlock-free bootstrap and one
//     send/receive pipeline pair per remote peer
//
// You are encouraged to implement your own Messenger for custom
// deployment scenarios (e.g. gRPC, libp2p, message queues, …).
package transport
