package transport

import "context"

// Messenger defines the interface for data transport between the numbered
// parties of a secure computation. Implementations deliver opaque byte
// slices; they do not interpret payloads.
//
// Party ids are 1-based: a network of N parties uses ids 1..N.
type Messenger interface {
	// MessageSend sends a message buffer to the specified receiver party.
	// Sending to one's own id delivers the message through the loopback
	// path without touching the network.
	MessageSend(ctx context.Context, receiver int, buffer []byte) error

	// MessageReceive receives the next message from the specified sender
	// party, blocking until one is available.
	MessageReceive(ctx context.Context, sender int) ([]byte, error)

	// MessagesReceive receives messages from multiple sender parties. It
	// waits until all messages are ready and returns them in the same
	// order as the provided senders slice.
	MessagesReceive(ctx context.Context, senders []int) ([][]byte, error)
}

// Network is a Messenger with a fixed party count and an explicit
// lifecycle. Close is idempotent and best-effort; after Close all
// send/receive calls fail fast.
type Network interface {
	Messenger

	// NoOfParties returns the total number of parties, fixed at
	// construction.
	NoOfParties() int

	// Close releases all connections and stops the per-peer pipelines.
	Close() error
}
