package tcpnet

import "errors"

// Error kinds surfaced by the transport. Callers should match with
// errors.Is; returned errors carry additional context around these
// sentinels.
var (
	// ErrInvalidParty is returned when a party id is outside [1, N].
	ErrInvalidParty = errors.New("party id out of range")

	// ErrPeerGone is returned when the pipeline serving a peer has
	// terminated, either cleanly or due to an I/O failure. The transport
	// never restarts a pipeline; the error is terminal for the session.
	ErrPeerGone = errors.New("peer pipeline terminated")

	// ErrClosed is returned from send and receive after Close.
	ErrClosed = errors.New("network closed")

	// ErrEmptyPayload is returned when sending a zero-length payload.
	// Zero-length frames are reserved as internal wake sentinels and are
	// never valid application messages on this layer.
	ErrEmptyPayload = errors.New("zero-length payload not allowed")

	// ErrFrameTooLarge is returned when a frame length exceeds
	// MaxFrameSize, on either the sending or the receiving side.
	ErrFrameTooLarge = errors.New("frame exceeds size limit")
)
