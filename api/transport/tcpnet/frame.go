package tcpnet

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire format per channel: a 4-byte big-endian unsigned length followed
// by exactly that many payload bytes. No checksums, no compression.
const (
	frameHeaderSize = 4

	// MaxFrameSize bounds a single message payload. An incoming length
	// above this limit fails the read before any allocation happens.
	MaxFrameSize = 10 * 1024 * 1024
)

// writeFrame encodes payload as one frame and writes it in a single
// buffered write so header and body never interleave with other writers.
func writeFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	buf := make([]byte, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[frameHeaderSize:], payload)
	_, err := w.Write(buf)
	return err
}

// readFrame decodes the next frame from r. Both the header and the
// payload read loop until the full amount has arrived.
func readFrame(r io.Reader) ([]byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
