package tcpnet

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, []byte("hello")))

	payload, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
}

func TestFrameZeroLengthSentinel(t *testing.T) {
	// The shutdown sentinel is a valid frame on the wire even though the
	// public API rejects empty payloads.
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, []byte{}))
	assert.Equal(t, frameHeaderSize, buf.Len())

	payload, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var header [frameHeaderSize]byte
	binary.BigEndian.PutUint32(header[:], MaxFrameSize+1)

	_, err := readFrame(bytes.NewReader(header[:]))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	err := writeFrame(&buf, make([]byte, MaxFrameSize+1))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Zero(t, buf.Len())
}

func TestReadFrameShortInput(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(100))
	buf.WriteString("not a hundred bytes")

	_, err := readFrame(&buf)
	assert.Error(t, err)
}
