package net

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0x01, 0x10, 0xFF, 0x00, 0x7F}
	require.NoError(t, WriteFrame(&buf, payload))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReadFrameRejectsBadLengths(t *testing.T) {
	// Header claims a total length of 1, impossible with a 2-byte header.
	_, err := ReadFrame(bytes.NewReader([]byte{0x01, 0x00}))
	require.Error(t, err)

	// Truncated payload.
	_, err = ReadFrame(bytes.NewReader([]byte{0x0A, 0x00, 0x01}))
	require.Error(t, err)
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	require.Error(t, WriteFrame(&bytes.Buffer{}, make([]byte, maxFrameSize+1)))
}
