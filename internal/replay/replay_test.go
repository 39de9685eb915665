package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taisei-project/core/internal/player"
)

func TestEncodeDecodeRoundTrips(t *testing.T) {
	r := New(12345, InitialState{
		Character: "youmu",
		ShotMode:  "trance",
		Pos:       complex(100, 400),
		Lives:     2,
		Bombs:     3,
		Power:     1.5,
	})
	r.Record(0, player.FlagUp, true)
	r.Record(3, player.FlagUp, false)
	r.Record(3, player.FlagFocus, true)

	data := Encode(r)
	got, ok := Decode(data)
	require.True(t, ok)

	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.Seed, got.Seed)
	assert.Equal(t, r.Initial, got.Initial)
	assert.Equal(t, r.Events, got.Events)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := Encode(New(1, InitialState{}))
	data[0] ^= 0xFF
	_, ok := Decode(data)
	assert.False(t, ok)
}

func TestDecodeRejectsCorruptedBody(t *testing.T) {
	r := New(1, InitialState{Character: "marisa"})
	r.Record(10, player.FlagShot, true)
	data := Encode(r)

	// Flip a byte inside the body, leaving the magic and trailing
	// checksum untouched, to exercise the CRC32 mismatch path rather
	// than the magic-mismatch path.
	data[len(data)-10] ^= 0x01

	_, ok := Decode(data)
	assert.False(t, ok)
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	data := Encode(New(1, InitialState{}))
	_, ok := Decode(data[:len(data)-6])
	assert.False(t, ok)
}

func TestEmptyReplayRoundTrips(t *testing.T) {
	r := New(0, InitialState{})
	data := Encode(r)
	got, ok := Decode(data)
	require.True(t, ok)
	assert.Empty(t, got.Events)
}
