package progress

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrips(t *testing.T) {
	f := &File{}
	f.Put(CmdUnlockedStage, []byte{3})
	f.Put(CmdHighScore, []byte{0, 0, 0, 0, 0, 0, 0x4, 0})

	data := Encode(f)
	got, ok := Decode(data)
	require.True(t, ok)
	require.Len(t, got.Records, 2)

	stage, ok := got.Get(CmdUnlockedStage)
	require.True(t, ok)
	assert.Equal(t, []byte{3}, stage)

	score, ok := got.Get(CmdHighScore)
	require.True(t, ok)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x4, 0}, score)
}

func TestPutReplacesExistingRecordForSameCmd(t *testing.T) {
	f := &File{}
	f.Put(CmdClearFlag, []byte{1})
	f.Put(CmdClearFlag, []byte{2})

	assert.Len(t, f.Records, 1)
	v, ok := f.Get(CmdClearFlag)
	require.True(t, ok)
	assert.Equal(t, []byte{2}, v)
}

func TestUnknownCommandsAreSkippedBySizeNotRejected(t *testing.T) {
	f := &File{}
	f.Records = append(f.Records, Record{Cmd: Cmd(200), Payload: []byte{0xAA, 0xBB, 0xCC}})
	f.Put(CmdOptionFlags, []byte{1})

	data := Encode(f)
	got, ok := Decode(data)
	require.True(t, ok)
	require.Len(t, got.Records, 2)

	assert.False(t, got.Records[0].Known)
	assert.Equal(t, Cmd(200), got.Records[0].Cmd)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, got.Records[0].Payload)

	assert.True(t, got.Records[1].Known)
}

func TestDecodeDiscardsBadMagic(t *testing.T) {
	data := Encode(&File{})
	data[0] ^= 0xFF
	_, ok := Decode(data)
	assert.False(t, ok)
}

func TestDecodeDiscardsBadChecksum(t *testing.T) {
	f := &File{}
	f.Put(CmdHighScore, []byte{1, 2, 3, 4})
	data := Encode(f)
	data[len(data)-1] ^= 0x01

	_, ok := Decode(data)
	assert.False(t, ok)
}

func TestAutosaverSaveNowWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/progress.bin"

	f := &File{}
	f.Put(CmdHighScore, []byte{1, 2, 3, 4})

	a, err := NewAutosaver(path, "@every 1h", func() *File { return f })
	require.NoError(t, err)

	a.SaveNow()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, ok := Decode(data)
	require.True(t, ok)
	v, ok := got.Get(CmdHighScore)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, v)
}
