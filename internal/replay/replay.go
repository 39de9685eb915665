// Package replay implements §6's replay contract and §8 P9's determinism
// guarantee: a recorded stage run is a seed, the player's initial state,
// and a time-ordered log of input edge events, from which re-running the
// simulation with an identical build reproduces an identical frame-by-frame
// trace. Corruption handling follows §7's "Persisted-state corruption"
// edge case: a bad checksum means silent discard, not a crash.
package replay

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/taisei-project/core/internal/corelog"
	"github.com/taisei-project/core/internal/player"
)

// magic tags a replay file; bumped whenever the binary layout changes.
var magic = [4]byte{'T', 'R', 'P', 1}

// KeyEvent is one entry in the input-edge log (§6: "a time-ordered log
// of input edge events (frame, key, up|down)").
type KeyEvent struct {
	Frame int32
	Key   player.InputFlags
	Down  bool
}

// InitialState is everything §6 says a replay must capture about the
// player at stage start, beyond the seed itself.
type InitialState struct {
	Character  string
	ShotMode   string
	Pos        complex128
	Lives      int32
	Bombs      int32
	Power      float64
}

// Replay is one recorded stage play.
type Replay struct {
	ID      uuid.UUID
	Seed    uint64
	Initial InitialState
	Events  []KeyEvent
}

// New starts an empty replay for a fresh stage run.
func New(seed uint64, initial InitialState) *Replay {
	return &Replay{ID: uuid.New(), Seed: seed, Initial: initial}
}

// Record appends one input edge event. The simulation driver calls this
// exactly when it calls the corresponding player.Player edge method
// (§6 (b): "identical frame-ordered subsystem updates"), never
// speculatively ahead of the frame it actually happened on.
func (r *Replay) Record(frame int, key player.InputFlags, down bool) {
	r.Events = append(r.Events, KeyEvent{Frame: int32(frame), Key: key, Down: down})
}

// Encode serializes the replay to a self-checksummed binary form: a
// magic header, the big-endian body, then a trailing big-endian CRC32 of
// the body. internal/progress uses the same three parts in a different
// layout (a little-endian checksum straight after the magic), so both
// persisted formats follow the same "check magic, verify checksum,
// discard on mismatch" steps but are not byte-compatible.
func Encode(r *Replay) []byte {
	var body bytes.Buffer

	idBytes, _ := r.ID.MarshalBinary()
	body.Write(idBytes)
	writeU64(&body, r.Seed)
	writeString(&body, r.Initial.Character)
	writeString(&body, r.Initial.ShotMode)
	writeF64(&body, real(r.Initial.Pos))
	writeF64(&body, imag(r.Initial.Pos))
	writeI32(&body, r.Initial.Lives)
	writeI32(&body, r.Initial.Bombs)
	writeF64(&body, r.Initial.Power)

	writeU32(&body, uint32(len(r.Events)))
	for _, e := range r.Events {
		writeI32(&body, e.Frame)
		body.WriteByte(byte(e.Key))
		if e.Down {
			body.WriteByte(1)
		} else {
			body.WriteByte(0)
		}
	}

	out := make([]byte, 0, 4+body.Len()+4)
	out = append(out, magic[:]...)
	out = append(out, body.Bytes()...)
	sum := crc32.ChecksumIEEE(body.Bytes())
	out = binary.BigEndian.AppendUint32(out, sum)
	return out
}

// Decode parses a replay previously produced by Encode. Per §7's
// persisted-state corruption handling, a bad magic or checksum is not
// an error the caller must special-case for crash-worthiness — it
// returns ok=false and the caller discards the file silently (a fresh
// replay is simply not recorded for that run).
func Decode(data []byte) (r *Replay, ok bool) {
	if len(data) < 4+4 || !bytes.Equal(data[:4], magic[:]) {
		corelog.Debugf("replay: bad magic, discarding")
		return nil, false
	}
	body := data[4 : len(data)-4]
	wantSum := binary.BigEndian.Uint32(data[len(data)-4:])
	if crc32.ChecksumIEEE(body) != wantSum {
		corelog.Debugf("replay: checksum mismatch, discarding")
		return nil, false
	}

	br := bytes.NewReader(body)
	r = &Replay{}

	idBytes := make([]byte, 16)
	if _, err := io.ReadFull(br, idBytes); err != nil {
		return nil, false
	}
	if err := r.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, false
	}

	var errd bool
	r.Seed, errd = readU64(br)
	if errd {
		return nil, false
	}
	r.Initial.Character, errd = readString(br)
	if errd {
		return nil, false
	}
	r.Initial.ShotMode, errd = readString(br)
	if errd {
		return nil, false
	}
	x, e1 := readF64(br)
	y, e2 := readF64(br)
	if e1 || e2 {
		return nil, false
	}
	r.Initial.Pos = complex(x, y)
	r.Initial.Lives, errd = readI32(br)
	if errd {
		return nil, false
	}
	r.Initial.Bombs, errd = readI32(br)
	if errd {
		return nil, false
	}
	r.Initial.Power, errd = readF64(br)
	if errd {
		return nil, false
	}

	count, errd := readU32(br)
	if errd {
		return nil, false
	}
	r.Events = make([]KeyEvent, 0, count)
	for i := uint32(0); i < count; i++ {
		frame, e1 := readI32(br)
		keyByte, e2 := br.ReadByte()
		downByte, e3 := br.ReadByte()
		if e1 || e2 != nil || e3 != nil {
			return nil, false
		}
		r.Events = append(r.Events, KeyEvent{Frame: frame, Key: player.InputFlags(keyByte), Down: downByte != 0})
	}

	return r, true
}

func writeU32(b *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}

func writeU64(b *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.Write(tmp[:])
}

func writeI32(b *bytes.Buffer, v int32) { writeU32(b, uint32(v)) }

func writeF64(b *bytes.Buffer, v float64) {
	writeU64(b, math.Float64bits(v))
}

func writeString(b *bytes.Buffer, s string) {
	writeU32(b, uint32(len(s)))
	b.WriteString(s)
}

func readU32(r *bytes.Reader) (uint32, bool) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, true
	}
	return binary.BigEndian.Uint32(tmp[:]), false
}

func readU64(r *bytes.Reader) (uint64, bool) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, true
	}
	return binary.BigEndian.Uint64(tmp[:]), false
}

func readI32(r *bytes.Reader) (int32, bool) {
	v, errd := readU32(r)
	return int32(v), errd
}

func readF64(r *bytes.Reader) (float64, bool) {
	v, errd := readU64(r)
	if errd {
		return 0, true
	}
	return math.Float64frombits(v), false
}

func readString(r *bytes.Reader) (string, bool) {
	n, errd := readU32(r)
	if errd {
		return "", true
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", true
	}
	return string(buf), false
}
