// Package progress implements §6's progress-file format: a magic
// header, a CRC32 over the record stream, and a sequence of
// (cmd:u8, size:u16, payload) records, little-endian, with unknown
// commands skipped by their declared size rather than rejected. This
// is the forward-compatible record layout §6 calls for — a future
// build adding a new command tag doesn't break an older save file, and
// an older build reading a newer file's unknown records simply skips
// over them.
package progress

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/taisei-project/core/internal/corelog"
)

var magic = [4]byte{'T', 'P', 'R', 1}

// Cmd tags one progress record's meaning.
type Cmd uint8

const (
	CmdUnlockedStage Cmd = iota + 1
	CmdHighScore
	CmdClearFlag
	CmdOptionFlags
)

// Record is one decoded (cmd, payload) entry; unknown commands are
// still returned (so a caller can, say, re-encode them unchanged) with
// Known=false rather than being dropped silently at this layer — §6
// only requires the *parser* to tolerate them, not that callers never
// see them.
type Record struct {
	Cmd     Cmd
	Payload []byte
	Known   bool
}

func (c Cmd) known() bool {
	switch c {
	case CmdUnlockedStage, CmdHighScore, CmdClearFlag, CmdOptionFlags:
		return true
	default:
		return false
	}
}

// File is an in-memory progress file: an ordered record list. Encode
// and Decode are the whole contract; a cron-driven autosave writes
// Encode(f)'s bytes to disk on its own schedule rather than this
// package touching the filesystem itself (see Autosaver).
type File struct {
	Records []Record
}

// Put appends (or replaces, by Cmd) a known-command record.
func (f *File) Put(cmd Cmd, payload []byte) {
	for i := range f.Records {
		if f.Records[i].Cmd == cmd {
			f.Records[i].Payload = payload
			return
		}
	}
	f.Records = append(f.Records, Record{Cmd: cmd, Payload: payload, Known: true})
}

// Get returns the payload most recently Put under cmd.
func (f *File) Get(cmd Cmd) ([]byte, bool) {
	for i := range f.Records {
		if f.Records[i].Cmd == cmd {
			return f.Records[i].Payload, true
		}
	}
	return nil, false
}

// Encode serializes f to §6's wire format.
func Encode(f *File) []byte {
	var body bytes.Buffer
	for _, r := range f.Records {
		body.WriteByte(byte(r.Cmd))
		var size [2]byte
		binary.LittleEndian.PutUint16(size[:], uint16(len(r.Payload)))
		body.Write(size[:])
		body.Write(r.Payload)
	}

	out := make([]byte, 0, 4+4+body.Len())
	out = append(out, magic[:]...)
	sum := crc32.ChecksumIEEE(body.Bytes())
	var sumBytes [4]byte
	binary.LittleEndian.PutUint32(sumBytes[:], sum)
	out = append(out, sumBytes[:]...)
	out = append(out, body.Bytes()...)
	return out
}

// Decode parses a progress file. A bad magic or checksum returns
// ok=false: per §7/§8, the caller treats this exactly like a missing
// file (start fresh), never as a fatal error.
func Decode(data []byte) (f *File, ok bool) {
	if len(data) < 8 || !bytes.Equal(data[:4], magic[:]) {
		corelog.Debugf("progress: bad magic, discarding")
		return nil, false
	}
	wantSum := binary.LittleEndian.Uint32(data[4:8])
	body := data[8:]
	if crc32.ChecksumIEEE(body) != wantSum {
		corelog.Debugf("progress: checksum mismatch, discarding")
		return nil, false
	}

	f = &File{}
	r := bytes.NewReader(body)
	for r.Len() > 0 {
		cmdByte, err := r.ReadByte()
		if err != nil {
			break
		}
		var sizeBytes [2]byte
		if _, err := io.ReadFull(r, sizeBytes[:]); err != nil {
			break
		}
		size := binary.LittleEndian.Uint16(sizeBytes[:])
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			break
		}
		cmd := Cmd(cmdByte)
		f.Records = append(f.Records, Record{Cmd: cmd, Payload: payload, Known: cmd.known()})
	}
	return f, true
}
