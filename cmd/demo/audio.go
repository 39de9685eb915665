package main

import (
	"io"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// cue identifies the handful of procedural sound effects this demo
// plays; a small fraction of the teacher's SoundKind enum, since the
// demo only needs to confirm the shot/bomb/hit path makes noise.
type cue int

const (
	cueShot cue = iota
	cueHit
	cueBomb
)

// audioSystem is a direct trim of internal/game/audio.go's AudioSystem:
// same oto.NewContext/ready-channel gate, same per-play goroutine and
// soundReader, just three tones instead of fifteen sound kinds.
type audioSystem struct {
	ctx   *oto.Context
	ready chan struct{}
}

func initAudio() (*audioSystem, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, bitDepth)
	if err != nil {
		return nil, err
	}
	return &audioSystem{ctx: ctx, ready: ready}, nil
}

func (a *audioSystem) play(c cue) {
	if a == nil {
		return
	}
	select {
	case <-a.ready:
	default:
		return
	}

	samples := tone(c)
	if len(samples) == 0 {
		return
	}
	go func() {
		reader := &soundReader{data: samples}
		player := a.ctx.NewPlayer(reader)
		player.SetVolume(0.4)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

func tone(c cue) []byte {
	var freq, seconds float64
	switch c {
	case cueShot:
		freq, seconds = 880, 0.05
	case cueHit:
		freq, seconds = 220, 0.08
	case cueBomb:
		freq, seconds = 140, 0.3
	default:
		return nil
	}

	n := int(seconds * sampleRate)
	buf := make([]byte, n*8)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := 1.0 - float64(i)/float64(n)
		s := math.Sin(2*math.Pi*freq*t) * envelope
		putStereoF32(buf, i, s)
	}
	return buf
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}
