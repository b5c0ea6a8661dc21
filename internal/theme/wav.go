package theme

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// RenderWAV encodes t as a mono 16-bit WAV file.
func RenderWAV(t Tone, rate beep.SampleRate) ([]byte, error) {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	s, err := NewToneStreamer(t, rate)
	if err != nil {
		return nil, err
	}

	var buf seekBuffer
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(&buf, s, format); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	return buf.data, nil
}

// seekBuffer is an in-memory io.WriteSeeker; wav.Encode seeks back to patch
// the header sizes.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.data) {
		b.data = append(b.data, make([]byte, end-len(b.data))...)
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("seek: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}
