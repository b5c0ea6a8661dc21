package theme

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestToneFor(t *testing.T) {
	dark, light := ToneFor(Dark), ToneFor(Light)
	if dark.Frequency == light.Frequency {
		t.Fatal("dark and light tones share a pitch")
	}
	if light.Duration != 100*time.Millisecond || light.Peak != 0.1 || light.Floor != 0.01 {
		t.Errorf("unexpected envelope: %+v", light)
	}
}

func TestTone_GainEnvelope(t *testing.T) {
	tn := ToneFor(Light)

	if g := tn.Gain(0); math.Abs(g-TonePeak) > 1e-12 {
		t.Errorf("Gain(0) = %v, want instant attack at %v", g, TonePeak)
	}
	mid := tn.Gain(tn.Duration / 2)
	if want := math.Sqrt(TonePeak * ToneFloor); math.Abs(mid-want) > 1e-9 {
		t.Errorf("Gain(mid) = %v, want geometric mean %v", mid, want)
	}
	if g := tn.Gain(tn.Duration); g != 0 {
		t.Errorf("Gain(end) = %v, want 0", g)
	}
	if g := tn.Gain(-time.Millisecond); g != 0 {
		t.Errorf("Gain(<0) = %v, want 0", g)
	}

	prev := tn.Gain(0)
	for d := time.Millisecond; d < tn.Duration; d += time.Millisecond {
		g := tn.Gain(d)
		if g >= prev {
			t.Fatalf("gain not decaying at %s: %v >= %v", d, g, prev)
		}
		prev = g
	}
}

func TestNewToneStreamer_EndsAfterDuration(t *testing.T) {
	rate := beep.SampleRate(8000)
	s, err := NewToneStreamer(ToneFor(Dark), rate)
	if err != nil {
		t.Fatalf("NewToneStreamer: %v", err)
	}

	total := 0
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			if math.Abs(buf[i][0]) > TonePeak+1e-9 {
				t.Fatalf("sample %d = %v exceeds peak gain", total+i, buf[i][0])
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if want := rate.N(ToneDuration); total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v", s.Err())
	}
}

func TestNewToneStreamer_RejectsBadTone(t *testing.T) {
	if _, err := NewToneStreamer(Tone{Frequency: 440}, DefaultSampleRate); err == nil {
		t.Error("expected error for zero duration")
	}
	bad := ToneFor(Light)
	bad.Frequency = 30000
	if _, err := NewToneStreamer(bad, beep.SampleRate(8000)); err == nil {
		t.Error("expected error for frequency above Nyquist")
	}
}

func TestRenderWAV(t *testing.T) {
	data, err := RenderWAV(ToneFor(Light), beep.SampleRate(8000))
	if err != nil {
		t.Fatalf("RenderWAV: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		t.Fatalf("missing RIFF/WAVE header: % x", data[:12])
	}
	// 800 samples of mono 16-bit audio follow the header.
	if min := 800 * 2; len(data) < min {
		t.Errorf("len = %d, want at least %d", len(data), min)
	}
}

func TestSeekBuffer_PatchesEarlierBytes(t *testing.T) {
	var b seekBuffer
	b.Write([]byte("abcdef"))
	if _, err := b.Seek(2, 0); err != nil {
		t.Fatal(err)
	}
	b.Write([]byte("XY"))
	if _, err := b.Seek(0, 2); err != nil {
		t.Fatal(err)
	}
	b.Write([]byte("!"))

	if got := string(b.data); got != "abXYef!" {
		t.Errorf("data = %q, want %q", got, "abXYef!")
	}
	if _, err := b.Seek(-1, 0); err == nil {
		t.Error("expected error seeking before start")
	}
}
