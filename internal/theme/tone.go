package theme

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// DefaultSampleRate is used when a zero rate is given.
const DefaultSampleRate = beep.SampleRate(44100)

// Tone parameters.
const (
	LightFrequency = 800.0
	DarkFrequency  = 600.0
	TonePeak       = 0.1
	ToneFloor      = 0.01
	ToneDuration   = 100 * time.Millisecond
)

// Tone is a sine blip with an instant attack and exponential decay from Peak
// to Floor over Duration.
type Tone struct {
	Frequency float64
	Peak      float64
	Floor     float64
	Duration  time.Duration
}

// ToneFor returns the tone played when entering m.
func ToneFor(m Mode) Tone {
	freq := DarkFrequency
	if m == Light {
		freq = LightFrequency
	}
	return Tone{
		Frequency: freq,
		Peak:      TonePeak,
		Floor:     ToneFloor,
		Duration:  ToneDuration,
	}
}

// Gain returns the envelope gain at elapsed. It is 0 outside [0, Duration).
func (t Tone) Gain(elapsed time.Duration) float64 {
	if elapsed < 0 || elapsed >= t.Duration || t.Peak <= 0 {
		return 0
	}
	floor := t.Floor
	if floor <= 0 || floor > t.Peak {
		floor = t.Peak
	}
	frac := float64(elapsed) / float64(t.Duration)
	return t.Peak * math.Pow(floor/t.Peak, frac)
}

// NewToneStreamer returns a single-shot streamer for t that ends by itself
// after t.Duration.
func NewToneStreamer(t Tone, rate beep.SampleRate) (beep.Streamer, error) {
	if t.Duration <= 0 {
		return nil, fmt.Errorf("tone duration must be positive, got %s", t.Duration)
	}
	sine, err := generators.SineTone(rate, t.Frequency)
	if err != nil {
		return nil, fmt.Errorf("sine %.0f Hz at %d Hz: %w", t.Frequency, rate, err)
	}
	return &decay{
		streamer: sine,
		tone:     t,
		rate:     rate,
		total:    rate.N(t.Duration),
	}, nil
}

// decay shapes a streamer with the tone envelope and stops it at the end.
type decay struct {
	streamer beep.Streamer
	tone     Tone
	rate     beep.SampleRate
	position int
	total    int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	remaining := d.total - d.position
	if remaining <= 0 {
		return 0, false
	}
	if len(samples) > remaining {
		samples = samples[:remaining]
	}

	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := d.tone.Gain(d.rate.D(d.position))
		samples[i][0] *= g
		samples[i][1] *= g
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }
