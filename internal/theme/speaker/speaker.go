// Package speaker plays theme tones on the local audio device. It is kept out
// of package theme so headless importers do not link the audio backend.
package speaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	beepspeaker "github.com/gopxl/beep/speaker"
	"github.com/iabhijais/portfolio/internal/theme"
	"go.uber.org/zap"
)

// Feedback is a theme.Feedback backed by the system speaker. The device is
// opened on the first Play; if that fails audio stays off for the process
// lifetime.
type Feedback struct {
	rate   beep.SampleRate
	logger *zap.Logger

	once   sync.Once
	err    error
	opened bool
}

var _ theme.Feedback = (*Feedback)(nil)

// New returns a speaker Feedback. A zero rate means theme.DefaultSampleRate.
func New(rate beep.SampleRate, logger *zap.Logger) *Feedback {
	if rate <= 0 {
		rate = theme.DefaultSampleRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feedback{rate: rate, logger: logger}
}

func (f *Feedback) init() {
	f.once.Do(func() {
		f.err = beepspeaker.Init(f.rate, f.rate.N(100*time.Millisecond))
		if f.err != nil {
			// Non-fatal, the theme still flips without sound.
			f.logger.Warn("audio unavailable, theme tones disabled", zap.Error(f.err))
			return
		}
		f.opened = true
	})
}

// Play queues t on the speaker and returns immediately. The tone drains and
// leaves the mixer on its own.
func (f *Feedback) Play(t theme.Tone) error {
	f.init()
	if f.err != nil {
		return fmt.Errorf("speaker unavailable: %w", f.err)
	}
	s, err := theme.NewToneStreamer(t, f.rate)
	if err != nil {
		return err
	}
	beepspeaker.Play(s)
	return nil
}

// Close releases the audio device if a Play opened it.
func (f *Feedback) Close() {
	if f.opened {
		beepspeaker.Close()
	}
}
