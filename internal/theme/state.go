package theme

import (
	"sync"

	"go.uber.org/zap"
)

// Feedback plays the tone for a theme change.
type Feedback interface {
	Play(t Tone) error
}

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(t Tone) error

func (f FeedbackFunc) Play(t Tone) error { return f(t) }

// State holds the current mode. All changes go through Toggle.
type State struct {
	mu       sync.Mutex
	mode     Mode
	feedback Feedback
	logger   *zap.Logger
}

// NewState returns a State starting in initial. feedback and logger may be
// nil.
func NewState(initial Mode, feedback Feedback, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{mode: initial, feedback: feedback, logger: logger}
}

// Mode returns the current mode.
func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// ClassName returns the document class for the current mode.
func (s *State) ClassName() string {
	return s.Mode().ClassName()
}

// Toggle flips the mode and plays the tone for the new one. A feedback
// failure is logged and otherwise ignored; the flip always happens.
func (s *State) Toggle() Mode {
	s.mu.Lock()
	s.mode = s.mode.Toggled()
	to := s.mode
	s.mu.Unlock()

	if s.feedback != nil {
		if err := s.feedback.Play(ToneFor(to)); err != nil {
			s.logger.Debug("theme feedback skipped",
				zap.String("mode", to.String()),
				zap.Error(err),
			)
		}
	}
	return to
}
