// Command cursorglow renders the portfolio home page in a terminal with the
// smoothed cursor glow following the mouse.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/iabhijais/portfolio/internal/config"
	"github.com/iabhijais/portfolio/internal/content"
	"github.com/iabhijais/portfolio/internal/cursor"
	"github.com/iabhijais/portfolio/internal/theme"
	"github.com/iabhijais/portfolio/internal/theme/speaker"
	"go.uber.org/zap"
)

const wheelRows = 3

type options struct {
	frameRate int
	cursor    cursor.Options
	theme     theme.Mode
}

// session ties one mounted cursor to the terminal view.
type session struct {
	view   *view
	cursor *cursor.Cursor
	state  *theme.State
	logger *zap.Logger
	over   cursor.Node
}

// handle processes one terminal event. It returns false to quit.
func (s *session) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 't', 'T':
				to := s.state.Toggle()
				s.view.setMode(to)
				s.logger.Debug("theme toggled", zap.String("mode", to.String()))
			}
		case tcell.KeyUp:
			s.view.scrollBy(-1)
		case tcell.KeyDown:
			s.view.scrollBy(1)
		case tcell.KeyPgUp:
			s.view.scrollBy(-s.view.contentHeight())
		case tcell.KeyPgDn:
			s.view.scrollBy(s.view.contentHeight())
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		buttons := ev.Buttons()
		if buttons&tcell.WheelUp != 0 {
			s.view.scrollBy(-wheelRows)
		}
		if buttons&tcell.WheelDown != 0 {
			s.view.scrollBy(wheelRows)
		}
		s.cursor.Move(float64(x), float64(y))
		if n := s.view.nodeAt(x, y); n != s.over {
			s.over = n
			s.cursor.Enter(n)
		}

	case *tcell.EventResize:
		s.view.resize()
		s.over = nil
	}
	return true
}

// run drives the terminal until the user quits or ctx is done. The screen
// must already be initialised; run does not finalise it.
func run(ctx context.Context, screen tcell.Screen, site *content.Site, opts options, fb theme.Feedback, logger *zap.Logger) error {
	screen.EnableMouse(tcell.MouseMotionEvents)
	defer screen.DisableMouse()

	v := newView(screen, site, opts.theme)
	v.draw()

	frames, stopTicker := cursor.Ticker(opts.frameRate)
	defer stopTicker()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := cursor.Mount(ctx, v, frames, opts.cursor)
	defer c.Stop()

	s := &session{
		view:   v,
		cursor: c,
		state:  theme.NewState(opts.theme, fb, logger),
		logger: logger,
	}

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("cursorglow started", zap.String("theme", opts.theme.String()), zap.Int("fps", opts.frameRate))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !s.handle(ev) {
				logger.Info("cursorglow quit")
				return nil
			}
		}
	}
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := realMain(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain(configPath string) error {
	v, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	// The terminal owns stderr while the screen is up.
	if v.GetString("logging.file") == "" {
		v.Set("logging.file", "cursorglow.log")
	}
	logger, err := config.NewLogger(v)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	site, err := content.Load()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	fb := speaker.New(beep.SampleRate(cfg.Audio.SampleRate), logger)
	defer fb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		frameRate: cfg.Cursor.FrameRate,
		cursor: cursor.Options{
			GlowSmoothing: cfg.Cursor.GlowSmoothing,
			DotSmoothing:  cfg.Cursor.DotSmoothing,
			HotScale:      cfg.Cursor.HotScale,
		},
		theme: theme.ModeOr(cfg.Theme.Default, theme.Default),
	}
	return run(ctx, screen, site, opts, fb, logger)
}
