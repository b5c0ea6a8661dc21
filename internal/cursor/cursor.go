package cursor

import (
	"context"
	"reflect"
	"sync"
	"time"
)

// Surface is the view layer a mounted cursor draws onto. Calls are made
// while the cursor holds its lock; implementations must not call back into
// the Cursor.
type Surface interface {
	// MoveGlow positions the glow marker centred on p.
	MoveGlow(p Vec)
	// MoveDot positions the dot marker centred on p at the given scale.
	MoveDot(p Vec, scale float64)
	// SetFollowerHot toggles the hot style on both markers.
	SetFollowerHot(hot bool)
	// MarkTarget adds or removes the hot text style on n.
	MarkTarget(n Node, hot bool)
	// HideNativeCursor hides or restores the system pointer glyph.
	HideNativeCursor(hidden bool)
}

// Options tunes a mounted cursor. Zero fields take the package defaults.
type Options struct {
	GlowSmoothing float64
	DotSmoothing  float64
	HotScale      float64
}

// DefaultOptions returns the glow/dot factors of the site.
func DefaultOptions() Options {
	return Options{
		GlowSmoothing: GlowSmoothing,
		DotSmoothing:  DotSmoothing,
		HotScale:      HotScale,
	}
}

// WithDefaults replaces out of range fields with the package defaults.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.GlowSmoothing <= 0 || o.GlowSmoothing > 1 {
		o.GlowSmoothing = d.GlowSmoothing
	}
	if o.DotSmoothing <= 0 || o.DotSmoothing > 1 {
		o.DotSmoothing = d.DotSmoothing
	}
	if o.HotScale <= 0 {
		o.HotScale = d.HotScale
	}
	return o
}

// Cursor is a mounted cursor glow. A nil *Cursor is valid and does nothing.
type Cursor struct {
	mu       sync.Mutex
	surface  Surface
	opts     Options
	pointer  Vec
	glow     Follower
	dot      Follower
	hot      Node
	isHot    bool
	stopped  bool
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Mount attaches a cursor to s and advances it once per value received on
// frames until ctx is done or Stop is called. It returns nil when there is
// no surface to draw on, including a typed nil pointer.
func Mount(ctx context.Context, s Surface, frames <-chan time.Time, opts Options) *Cursor {
	if isNil(s) {
		return nil
	}
	opts = opts.WithDefaults()

	ctx, cancel := context.WithCancel(ctx)
	c := &Cursor{
		surface: s,
		opts:    opts,
		glow:    Follower{Smoothing: opts.GlowSmoothing},
		dot:     Follower{Smoothing: opts.DotSmoothing},
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	s.HideNativeCursor(true)

	go c.run(ctx, frames)
	return c
}

func isNil(s Surface) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (c *Cursor) run(ctx context.Context, frames <-chan time.Time) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-frames:
			if !ok {
				return
			}
			c.Frame()
		}
	}
}

// Move records the latest pointer position. Older samples are discarded.
func (c *Cursor) Move(x, y float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.pointer = Vec{x, y}
	c.mu.Unlock()
}

// Frame performs one smoothing step for both markers and redraws them.
func (c *Cursor) Frame() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	glow := c.glow.Step(c.pointer)
	dot := c.dot.Step(c.pointer)
	scale := 1.0
	if c.isHot {
		scale = c.opts.HotScale
	}
	c.surface.MoveGlow(glow)
	c.surface.MoveDot(dot, scale)
}

// Enter handles the pointer entering n. The previous hot target is cleared
// before a new one is marked.
func (c *Cursor) Enter(n Node) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	target := Closest(n)
	if target == nil {
		c.clearHot()
		return
	}

	c.isHot = true
	c.surface.SetFollowerHot(true)
	if c.hot != nil && c.hot != target {
		c.surface.MarkTarget(c.hot, false)
	}
	c.surface.MarkTarget(target, true)
	c.hot = target
}

func (c *Cursor) clearHot() {
	c.isHot = false
	c.surface.SetFollowerHot(false)
	if c.hot != nil {
		c.surface.MarkTarget(c.hot, false)
	}
	c.hot = nil
}

// Stop tears the cursor down: the frame loop exits, hot marks are cleared and
// the native cursor is restored. Safe to call more than once.
func (c *Cursor) Stop() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() {
		c.cancel()
		<-c.done

		c.mu.Lock()
		defer c.mu.Unlock()
		c.clearHot()
		c.stopped = true
		c.surface.HideNativeCursor(false)
	})
}

// Done is closed once the frame loop has exited.
func (c *Cursor) Done() <-chan struct{} {
	if c == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

// Positions returns the current glow and dot positions.
func (c *Cursor) Positions() (glow, dot Vec) {
	if c == nil {
		return Vec{}, Vec{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.glow.Pos, c.dot.Pos
}

// Hot returns the current hot target, or nil.
func (c *Cursor) Hot() Node {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hot
}

// Ticker returns a frame channel firing at fps frames per second and a
// function that stops it.
func Ticker(fps int) (<-chan time.Time, func()) {
	if fps <= 0 {
		fps = 60
	}
	t := time.NewTicker(time.Second / time.Duration(fps))
	return t.C, t.Stop
}
