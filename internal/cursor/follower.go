// Package cursor implements the smoothed cursor glow: two markers that ease
// toward the pointer every frame, and a single "hot" target under it.
package cursor

import "math"

// Default smoothing factors. The dot converges faster than the glow.
const (
	GlowSmoothing = 0.15
	DotSmoothing  = 0.25

	// HotScale is the dot scale while the pointer is over a hot target.
	HotScale = 1.5
)

// Vec is a screen coordinate pair.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v * k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Dist returns the euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Follower eases a position toward a target by a fixed fraction per step.
type Follower struct {
	Pos       Vec
	Smoothing float64
}

// Step moves the follower a Smoothing fraction of the remaining distance to
// target and returns the new position.
func (f *Follower) Step(target Vec) Vec {
	f.Pos = f.Pos.Add(target.Sub(f.Pos).Scale(f.Smoothing))
	return f.Pos
}

// After is the closed form of n steps from p0 toward a fixed p:
// p - (p - p0)(1-k)^n.
func After(p0, p Vec, k float64, n int) Vec {
	return p.Sub(p.Sub(p0).Scale(math.Pow(1-k, float64(n))))
}
