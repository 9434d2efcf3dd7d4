// Package view holds the pan/zoom state of the fractal viewport and
// translates input events and frame time into smoothed camera values.
package view

import "math"

const (
	// MinZoom and MaxZoom bound the scale factor.
	MinZoom = 1e-5
	MaxZoom = 100.0

	// MaxOffset bounds each pan axis independently.
	MaxOffset = 16.0

	// wheelFactor is the multiplicative zoom change per wheel notch.
	wheelFactor = 1.025

	// zoomStep is the fixed timestep the zoom smoothing runs on.
	// Zoom converges at the same rate regardless of frame duration.
	zoomStep = 1.0 / 60.0

	// zoomRate is the lerp rate toward the desired zoom, per second.
	zoomRate = 10.0

	// zoomEpsilon is the gap below which zoom snaps no further.
	zoomEpsilon = 1e-5
)

// Key identifies an input the state reacts to.
// Physical key mapping is the caller's concern.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
)

// Snapshot is the camera state consumed by the renderer each frame.
type Snapshot struct {
	Zoom    float64
	OffsetX float64
	OffsetY float64
}

// State is the viewport camera. It is not safe for concurrent use;
// the frame loop owns it.
type State struct {
	zoom        float64
	desiredZoom float64
	offsetX     float64
	offsetY     float64

	up     bool
	down   bool
	left   bool
	right  bool
	escape bool

	accumulator float64
}

func NewState() *State {
	return &State{
		zoom:        1,
		desiredZoom: 1,
	}
}

// ApplyKey records a key transition. Unmapped keys are ignored.
// Callers must not feed key-repeat events; only real press/release
// transitions keep the held flags honest.
func (s *State) ApplyKey(key Key, pressed bool) {
	switch key {
	case KeyUp:
		s.up = pressed
	case KeyDown:
		s.down = pressed
	case KeyLeft:
		s.left = pressed
	case KeyRight:
		s.right = pressed
	case KeyEscape:
		s.escape = pressed
	}
}

// ApplyWheel retargets the zoom from a wheel notch. Only the sign of
// deltaY matters; a positive delta zooms in. The target is always
// derived from the current zoom, not the previous target, so spinning
// the wheel mid-glide never outruns the smoothing.
func (s *State) ApplyWheel(deltaY int) {
	switch {
	case deltaY > 0:
		s.desiredZoom = clamp(s.zoom/wheelFactor, MinZoom, MaxZoom)
	case deltaY < 0:
		s.desiredZoom = clamp(s.zoom*wheelFactor, MinZoom, MaxZoom)
	default:
		s.desiredZoom = s.zoom
	}
}

// Reset returns the camera to the home view. Held-key flags survive a
// reset so a key held across it keeps panning.
func (s *State) Reset() {
	s.zoom = 1
	s.desiredZoom = 1
	s.offsetX = 0
	s.offsetY = 0
}

// Escape reports whether the quit key is held.
func (s *State) Escape() bool {
	return s.escape
}

// Advance moves the camera by dt seconds of wall-clock time and
// returns the resulting snapshot.
//
// Panning is continuous: each held direction shifts its axis by an
// amount proportional to dt and the current zoom, clamped after every
// application. Zoom smoothing is discretized: an accumulator drains in
// fixed 1/60s steps, each lerping zoom toward the desired zoom, so the
// glide speed is independent of frame rate.
//
// A negative or non-finite dt is treated as zero.
func (s *State) Advance(dt float64) Snapshot {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}

	pan := 0.01 * s.zoom * 30.0 * dt
	if s.up {
		s.offsetY = clamp(s.offsetY+pan, -MaxOffset, MaxOffset)
	}
	if s.down {
		s.offsetY = clamp(s.offsetY-pan, -MaxOffset, MaxOffset)
	}
	if s.left {
		s.offsetX = clamp(s.offsetX-pan, -MaxOffset, MaxOffset)
	}
	if s.right {
		s.offsetX = clamp(s.offsetX+pan, -MaxOffset, MaxOffset)
	}

	s.accumulator += dt
	for s.accumulator >= zoomStep {
		if math.Abs(s.zoom-s.desiredZoom) > zoomEpsilon {
			s.zoom += (s.desiredZoom - s.zoom) * (zoomRate * zoomStep)
		}
		s.accumulator -= zoomStep
	}

	return Snapshot{
		Zoom:    s.zoom,
		OffsetX: s.offsetX,
		OffsetY: s.offsetY,
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
