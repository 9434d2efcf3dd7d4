package view

import (
	"math"
	"testing"
)

func TestApplyKey(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		flag func(*State) bool
	}{
		{"up", KeyUp, func(s *State) bool { return s.up }},
		{"down", KeyDown, func(s *State) bool { return s.down }},
		{"left", KeyLeft, func(s *State) bool { return s.left }},
		{"right", KeyRight, func(s *State) bool { return s.right }},
		{"escape", KeyEscape, func(s *State) bool { return s.escape }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.ApplyKey(tt.key, true)
			if !tt.flag(s) {
				t.Errorf("flag not set after press")
			}
			s.ApplyKey(tt.key, false)
			if tt.flag(s) {
				t.Errorf("flag not cleared after release")
			}
		})
	}
}

func TestApplyKeyUnmapped(t *testing.T) {
	s := NewState()
	s.ApplyKey(KeyNone, true)
	if s.up || s.down || s.left || s.right || s.escape {
		t.Errorf("unmapped key changed flags")
	}
}

func TestApplyWheel(t *testing.T) {
	tests := []struct {
		name   string
		zoom   float64
		deltaY int
		want   float64
	}{
		{"zoom in", 1.0, 1, 1.0 / wheelFactor},
		{"zoom out", 1.0, -1, 1.0 * wheelFactor},
		{"zero delta", 2.0, 0, 2.0},
		{"magnitude ignored", 1.0, 100, 1.0 / wheelFactor},
		{"clamped low", MinZoom, 5, MinZoom},
		{"clamped high", MaxZoom, -5, MaxZoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.zoom = tt.zoom
			s.ApplyWheel(tt.deltaY)
			if math.Abs(s.desiredZoom-tt.want) > 1e-12 {
				t.Errorf("desiredZoom = %v, want %v", s.desiredZoom, tt.want)
			}
		})
	}
}

func TestApplyWheelAlwaysInRange(t *testing.T) {
	s := NewState()
	deltas := []int{1, 1, -1, 1, -1, -1, -1, 1, 0, -1, 1}
	for i := 0; i < 10000; i++ {
		s.ApplyWheel(deltas[i%len(deltas)])
		if s.desiredZoom < MinZoom || s.desiredZoom > MaxZoom {
			t.Fatalf("desiredZoom %v out of range after %d events", s.desiredZoom, i+1)
		}
		s.Advance(1.0 / 60.0)
	}
}

func TestResetIdempotent(t *testing.T) {
	s := NewState()
	s.zoom = 5.0
	s.desiredZoom = 0.5
	s.offsetX = 3.0
	s.offsetY = -2.0
	s.right = true

	s.Reset()
	first := *s
	s.Reset()

	if *s != first {
		t.Errorf("second reset changed state: %+v != %+v", *s, first)
	}
	if s.zoom != 1 || s.desiredZoom != 1 || s.offsetX != 0 || s.offsetY != 0 {
		t.Errorf("reset state = %+v", *s)
	}
	if !s.right {
		t.Errorf("reset cleared held-key flag")
	}
}

func TestAdvancePan(t *testing.T) {
	s := NewState()
	s.right = true

	snap := s.Advance(1.0 / 30.0)

	// 0.01 * zoom(1) * 30 * (1/30)
	if math.Abs(snap.OffsetX-0.01) > 1e-12 {
		t.Errorf("offsetX = %v, want 0.01", snap.OffsetX)
	}
	if snap.OffsetY != 0 {
		t.Errorf("offsetY = %v, want 0", snap.OffsetY)
	}
}

func TestAdvancePanDirections(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		wantX  float64
		wantY  float64
	}{
		{"up", KeyUp, 0, 0.01},
		{"down", KeyDown, 0, -0.01},
		{"left", KeyLeft, -0.01, 0},
		{"right", KeyRight, 0.01, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.ApplyKey(tt.key, true)
			snap := s.Advance(1.0 / 30.0)
			if math.Abs(snap.OffsetX-tt.wantX) > 1e-12 || math.Abs(snap.OffsetY-tt.wantY) > 1e-12 {
				t.Errorf("offset = (%v, %v), want (%v, %v)",
					snap.OffsetX, snap.OffsetY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestAdvancePanComposes(t *testing.T) {
	s := NewState()
	s.up = true
	s.right = true

	snap := s.Advance(1.0 / 30.0)

	if math.Abs(snap.OffsetX-0.01) > 1e-12 || math.Abs(snap.OffsetY-0.01) > 1e-12 {
		t.Errorf("offset = (%v, %v), want (0.01, 0.01)", snap.OffsetX, snap.OffsetY)
	}
}

func TestAdvancePanOpposingKeysCancel(t *testing.T) {
	s := NewState()
	s.left = true
	s.right = true

	snap := s.Advance(1.0 / 30.0)

	if snap.OffsetX != 0 {
		t.Errorf("offsetX = %v, want 0", snap.OffsetX)
	}
}

func TestAdvancePanClamped(t *testing.T) {
	s := NewState()
	s.offsetX = MaxOffset
	s.right = true

	for i := 0; i < 100; i++ {
		snap := s.Advance(0.25)
		if snap.OffsetX != MaxOffset {
			t.Fatalf("offsetX = %v, want %v", snap.OffsetX, MaxOffset)
		}
	}
}

func TestAdvanceBoundsHold(t *testing.T) {
	s := NewState()
	s.down = true
	s.left = true
	s.ApplyWheel(-1)

	dts := []float64{0, 1e-6, 1.0 / 240.0, 1.0 / 60.0, 1.0 / 23.0, 0.5, 3.0}
	for i := 0; i < 5000; i++ {
		snap := s.Advance(dts[i%len(dts)])
		if snap.Zoom < MinZoom || snap.Zoom > MaxZoom {
			t.Fatalf("zoom %v out of range", snap.Zoom)
		}
		if math.Abs(snap.OffsetX) > MaxOffset || math.Abs(snap.OffsetY) > MaxOffset {
			t.Fatalf("offset (%v, %v) out of range", snap.OffsetX, snap.OffsetY)
		}
		if i%17 == 0 {
			s.ApplyWheel(1 - 2*(i%2))
		}
	}
}

func TestAdvanceBadDt(t *testing.T) {
	for _, dt := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		s := NewState()
		s.right = true
		s.ApplyWheel(1)

		snap := s.Advance(dt)

		if snap.Zoom != 1 || snap.OffsetX != 0 || snap.OffsetY != 0 {
			t.Errorf("dt=%v moved the camera: %+v", dt, snap)
		}
	}
}

func TestAdvanceZoomConverges(t *testing.T) {
	s := NewState()
	s.ApplyWheel(1)
	want := 1.0 / wheelFactor

	prev := math.Abs(s.zoom - s.desiredZoom)
	for i := 0; i < 200; i++ {
		snap := s.Advance(zoomStep)
		gap := math.Abs(snap.Zoom - want)
		if gap > prev+1e-15 {
			t.Fatalf("gap grew at step %d: %v -> %v", i, prev, gap)
		}
		prev = gap
	}

	if prev > zoomEpsilon {
		t.Errorf("zoom did not converge: gap %v after 200 steps", prev)
	}
	if math.Abs(s.zoom-want) > 1e-3 {
		t.Errorf("zoom = %v, want ≈%v", s.zoom, want)
	}
}

func TestAdvanceZoomFixedStepIndependentOfFrameRate(t *testing.T) {
	// Same total time in different frame slices lands on the same zoom.
	a := NewState()
	b := NewState()
	a.ApplyWheel(-1)
	b.ApplyWheel(-1)

	for i := 0; i < 60; i++ {
		a.Advance(1.0 / 60.0)
	}
	for i := 0; i < 10; i++ {
		b.Advance(1.0 / 10.0)
	}

	if math.Abs(a.zoom-b.zoom) > 1e-12 {
		t.Errorf("zoom diverged across frame rates: %v vs %v", a.zoom, b.zoom)
	}
}

func TestAdvanceSubStepDtAccumulates(t *testing.T) {
	s := NewState()
	s.ApplyWheel(-1)

	// Individually below the fixed step; together they cross it once.
	s.Advance(zoomStep / 3)
	s.Advance(zoomStep / 3)
	if s.zoom != 1 {
		t.Fatalf("zoom moved before a full step accumulated: %v", s.zoom)
	}
	s.Advance(zoomStep / 2)
	if s.zoom == 1 {
		t.Errorf("zoom did not move after a full step accumulated")
	}
}

func TestResetScenario(t *testing.T) {
	s := NewState()
	s.zoom = 5.0
	s.desiredZoom = 5.0
	s.offsetX = 3.0

	s.Reset()

	snap := s.Advance(0)
	if snap.Zoom != 1 || snap.OffsetX != 0 || snap.OffsetY != 0 {
		t.Errorf("snapshot after reset = %+v", snap)
	}
	if s.desiredZoom != 1 {
		t.Errorf("desiredZoom = %v, want 1", s.desiredZoom)
	}
}

func TestWheelThenConvergeScenario(t *testing.T) {
	s := NewState()
	s.ApplyWheel(1)

	want := 1.0 / wheelFactor
	if math.Abs(s.desiredZoom-want) > 1e-12 {
		t.Fatalf("desiredZoom = %v, want %v", s.desiredZoom, want)
	}

	for i := 0; i < 500; i++ {
		s.Advance(1.0 / 60.0)
	}
	if math.Abs(s.zoom-want) > 1e-4 {
		t.Errorf("zoom = %v, want ≈%v", s.zoom, want)
	}
}

func TestPanScalesWithZoom(t *testing.T) {
	s := NewState()
	s.zoom = 2.0
	s.desiredZoom = 2.0
	s.right = true

	snap := s.Advance(1.0 / 30.0)

	if math.Abs(snap.OffsetX-0.02) > 1e-12 {
		t.Errorf("offsetX = %v, want 0.02", snap.OffsetX)
	}
}
