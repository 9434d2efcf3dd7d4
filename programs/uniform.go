package programs

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// colours is the palette size, fixed by the shaders.
const colours = 16

// defaultIterations is the escape-iteration cap.
const defaultIterations = 8000

// Uniforms is uploaded to the active program every frame. The uniform
// tag names the shader-side variable; the renderer resolves locations
// by tag at link time.
type Uniforms struct {
	Width        uint32              `uniform:"width"`
	Height       uint32              `uniform:"height"`
	Iterations   uint32              `uniform:"iterations"`
	Zoom         float64             `uniform:"zoom"`
	Pos          mgl64.Vec2          `uniform:"pos"`
	ColourPallet [colours]mgl32.Vec3 `uniform:"colourpallet"`
}

// DefaultValues resets the uniforms to the home view and a
// deterministic palette. Width and Height are left alone; they track
// the framebuffer.
func (u *Uniforms) DefaultValues() {
	u.Iterations = defaultIterations
	u.Zoom = 1
	u.Pos = mgl64.Vec2{}

	for i := range u.ColourPallet {
		t := 2 * math.Pi * float64(i) / colours
		u.ColourPallet[i] = mgl32.Vec3{
			float32(0.5 + 0.5*math.Sin(t)),
			float32(0.5 + 0.5*math.Sin(t+2*math.Pi/3)),
			float32(0.5 + 0.5*math.Sin(t+4*math.Pi/3)),
		}
	}
}
