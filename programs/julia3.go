package programs

import (
	_ "embed"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/julia3.frag
var julia3Fragment string

func julia3Program() Program {
	return Program{
		Name:           "julia3",
		VertexShader:   defaultVertexShader,
		FragmentShader: julia3Fragment,
		getPixel: func(uniforms Uniforms, x, y float64) mgl32.Vec3 {
			iterations := 0

			z := complex(x*uniforms.Zoom-uniforms.Pos[0], y*uniforms.Zoom-uniforms.Pos[1])
			for math.Abs(real(z))+math.Abs(imag(z)) <= 4 && iterations < int(uniforms.Iterations) {
				z = z*z*z + complex(0.08394, 0.77007)
				iterations++
			}

			if iterations == int(uniforms.Iterations) {
				return NullColour
			}
			return uniforms.ColourPallet[iterations%colours]
		},
	}
}
