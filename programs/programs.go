// Package programs holds the fractal shader programs and the uniform
// block the renderer uploads each frame.
package programs

import (
	_ "embed"
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoCPUImplementation = errors.New("fractal does not have a CPU implementation")

// NullColour is the interior colour, matching the shaders.
var NullColour = mgl32.Vec3{0.1, 0.1, 0.1}

//go:embed shaders/default.vert
var defaultVertexShader string

// PixelFunc evaluates a fractal at a pre-zoom normalized coordinate.
// It mirrors the fragment shader and exists so images can be rendered
// off the GPU.
type PixelFunc func(uniforms Uniforms, x, y float64) mgl32.Vec3

type Program struct {
	Name           string
	VertexShader   string
	FragmentShader string
	getPixel       PixelFunc
}

// Registration order fixes the program indices; mandelbrot is index 0
// and the default.
func init() {
	NewProgram(mandelbrotProgram())
	NewProgram(juliaProgram())
	NewProgram(julia3Program())
}

var programs []Program

func NewProgram(p Program) {
	programs = append(programs, p)
}

func NumPrograms() int {
	return len(programs)
}

func GetProgram(i int) Program {
	return programs[i]
}

// GetImage returns a lazily-evaluated CPU rendering of the program
// with the given uniforms. Coordinates are normalized against half the
// short dimension, matching the fragment shader's mapping.
func (p *Program) GetImage(uniforms Uniforms, width, height int) (Image, error) {
	if p.getPixel == nil {
		return nil, ErrNoCPUImplementation
	}

	width = width / 2
	height = height / 2

	return &programImage{
		uniforms: uniforms,
		bounds: image.Rect(
			-width,
			-height,
			width,
			height,
		),
		pixelFunc: p.getPixel,
	}, nil
}

type Image interface {
	GetPixel(x, y float64) mgl32.Vec3
	Bounds() image.Rectangle
}

type programImage struct {
	uniforms  Uniforms
	bounds    image.Rectangle
	pixelFunc PixelFunc
}

func (i *programImage) GetPixel(x, y float64) mgl32.Vec3 {
	return i.pixelFunc(i.uniforms, x, y)
}

func (i *programImage) Bounds() image.Rectangle {
	return i.bounds
}
