package main

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/stewi1014/glmandel/programs"
)

// ToImage adapts a fractal image to image.Image. Pixels are mapped to
// normalized coordinates against half the short dimension, with y
// flipped so the image matches the on-screen orientation.
func ToImage(img programs.Image) image.Image {
	scaleFactor := img.Bounds().Dx()
	if img.Bounds().Dy() < img.Bounds().Dx() {
		scaleFactor = img.Bounds().Dy()
	}

	return &fractalImage{
		Image:       img,
		scaleFactor: float64(scaleFactor) / 2,
	}
}

type fractalImage struct {
	programs.Image
	scaleFactor float64
}

func (i *fractalImage) At(x, y int) color.Color {
	c := i.GetPixel(
		float64(x)/i.scaleFactor,
		float64(-y)/i.scaleFactor,
	)

	return color.NRGBA{
		R: uint8(c[0] * 255),
		G: uint8(c[1] * 255),
		B: uint8(c[2] * 255),
		A: 0xff,
	}
}

func (i *fractalImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (i *fractalImage) Opaque() bool {
	return true
}

func BufferImage(img image.Image) *BufferedImage {
	return &BufferedImage{
		Image:  img,
		height: img.Bounds().Dy(),
	}
}

// BufferedImage materializes a lazily-evaluated image into memory.
// Fractal evaluation dominates export time, so Buffer spreads columns
// across goroutines.
type BufferedImage struct {
	image.Image
	height int
	buff   []color.Color
}

func (b *BufferedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Image.Bounds().Dx(), b.Image.Bounds().Dy())
}

func (b *BufferedImage) At(x, y int) color.Color {
	return b.buff[x*b.height+y]
}

func (b *BufferedImage) Buffer(ctx context.Context) error {
	b.buff = make([]color.Color, b.Image.Bounds().Dx()*b.Image.Bounds().Dy())

	min, max := b.Image.Bounds().Min, b.Image.Bounds().Max
	chunkSize := 50
	var wg sync.WaitGroup

	for chunkMin := min.X; chunkMin < max.X; chunkMin += chunkSize {
		chunkMax := chunkMin + chunkSize
		if chunkMax > max.X {
			chunkMax = max.X
		}

		wg.Add(1)
		go func(chunkMin, chunkMax int) {
			defer wg.Done()
			i := (chunkMin - min.X) * b.Image.Bounds().Dy()
			for x := chunkMin; x < chunkMax; x++ {
				if ctx.Err() != nil {
					return
				}

				for y := min.Y; y < max.Y; y++ {
					b.buff[i] = b.Image.At(x, y)
					i++
				}
			}
		}(chunkMin, chunkMax)
	}

	wg.Wait()

	return ctx.Err()
}

func (b *BufferedImage) Opaque() bool {
	return true
}
