package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime/debug"
	"time"

	"golang.org/x/image/draw"

	"github.com/stewi1014/glmandel/programs"
)

type SaveOptions struct {
	Name   string
	Width  int
	Height int

	// Supersample renders that many samples per output pixel along
	// each axis before downscaling. 0 or 1 disables antialiasing.
	Supersample int
}

func imageName(program string) string {
	return fmt.Sprintf("%v_%v.png", program, time.Now().Format("20060102_150405"))
}

// save renders the program with the given uniforms on the CPU and
// writes it to a PNG file. A failed export removes the partial file.
func save(
	ctx context.Context,
	opts SaveOptions,
	program programs.Program,
	uniforms programs.Uniforms,
) error {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}

	img, err := program.GetImage(uniforms, opts.Width*ss, opts.Height*ss)
	if err != nil {
		return err
	}

	buffered := BufferImage(ToImage(img))
	err = buffered.Buffer(ctx)
	if err != nil {
		return err
	}

	var out image.Image = buffered
	if ss > 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), buffered, buffered.Bounds(), draw.Src, nil)
		out = dst
	}

	file, err := os.Create(opts.Name)
	if err != nil {
		return err
	}

	err = png.Encode(file, out)
	if err != nil {
		file.Close()
		os.Remove(file.Name())
		return err
	}

	return file.Close()
}

// CatchPanicToContext converts a panic on a background goroutine into
// a context cancellation cause instead of crashing the process.
func CatchPanicToContext(ctxCancel context.CancelCauseFunc) {
	if v := recover(); v != nil {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", v)
		}
		err = fmt.Errorf("%w\n%v", err, string(debug.Stack()))
		if ctxCancel != nil {
			ctxCancel(err)
		}
	}
}
