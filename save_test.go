package main

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stewi1014/glmandel/programs"
)

func TestSave(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.png")
	opts := SaveOptions{
		Name:        name,
		Width:       24,
		Height:      16,
		Supersample: 2,
	}

	err := save(context.Background(), opts, programs.GetProgram(0), testUniforms(30))
	if err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
		t.Errorf("decoded size = %v, want 24x16", img.Bounds())
	}
}

func TestSaveNoSupersample(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.png")
	opts := SaveOptions{Name: name, Width: 16, Height: 16}

	err := save(context.Background(), opts, programs.GetProgram(0), testUniforms(30))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(name); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestSaveNoCPUImplementation(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.png")
	opts := SaveOptions{Name: name, Width: 16, Height: 16}

	err := save(context.Background(), opts, programs.Program{Name: "gpu-only"}, testUniforms(30))
	if !errors.Is(err, programs.ErrNoCPUImplementation) {
		t.Fatalf("err = %v, want ErrNoCPUImplementation", err)
	}

	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Errorf("file created despite failed export")
	}
}

func TestSaveCancelledLeavesNoFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	name := filepath.Join(t.TempDir(), "out.png")
	opts := SaveOptions{Name: name, Width: 16, Height: 16}

	err := save(ctx, opts, programs.GetProgram(0), testUniforms(30))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Errorf("file created despite cancelled export")
	}
}

func TestImageName(t *testing.T) {
	name := imageName("mandelbrot")
	if filepath.Ext(name) != ".png" {
		t.Errorf("name = %q, want .png extension", name)
	}
}
