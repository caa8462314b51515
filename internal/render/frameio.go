package render

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// ReadFrame loads one frame as an RGBA buffer of width*height*4 bytes.
func ReadFrame(path, format string, width, height int) ([]byte, error) {
	if format == "png" {
		return readPNG(path, width, height)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if want := width * height * 4; len(data) != want {
		return nil, fmt.Errorf("%s: raw frame has %d bytes, want %d", path, len(data), want)
	}
	return data, nil
}

// WriteFrame stores an RGBA buffer in the requested format.
func WriteFrame(path, format string, pix []byte, width, height int) error {
	if format != "png" {
		return os.WriteFile(path, pix, 0o644)
	}
	img := &image.RGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := pngEncoder.Encode(w, img); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func readPNG(path string, width, height int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		return nil, fmt.Errorf("%s: frame is %dx%d, want %dx%d", path, bounds.Dx(), bounds.Dy(), width, height)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == width*4 && bounds.Min == (image.Point{}) {
		return rgba.Pix, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba.Pix, nil
}
