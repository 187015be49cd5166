package crop

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultOutputSize is the edge of the square output bitmap.
	DefaultOutputSize = 512

	jpegQuality = 90
)

var (
	ErrNoSource  = errors.New("source image not loaded")
	ErrEmptyCrop = errors.New("crop region is empty")
)

// Rasterize maps box (container coordinates over the image displayed at
// `displayed` base bounds and the given zoom) back to source pixels and
// draws that region into a square JPEG of outputSize edge. The pixel ratio
// is natural dimension over displayed dimension times zoom.
func Rasterize(src image.Image, box Box, displayed Bounds, zoom float64, outputSize int) ([]byte, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if outputSize <= 0 {
		outputSize = DefaultOutputSize
	}
	if displayed.W <= 0 || displayed.H <= 0 || zoom <= 0 || box.Size <= 0 {
		return nil, ErrEmptyCrop
	}

	natural := src.Bounds()
	effective := EffectiveBounds(displayed, zoom)
	ratioX := float64(natural.Dx()) / (displayed.W * zoom)
	ratioY := float64(natural.Dy()) / (displayed.H * zoom)

	sx := natural.Min.X + int(math.Round((box.X-effective.X)*ratioX))
	sy := natural.Min.Y + int(math.Round((box.Y-effective.Y)*ratioY))
	sw := int(math.Round(box.Size * ratioX))
	sh := int(math.Round(box.Size * ratioY))

	srcRect := image.Rect(sx, sy, sx+sw, sy+sh).Intersect(natural)
	if srcRect.Empty() {
		return nil, ErrEmptyCrop
	}

	dst := image.NewRGBA(image.Rect(0, 0, outputSize, outputSize))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, srcRect, xdraw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
