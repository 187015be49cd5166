// Package crop implements the square crop-box geometry used when authoring
// guessable images: drag, corner resize and zoom over a displayed image,
// plus rasterization of the selected region. All geometry is pure functions
// on plain records; pointer-event wiring lives with the caller.
package crop

import "math"

const (
	// MinSize is the smallest crop box edge, in container units.
	MinSize = 50

	ZoomMin  = 0.5
	ZoomMax  = 3.0
	ZoomStep = 0.1

	initFraction = 0.6
)

// Box is a square crop rectangle in container coordinates. Width and
// height are the single Size field, so the square invariant holds by
// construction.
type Box struct {
	X, Y, Size float64
}

// Bounds is an axis-aligned rectangle in container coordinates.
type Bounds struct {
	X, Y, W, H float64
}

// Init places the starting crop box: a square centered on the image, sized
// to 60% of the smallest of container and image extents.
func Init(container, image Bounds) Box {
	size := initFraction * math.Min(math.Min(container.W, container.H), math.Min(image.W, image.H))
	b := Box{
		X:    image.X + (image.W-size)/2,
		Y:    image.Y + (image.H-size)/2,
		Size: size,
	}
	return clampToImage(b, image)
}

// Drag translates the box and clamps it back inside the image, each axis
// independently.
func Drag(b Box, image Bounds, dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return clampToImage(b, image)
}

// Resize recomputes the box size from the pointer position: the candidate
// edge is twice the chebyshev distance from the box center, floored at
// MinSize and capped at the smaller image extent. The box is recentered on
// the same center, its position clamped, and the final size re-derived
// from the clamped position so the box never leaves the image.
func Resize(b Box, image Bounds, pointerX, pointerY float64) Box {
	cx := b.X + b.Size/2
	cy := b.Y + b.Size/2

	size := 2 * math.Max(math.Abs(pointerX-cx), math.Abs(pointerY-cy))
	size = math.Max(MinSize, math.Min(size, math.Min(image.W, image.H)))

	b = Box{X: cx - size/2, Y: cy - size/2, Size: size}
	b = clampToImage(b, image)
	b.Size = math.Min(b.Size, math.Min(image.X+image.W-b.X, image.Y+image.H-b.Y))
	return b
}

// Zoom steps the zoom scalar by steps increments of ZoomStep, clamped to
// [ZoomMin, ZoomMax]. The crop box itself does not move; callers re-clamp
// it against the new effective bounds.
func Zoom(z float64, steps int) float64 {
	z += float64(steps) * ZoomStep
	z = math.Round(z*10) / 10
	return math.Max(ZoomMin, math.Min(ZoomMax, z))
}

// EffectiveBounds returns the displayed image bounds scaled by zoom about
// the image center. Drag and resize clamp against these when zoomed.
func EffectiveBounds(image Bounds, zoom float64) Bounds {
	w := image.W * zoom
	h := image.H * zoom
	return Bounds{
		X: image.X + (image.W-w)/2,
		Y: image.Y + (image.H-h)/2,
		W: w,
		H: h,
	}
}

// clampToImage keeps the box fully inside the image. If the box is larger
// than an image extent it shrinks to fit first.
func clampToImage(b Box, image Bounds) Box {
	b.Size = math.Min(b.Size, math.Min(image.W, image.H))
	b.X = math.Max(image.X, math.Min(b.X, image.X+image.W-b.Size))
	b.Y = math.Max(image.Y, math.Min(b.Y, image.Y+image.H-b.Size))
	return b
}

// Contained reports whether the box lies fully within the image, with a
// small epsilon for float noise.
func Contained(b Box, image Bounds) bool {
	const eps = 1e-9
	return b.X >= image.X-eps &&
		b.Y >= image.Y-eps &&
		b.X+b.Size <= image.X+image.W+eps &&
		b.Y+b.Size <= image.Y+image.H+eps
}
