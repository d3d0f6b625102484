// Package geometry computes resize dimensions and crop offsets for image
// variants. All functions are pure: they map natural dimensions plus a
// target policy onto concrete pixel geometry and never touch pixel data.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is returned when a zero or negative dimension would
// otherwise poison the ratio math.
var ErrInvalidDimensions = errors.New("geometry: dimension must be positive")

// Axis selects which dimension a single-axis policy constrains.
type Axis int

const (
	AxisWidth Axis = iota
	AxisHeight
)

// Size is a planned output size in pixels.
type Size struct {
	Width  int
	Height int
}

// Offsets is a planned crop origin within a canvas.
type Offsets struct {
	Top  int
	Left int
}

func checkPositive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidDimensions, name, v)
	}
	return nil
}

func round(f float64) int {
	return int(math.Round(f))
}

// PlanCover returns the smallest aspect-preserving size that fully covers
// the target box, so a later crop to exactly targetW×targetH never needs
// letterboxing. When the image is relatively wider than the target the
// height is fixed and the width overflows; otherwise (including equal
// ratios) the width is fixed.
func PlanCover(imgW, imgH, targetW, targetH int) (Size, error) {
	for _, d := range []struct {
		name string
		v    int
	}{{"imgW", imgW}, {"imgH", imgH}, {"targetW", targetW}, {"targetH", targetH}} {
		if err := checkPositive(d.name, d.v); err != nil {
			return Size{}, err
		}
	}

	ratioImg := float64(imgW) / float64(imgH)
	ratioTarget := float64(targetW) / float64(targetH)

	if ratioImg > ratioTarget {
		return Size{Width: round(float64(targetH) * ratioImg), Height: targetH}, nil
	}
	return Size{Width: targetW, Height: round(float64(targetW) / ratioImg)}, nil
}

// PlanContainNoUpscale fits the image inside the target box preserving
// aspect ratio, but never enlarges: a source already smaller than the box
// along the binding axis keeps its natural size.
func PlanContainNoUpscale(imgW, imgH, targetW, targetH int) (Size, error) {
	for _, d := range []struct {
		name string
		v    int
	}{{"imgW", imgW}, {"imgH", imgH}, {"targetW", targetW}, {"targetH", targetH}} {
		if err := checkPositive(d.name, d.v); err != nil {
			return Size{}, err
		}
	}

	containerRatio := float64(targetW) / float64(targetH)
	imgRatio := float64(imgW) / float64(imgH)

	if containerRatio > imgRatio {
		// Height is the binding constraint.
		if imgH <= targetH {
			return Size{Width: imgW, Height: imgH}, nil
		}
		return Size{Width: round(float64(imgW) * float64(targetH) / float64(imgH)), Height: targetH}, nil
	}

	// Width is the binding constraint.
	if imgW <= targetW {
		return Size{Width: imgW, Height: imgH}, nil
	}
	return Size{Width: targetW, Height: round(float64(imgH) * float64(targetW) / float64(imgW))}, nil
}

// PlanSingleAxisMax scales uniformly so the given axis equals maxDim,
// deriving the other axis from the aspect ratio. If the derived axis
// would exceed the natural size, the whole result is clamped to the
// natural size instead: the source is never upscaled past the original.
func PlanSingleAxisMax(imgW, imgH, maxDim int, axis Axis) (Size, error) {
	for _, d := range []struct {
		name string
		v    int
	}{{"imgW", imgW}, {"imgH", imgH}, {"maxDim", maxDim}} {
		if err := checkPositive(d.name, d.v); err != nil {
			return Size{}, err
		}
	}

	switch axis {
	case AxisWidth:
		h := round(float64(imgH) * float64(maxDim) / float64(imgW))
		if h > imgH {
			return Size{Width: imgW, Height: imgH}, nil
		}
		return Size{Width: maxDim, Height: h}, nil
	case AxisHeight:
		w := round(float64(imgW) * float64(maxDim) / float64(imgH))
		if w > imgW {
			return Size{Width: imgW, Height: imgH}, nil
		}
		return Size{Width: w, Height: maxDim}, nil
	default:
		return Size{}, fmt.Errorf("geometry: unknown axis %d", axis)
	}
}

// PlanCropOffsets chooses the crop origin within a canvasW×canvasH canvas
// for a cropW×cropH region. Requested offsets greater than zero are used
// verbatim. Otherwise the crop is taken from the top-left origin.
//
// The default branch intentionally does NOT center the crop even though
// callers historically described it that way; the origin crop is the
// long-standing behaviour downstream consumers rely on.
func PlanCropOffsets(canvasW, canvasH, cropW, cropH, requestedTop, requestedLeft int) Offsets {
	if requestedTop > 0 || requestedLeft > 0 {
		return Offsets{Top: requestedTop, Left: requestedLeft}
	}
	return Offsets{Top: 0, Left: 0}
}
