package geom

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in integer pixel space (top-left origin).
type Rect struct {
	X, Y, W, H int
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// FromImage converts an image.Rectangle.
func FromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Image returns r as an image.Rectangle.
func (r Rect) Image() image.Rectangle { return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H) }

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether inner lies fully inside r.
func (r Rect) Contains(inner Rect) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.X+inner.W <= r.X+r.W &&
		inner.Y+inner.H <= r.Y+r.H
}

// InnerFit returns the largest rectangle with the given aspect ratio (w/h)
// that fits inside parent, centered. The result always has the form
// (w, floor(w/aspect)), which makes InnerFit idempotent.
//
// parent.H and aspect must be non-zero.
func InnerFit(parent Rect, aspect float32) Rect {
	a := float64(aspect)
	w := parent.W
	h := int(float64(w) / a)
	if h > parent.H {
		w = min(parent.W, int(float64(parent.H)*a))
		h = int(float64(w) / a)
	}
	return centered(parent, w, h)
}

// OuterFit returns the smallest rectangle with the given aspect ratio (w/h)
// that fully covers parent, centered on it. It may extend past parent.
func OuterFit(parent Rect, aspect float32) Rect {
	a := float64(aspect)
	w, h := parent.W, parent.H
	if float64(parent.W)/float64(parent.H) > a {
		h = max(parent.H, int(math.Ceil(float64(parent.W)/a)))
	} else {
		w = max(parent.W, int(math.Ceil(float64(parent.H)*a)))
	}
	return centered(parent, w, h)
}

// HorizontalAlign centers child horizontally inside parent, keeping its Y.
func HorizontalAlign(parent, child Rect) Rect {
	child.X = parent.X + (parent.W-child.W)/2
	return child
}

// MapLogicalToPhysical maps child, given in a simW x simH logical space, into
// pixel coordinates inside parent. Width and height round up so adjacent
// tiles never leave a one pixel seam.
func MapLogicalToPhysical(parent, child Rect, simW, simH float32) Rect {
	sw, sh := float64(simW), float64(simH)
	pw, ph := float64(parent.W), float64(parent.H)
	return Rect{
		X: parent.X + int(pw*float64(child.X)/sw),
		Y: parent.Y + int(ph*float64(child.Y)/sh),
		W: int(math.Ceil(pw * float64(child.W) / sw)),
		H: int(math.Ceil(ph * float64(child.H) / sh)),
	}
}

func centered(parent Rect, w, h int) Rect {
	return Rect{
		X: parent.X + (parent.W-w)/2,
		Y: parent.Y + (parent.H-h)/2,
		W: w,
		H: h,
	}
}
