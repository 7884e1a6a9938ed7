// Package gfx defines the render context contract consumed by the texture
// layer. Backends live in sub-packages (gl, soft).
package gfx

import (
	"errors"
	"image"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/geom"
)

// Handle is an opaque reference to a texture resident in a backend.
// The zero Handle never refers to a texture.
type Handle uint32

// Valid reports whether h is non-null. It says nothing about whether the
// backend still knows the handle.
func (h Handle) Valid() bool { return h != 0 }

var (
	// ErrInvalidHandle is returned when a draw references a handle the
	// backend no longer owns (released, or lost with the context).
	ErrInvalidHandle = errors.New("gfx: invalid texture handle")
	// ErrUploadRejected is returned when the backend refuses pixel data.
	ErrUploadRejected = errors.New("gfx: upload rejected")
	// ErrSourceOutOfBounds is returned when a source region exceeds the texture.
	ErrSourceOutOfBounds = errors.New("gfx: source region out of bounds")
)

// Context is the minimal surface the texture cache and renderables draw through.
// Implementations are not safe for concurrent use and must be driven from the
// thread that owns the underlying graphics context.
type Context interface {
	// DrawTexture copies src (nil for the whole texture) of h into dst.
	DrawTexture(h Handle, src *geom.Rect, dst geom.Rect) error
	// UploadPixels creates a texture from px.
	UploadPixels(px *image.RGBA) (Handle, error)
	// ReleaseHandle frees h. Releasing an unknown or zero handle is a no-op.
	ReleaseHandle(h Handle)
	// DecodeImage loads and decodes the image stored at path.
	DecodeImage(path string) (*image.RGBA, error)
}

// Canvas is the immediate-mode drawing surface a window exposes alongside
// Context.
type Canvas interface {
	Clear()
	Present()
	SetDrawColor(c colors.Color)
	DrawColor() colors.Color
	DrawPoints(pts []image.Point)
	DrawRect(r geom.Rect)
	FillRect(r geom.Rect)
	DrawCircle(cx, cy, r int)
}

// Device is a full backend: texture context plus canvas.
type Device interface {
	Context
	Canvas
}
