// Package texture implements cached GPU textures and the drawable variants
// built on them: Sprite, SpriteSheet, SurfaceTexture and SurfaceSpriteSheet.
//
// Every drawable follows the same render contract. A draw is attempted with
// the current GPU handle; when the backend rejects it the handle is assumed
// stale (typically after a context loss), the resource is rebuilt (first from
// its CPU surface if it has one, then from its source path) and the draw is
// retried exactly once.
//
// Nothing in this package is safe for concurrent use. Call it from the thread
// that owns the render context.
package texture

import (
	"fmt"
	"image"
	"math"

	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
	"github.com/hubastard/grove/engine/logx"
)

// Texture is a GPU texture uploaded from an image file. Width and Height
// reflect the image at load time.
type Texture struct {
	Path   string
	Width  uint16
	Height uint16
	Handle gfx.Handle
}

// Bounds returns the texture's pixel rectangle.
func (t *Texture) Bounds() geom.Rect { return geom.R(0, 0, int(t.Width), int(t.Height)) }

// loadTexture decodes path and uploads it through ctx.
func loadTexture(ctx gfx.Context, path string) (Texture, error) {
	img, err := ctx.DecodeImage(path)
	if err != nil {
		return Texture{}, fmt.Errorf("%w: %w", ErrResourceLoad, err)
	}
	h, err := upload(ctx, path, img)
	if err != nil {
		return Texture{}, err
	}
	b := img.Bounds()
	return Texture{Path: path, Width: uint16(b.Dx()), Height: uint16(b.Dy()), Handle: h}, nil
}

func upload(ctx gfx.Context, path string, img *image.RGBA) (gfx.Handle, error) {
	b := img.Bounds()
	if b.Dx() > math.MaxUint16 || b.Dy() > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %q is %dx%d", ErrResourceLoad, path, b.Dx(), b.Dy())
	}
	h, err := ctx.UploadPixels(img)
	if err != nil {
		return 0, fmt.Errorf("%w: upload %q: %w", ErrResourceLoad, path, err)
	}
	logx.Logger().Debug("texture: uploaded", "path", path, "handle", h, "w", b.Dx(), "h", b.Dy())
	return h, nil
}
