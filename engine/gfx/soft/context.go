// Package soft is a headless render context that rasterizes into an
// in-memory framebuffer. Textures are plain RGBA copies keyed by handle, and
// LoseContext drops all of them the way a mobile GL context does on rotation.
package soft

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/hubastard/grove/engine/assets"
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
	"github.com/hubastard/grove/engine/logx"
)

// DefaultMaxTextureSize mirrors the smallest GL_MAX_TEXTURE_SIZE seen on
// mobile GPUs.
const DefaultMaxTextureSize = 4096

type Context struct {
	fb     *image.RGBA
	loader *assets.Loader

	textures map[gfx.Handle]*image.RGBA
	next     gfx.Handle

	drawColor colors.Color
	frames    int
	losses    int

	// MaxTextureSize bounds either dimension of an upload.
	MaxTextureSize int
}

var _ gfx.Device = (*Context)(nil)

// New creates a w x h framebuffer. loader may be nil when nothing is decoded
// from disk.
func New(w, h int, loader *assets.Loader) *Context {
	return &Context{
		fb:             image.NewRGBA(image.Rect(0, 0, w, h)),
		loader:         loader,
		textures:       make(map[gfx.Handle]*image.RGBA),
		drawColor:      colors.Black,
		MaxTextureSize: DefaultMaxTextureSize,
	}
}

// Framebuffer exposes the pixels drawn so far.
func (c *Context) Framebuffer() *image.RGBA { return c.fb }

// Frames reports how many times Present has been called.
func (c *Context) Frames() int { return c.frames }

// LiveTextures reports the number of handles currently owned.
func (c *Context) LiveTextures() int { return len(c.textures) }

// Owns reports whether h still refers to a texture.
func (c *Context) Owns(h gfx.Handle) bool {
	_, ok := c.textures[h]
	return ok
}

// LoseContext forgets every texture. Handles issued before the call become
// invalid; new uploads keep working.
func (c *Context) LoseContext() {
	n := len(c.textures)
	clear(c.textures)
	c.losses++
	logx.Logger().Warn("soft: context lost", "textures", n, "losses", c.losses)
}

func (c *Context) DrawTexture(h gfx.Handle, src *geom.Rect, dst geom.Rect) error {
	tex, ok := c.textures[h]
	if !ok {
		return fmt.Errorf("draw handle %d: %w", h, gfx.ErrInvalidHandle)
	}
	sr := geom.FromImage(tex.Bounds())
	if src != nil {
		if !sr.Contains(*src) || src.Empty() {
			return fmt.Errorf("draw handle %d src %v in %v: %w", h, *src, sr, gfx.ErrSourceOutOfBounds)
		}
		sr = *src
	}
	if dst.Empty() {
		return nil
	}
	xdraw.NearestNeighbor.Scale(c.fb, dst.Image(), tex, sr.Image(), draw.Over, nil)
	return nil
}

func (c *Context) UploadPixels(px *image.RGBA) (gfx.Handle, error) {
	if px == nil {
		return 0, fmt.Errorf("upload nil image: %w", gfx.ErrUploadRejected)
	}
	b := px.Bounds()
	if b.Empty() || b.Dx() > c.MaxTextureSize || b.Dy() > c.MaxTextureSize {
		return 0, fmt.Errorf("upload %dx%d (max %d): %w", b.Dx(), b.Dy(), c.MaxTextureSize, gfx.ErrUploadRejected)
	}
	cp := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(cp, cp.Bounds(), px, b.Min, draw.Src)

	c.next++
	c.textures[c.next] = cp
	return c.next, nil
}

func (c *Context) ReleaseHandle(h gfx.Handle) { delete(c.textures, h) }

func (c *Context) DecodeImage(path string) (*image.RGBA, error) {
	if c.loader == nil {
		return nil, fmt.Errorf("decode %q: no asset loader", path)
	}
	return c.loader.LoadImage(path)
}

// --- canvas ---

func (c *Context) Clear() {
	draw.Draw(c.fb, c.fb.Bounds(), image.NewUniform(c.drawColor.NRGBA()), image.Point{}, draw.Src)
}

func (c *Context) Present() { c.frames++ }

func (c *Context) SetDrawColor(col colors.Color) { c.drawColor = col }
func (c *Context) DrawColor() colors.Color       { return c.drawColor }

func (c *Context) DrawPoints(pts []image.Point) {
	col := c.drawColor.NRGBA()
	for _, p := range pts {
		c.fb.Set(p.X, p.Y, col)
	}
}

func (c *Context) DrawRect(r geom.Rect) {
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W-1, r.Y+r.H-1
	pts := make([]image.Point, 0, 2*(r.W+r.H))
	for x := x0; x <= x1; x++ {
		pts = append(pts, image.Pt(x, y0), image.Pt(x, y1))
	}
	for y := y0 + 1; y < y1; y++ {
		pts = append(pts, image.Pt(x0, y), image.Pt(x1, y))
	}
	c.DrawPoints(pts)
}

func (c *Context) FillRect(r geom.Rect) {
	draw.Draw(c.fb, r.Image(), image.NewUniform(c.drawColor.NRGBA()), image.Point{}, draw.Over)
}

func (c *Context) DrawCircle(cx, cy, r int) { c.DrawPoints(geom.CirclePoints(cx, cy, r)) }
