package texture

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/hubastard/grove/engine/assets"
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/geom"
)

// BlendMode selects how a surface is combined when blitted onto another.
type BlendMode uint8

const (
	BlendAlpha BlendMode = iota // source over destination
	BlendNone                   // copy, alpha included
	BlendAdd                    // saturating add of alpha-weighted source
)

// Surface is a CPU-side RGBA pixel buffer with per-surface color, alpha and
// blend modifiers. The modifiers apply when the surface is blitted or
// snapshotted for upload, never to the stored pixels.
type Surface struct {
	pix      *image.RGBA
	alphaMod uint8
	colorMod [3]uint8
	blend    BlendMode
}

// NewSurface returns a transparent w x h surface.
func NewSurface(w, h int) *Surface {
	return SurfaceFrom(image.NewRGBA(image.Rect(0, 0, w, h)))
}

// SurfaceFrom wraps img, which the surface then owns.
func SurfaceFrom(img *image.RGBA) *Surface {
	return &Surface{
		pix:      assets.ToRGBA(img),
		alphaMod: 255,
		colorMod: [3]uint8{255, 255, 255},
	}
}

func (s *Surface) Bounds() geom.Rect        { return geom.FromImage(s.pix.Bounds()) }
func (s *Surface) Pixels() *image.RGBA      { return s.pix }
func (s *Surface) AlphaMod() uint8          { return s.alphaMod }
func (s *Surface) ColorMod() [3]uint8       { return s.colorMod }
func (s *Surface) BlendMode() BlendMode     { return s.blend }
func (s *Surface) SetAlphaMod(a uint8)      { s.alphaMod = a }
func (s *Surface) SetBlendMode(m BlendMode) { s.blend = m }

func (s *Surface) SetColorMod(r, g, b uint8) { s.colorMod = [3]uint8{r, g, b} }

// Fill overwrites r (clipped to the surface) with c.
func (s *Surface) Fill(r geom.Rect, c colors.Color) {
	draw.Draw(s.pix, r.Image(), image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
}

// Blit scales src into dst using src's modifiers and blend mode.
func (s *Surface) Blit(src *Surface, dst geom.Rect) {
	s.blit(src.Snapshot(), src.blend, dst)
}

// BlitImage scales img into dst with alpha blending.
func (s *Surface) BlitImage(img image.Image, dst geom.Rect) {
	s.blit(img, BlendAlpha, dst)
}

func (s *Surface) blit(img image.Image, mode BlendMode, dst geom.Rect) {
	dr := dst.Image()
	switch mode {
	case BlendNone:
		xdraw.NearestNeighbor.Scale(s.pix, dr, img, img.Bounds(), xdraw.Src, nil)
	case BlendAdd:
		tmp := image.NewRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		xdraw.NearestNeighbor.Scale(tmp, tmp.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		addOnto(s.pix, dr, tmp)
	default:
		xdraw.NearestNeighbor.Scale(s.pix, dr, img, img.Bounds(), xdraw.Over, nil)
	}
}

// addOnto adds src's alpha-weighted color onto dst at dr, clipped.
func addOnto(dst *image.RGBA, dr image.Rectangle, src *image.RGBA) {
	clip := dr.Intersect(dst.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			si := src.PixOffset(x-dr.Min.X, y-dr.Min.Y)
			di := dst.PixOffset(x, y)
			for k := 0; k < 3; k++ {
				dst.Pix[di+k] = sat(int(dst.Pix[di+k]) + int(src.Pix[si+k]))
			}
		}
	}
}

func sat(v int) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Snapshot returns the pixels with color and alpha modifiers applied. With
// neutral modifiers it returns the backing image itself.
func (s *Surface) Snapshot() *image.RGBA {
	if s.alphaMod == 255 && s.colorMod == [3]uint8{255, 255, 255} {
		return s.pix
	}
	out := image.NewRGBA(s.pix.Rect)
	am := uint32(s.alphaMod)
	for i := 0; i+3 < len(s.pix.Pix); i += 4 {
		for k := 0; k < 3; k++ {
			v := uint32(s.pix.Pix[i+k]) * uint32(s.colorMod[k]) / 255
			out.Pix[i+k] = uint8(v * am / 255)
		}
		out.Pix[i+3] = uint8(uint32(s.pix.Pix[i+3]) * am / 255)
	}
	return out
}
