package texture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/geom"
)

func TestSurfaceFill(t *testing.T) {
	s := NewSurface(4, 4)
	assert.Equal(t, geom.R(0, 0, 4, 4), s.Bounds())

	s.Fill(geom.R(2, 2, 10, 10), colors.Green)
	px := s.Pixels()
	assert.Equal(t, color.RGBA{}, px.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, px.RGBAAt(3, 3))
}

func TestSurfaceSnapshotModifiers(t *testing.T) {
	s := NewSurface(1, 1)
	s.Fill(s.Bounds(), colors.White)
	assert.Same(t, s.Pixels(), s.Snapshot(), "neutral modifiers reuse the buffer")

	s.SetColorMod(255, 0, 128)
	s.SetAlphaMod(51)
	snap := s.Snapshot()
	assert.NotSame(t, s.Pixels(), snap)
	assert.Equal(t, color.RGBA{51, 0, 25, 51}, snap.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, s.Pixels().RGBAAt(0, 0), "stored pixels untouched")
	assert.Equal(t, uint8(51), s.AlphaMod())
	assert.Equal(t, [3]uint8{255, 0, 128}, s.ColorMod())
}

func TestSurfaceBlitModes(t *testing.T) {
	src := NewSurface(1, 1)
	src.Fill(src.Bounds(), colors.Color{1, 0, 0, 0.5})

	t.Run("alpha", func(t *testing.T) {
		dst := NewSurface(2, 2)
		dst.Fill(dst.Bounds(), colors.Blue)
		dst.Blit(src, geom.R(0, 0, 2, 2))
		c := dst.Pixels().RGBAAt(1, 1)
		assert.InDelta(t, 128, int(c.R), 2)
		assert.InDelta(t, 127, int(c.B), 2)
		assert.Equal(t, uint8(255), c.A)
	})

	t.Run("none", func(t *testing.T) {
		dst := NewSurface(2, 2)
		dst.Fill(dst.Bounds(), colors.Blue)
		src.SetBlendMode(BlendNone)
		defer src.SetBlendMode(BlendAlpha)
		dst.Blit(src, geom.R(0, 0, 1, 1))
		assert.Equal(t, src.Pixels().RGBAAt(0, 0), dst.Pixels().RGBAAt(0, 0))
		assert.Equal(t, color.RGBA{0, 0, 255, 255}, dst.Pixels().RGBAAt(1, 1))
		assert.Equal(t, BlendNone, src.BlendMode())
	})

	t.Run("add", func(t *testing.T) {
		dst := NewSurface(2, 2)
		dst.Fill(dst.Bounds(), colors.RGB8(200, 10, 0, 255))
		src.SetBlendMode(BlendAdd)
		defer src.SetBlendMode(BlendAlpha)
		dst.Blit(src, geom.R(-1, -1, 2, 2))
		c := dst.Pixels().RGBAAt(0, 0)
		assert.Equal(t, uint8(255), c.R, "saturates")
		assert.Equal(t, uint8(10), c.G)
		assert.Equal(t, color.RGBA{200, 10, 0, 255}, dst.Pixels().RGBAAt(1, 1), "outside blit untouched")
	})
}

func TestSurfaceBlitImageScales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})

	s := NewSurface(4, 2)
	s.BlitImage(img, s.Bounds())
	px := s.Pixels()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, px.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, px.RGBAAt(2, 0))
}

func TestSurfaceFromNormalizesLayout(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 8, 8))
	sub := big.SubImage(image.Rect(4, 4, 6, 6)).(*image.RGBA)
	s := SurfaceFrom(sub)
	assert.Equal(t, geom.R(0, 0, 2, 2), s.Bounds())
}
