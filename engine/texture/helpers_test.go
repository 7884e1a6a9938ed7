package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove/engine/assets"
	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
	"github.com/hubastard/grove/engine/gfx/soft"
)

// probeContext wraps the software backend with counters and fault injection.
type probeContext struct {
	*soft.Context

	decodes     map[string]int
	uploads     int
	draws       int
	failDraws   int // fail the next n draws regardless of handle
	failUploads int // reject the next n uploads
}

func (p *probeContext) DrawTexture(h gfx.Handle, src *geom.Rect, dst geom.Rect) error {
	p.draws++
	if p.failDraws > 0 {
		p.failDraws--
		return gfx.ErrInvalidHandle
	}
	return p.Context.DrawTexture(h, src, dst)
}

func (p *probeContext) UploadPixels(px *image.RGBA) (gfx.Handle, error) {
	if p.failUploads > 0 {
		p.failUploads--
		return 0, gfx.ErrUploadRejected
	}
	p.uploads++
	return p.Context.UploadPixels(px)
}

func (p *probeContext) DecodeImage(path string) (*image.RGBA, error) {
	p.decodes[path]++
	return p.Context.DecodeImage(path)
}

// fillPNG encodes a w x h image of a single color.
func fillPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// sheetPNG encodes a cols x rows grid of tw x th tiles, tile i colored
// with red channel i*10.
func sheetPNG(t *testing.T, cols, rows, tw, th int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, cols*tw, rows*th))
	for y := 0; y < rows*th; y++ {
		for x := 0; x < cols*tw; x++ {
			i := (y/th)*cols + x/tw
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(i * 10), G: 0, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	t   *testing.T
	ctx *probeContext
	fs  billy.Filesystem
}

func (f *fixture) write(path string, data []byte) {
	f.t.Helper()
	require.NoError(f.t, util.WriteFile(f.fs, "assets/textures/"+path, data, 0o644))
}

func (f *fixture) remove(path string) {
	f.t.Helper()
	require.NoError(f.t, f.fs.Remove("assets/textures/"+path))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := memfs.New()
	f := &fixture{
		t: t,
		ctx: &probeContext{
			Context: soft.New(64, 64, assets.NewLoader(fs)),
			decodes: map[string]int{},
		},
		fs: fs,
	}
	f.write("red.png", fillPNG(t, 8, 4, color.NRGBA{255, 0, 0, 255}))
	f.write("green.png", fillPNG(t, 8, 8, color.NRGBA{0, 255, 0, 255}))
	f.write("sheet.png", sheetPNG(t, 4, 2, 16, 16))
	f.write("broken.png", []byte("definitely not a png"))
	return f
}

// reuseContext hands out the lowest free handle on every upload, the way
// glGenTextures recycles deleted names.
type reuseContext struct {
	loader   *assets.Loader
	textures map[gfx.Handle]*image.RGBA
}

func newReuseContext(fs billy.Filesystem) *reuseContext {
	return &reuseContext{loader: assets.NewLoader(fs), textures: map[gfx.Handle]*image.RGBA{}}
}

func (c *reuseContext) DrawTexture(h gfx.Handle, src *geom.Rect, dst geom.Rect) error {
	if _, ok := c.textures[h]; !ok {
		return gfx.ErrInvalidHandle
	}
	return nil
}

func (c *reuseContext) UploadPixels(px *image.RGBA) (gfx.Handle, error) {
	h := gfx.Handle(1)
	for c.textures[h] != nil {
		h++
	}
	c.textures[h] = px
	return h, nil
}

func (c *reuseContext) ReleaseHandle(h gfx.Handle)                   { delete(c.textures, h) }
func (c *reuseContext) DecodeImage(path string) (*image.RGBA, error) { return c.loader.LoadImage(path) }

// lose forgets every texture without telling the owners.
func (c *reuseContext) lose() { clear(c.textures) }
