package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Loader reads engine assets from a filesystem. Texture paths are resolved
// relative to TextureDir, shader names relative to ShaderDir.
type Loader struct {
	FS         billy.Filesystem
	TextureDir string
	ShaderDir  string
}

// NewLoader returns a Loader over fs using the default assets/ layout.
func NewLoader(fs billy.Filesystem) *Loader {
	return &Loader{
		FS:         fs,
		TextureDir: path.Join("assets", "textures"),
		ShaderDir:  path.Join("assets", "shaders"),
	}
}

// NewDiskLoader returns a Loader rooted at dir on the host filesystem.
func NewDiskLoader(dir string) *Loader { return NewLoader(osfs.New(dir)) }

// LoadImage decodes the texture at relPath into tightly packed RGBA8 pixels
// (stride == 4*w, top-left origin). PNG, JPEG, GIF, BMP, TIFF and WebP are
// supported.
func (l *Loader) LoadImage(relPath string) (*image.RGBA, error) {
	p := path.Join(l.TextureDir, relPath)
	f, err := l.FS.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", p, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", p, err)
	}

	return ToRGBA(img), nil
}

// ToRGBA returns img as a zero-origin RGBA with tight rows. img is returned
// unchanged when it already has that layout.
func ToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) && m.Stride == m.Rect.Dx()*4 {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
