package texture

import (
	"fmt"

	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
)

// Sprite draws a region of a cached texture, the whole texture by default.
type Sprite struct {
	ref   Ref
	src   geom.Rect
	dst   geom.Rect
	state State
}

func newSprite(ref Ref) *Sprite {
	s := &Sprite{ref: ref}
	if t, ok := ref.Texture(); ok {
		s.src = t.Bounds()
		s.dst = t.Bounds()
	}
	return s
}

// Ref returns the cache reference backing the sprite.
func (s *Sprite) Ref() Ref { return s.ref }

func (s *Sprite) State() State        { return s.state }
func (s *Sprite) Dest() geom.Rect     { return s.dst }
func (s *Sprite) SetDest(r geom.Rect) { s.dst = r }
func (s *Sprite) Source() geom.Rect   { return s.src }

// SetSource narrows the sampled region. It must lie within the texture.
func (s *Sprite) SetSource(r geom.Rect) error {
	t, ok := s.ref.Texture()
	if !ok {
		return fmt.Errorf("%w: %q is not cached", ErrInvalidRegion, s.ref.Path())
	}
	if r.Empty() || !t.Bounds().Contains(r) {
		return fmt.Errorf("%w: %v in %v", ErrInvalidRegion, r, t.Bounds())
	}
	s.src = r
	return nil
}

func (s *Sprite) Render(ctx gfx.Context) error {
	return renderWithRecovery(&s.state, recovery{
		name:   "sprite " + s.ref.Path(),
		draw:   func() error { return drawRef(ctx, s.ref, &s.src, s.dst) },
		reload: func() error { return s.ref.Reload(ctx) },
	})
}

// SpriteSheet draws one tile of a cached texture cut into a regular grid.
type SpriteSheet struct {
	ref   Ref
	tileW int
	tileH int
	src   geom.Rect
	dst   geom.Rect
	state State
}

func newSpriteSheet(ref Ref, tw, th int) (*SpriteSheet, error) {
	t, ok := ref.Texture()
	if !ok {
		return nil, fmt.Errorf("%w: %q is not cached", ErrResourceLoad, ref.Path())
	}
	ss := &SpriteSheet{
		ref:   ref,
		tileW: tw,
		tileH: th,
		dst:   geom.R(0, 0, tw, th),
	}
	src, err := tileRect(t.Bounds(), tw, th, 0, 0)
	if err != nil {
		return nil, err
	}
	ss.src = src
	return ss, nil
}

func (ss *SpriteSheet) Ref() Ref             { return ss.ref }
func (ss *SpriteSheet) State() State         { return ss.state }
func (ss *SpriteSheet) Dest() geom.Rect      { return ss.dst }
func (ss *SpriteSheet) SetDest(r geom.Rect)  { ss.dst = r }
func (ss *SpriteSheet) Source() geom.Rect    { return ss.src }
func (ss *SpriteSheet) TileSize() (w, h int) { return ss.tileW, ss.tileH }

// Tiles reports the grid of the texture currently cached, so a reload with
// a different size is reflected. It is 0x0 once the entry is gone.
func (ss *SpriteSheet) Tiles() (cols, rows int) {
	t, ok := ss.ref.Texture()
	if !ok {
		return 0, 0
	}
	return int(t.Width) / ss.tileW, int(t.Height) / ss.tileH
}

func (ss *SpriteSheet) SetTile(col, row int) error {
	t, ok := ss.ref.Texture()
	if !ok {
		return fmt.Errorf("%w: %q is not cached", ErrInvalidRegion, ss.ref.Path())
	}
	r, err := tileRect(t.Bounds(), ss.tileW, ss.tileH, col, row)
	if err != nil {
		return err
	}
	ss.src = r
	return nil
}

func (ss *SpriteSheet) Render(ctx gfx.Context) error {
	return renderWithRecovery(&ss.state, recovery{
		name:   "sheet " + ss.ref.Path(),
		draw:   func() error { return drawRef(ctx, ss.ref, &ss.src, ss.dst) },
		reload: func() error { return ss.ref.Reload(ctx) },
	})
}

// drawRef resolves ref at draw time so reloads are picked up.
func drawRef(ctx gfx.Context, ref Ref, src *geom.Rect, dst geom.Rect) error {
	t, ok := ref.Texture()
	if !ok || !t.Handle.Valid() {
		return fmt.Errorf("%q: %w", ref.Path(), gfx.ErrInvalidHandle)
	}
	return ctx.DrawTexture(t.Handle, src, dst)
}
