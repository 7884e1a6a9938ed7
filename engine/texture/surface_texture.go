package texture

import (
	"fmt"
	"image"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
	"github.com/hubastard/grove/engine/logx"
)

// surfaceResource is the exclusively owned CPU surface plus its GPU copy
// shared by the surface variants. The surface is the source of truth; the
// handle is rebuilt whenever the surface changes.
type surfaceResource struct {
	surface *Surface
	handle  gfx.Handle
	path    string
	dirty   bool
}

func loadSurfaceResource(ctx gfx.Context, path string) (surfaceResource, error) {
	img, err := ctx.DecodeImage(path)
	if err != nil {
		return surfaceResource{}, fmt.Errorf("%w: %w", ErrResourceLoad, err)
	}
	h, err := upload(ctx, path, img)
	if err != nil {
		return surfaceResource{}, err
	}
	return surfaceResource{surface: SurfaceFrom(img), handle: h, path: path}, nil
}

// Surface returns the CPU surface. Mutating it directly requires MarkDirty.
func (r *surfaceResource) Surface() *Surface { return r.surface }

// Path returns the source path, empty for surfaces created in memory.
func (r *surfaceResource) Path() string { return r.path }

// Handle returns the current GPU copy, possibly stale.
func (r *surfaceResource) Handle() gfx.Handle { return r.handle }

// MarkDirty forces the GPU copy to be rebuilt before the next draw.
func (r *surfaceResource) MarkDirty() { r.dirty = true }

// FillRect fills dest on the CPU surface with c.
func (r *surfaceResource) FillRect(dest geom.Rect, c colors.Color) {
	r.surface.Fill(dest, c)
	r.dirty = true
}

// Blit scales src into dest on the CPU surface.
func (r *surfaceResource) Blit(src *Surface, dest geom.Rect) {
	r.surface.Blit(src, dest)
	r.dirty = true
}

// BlitImage scales img into dest on the CPU surface.
func (r *surfaceResource) BlitImage(img image.Image, dest geom.Rect) {
	r.surface.BlitImage(img, dest)
	r.dirty = true
}

func (r *surfaceResource) SetAlphaMod(a uint8) {
	r.surface.SetAlphaMod(a)
	r.dirty = true
}

func (r *surfaceResource) SetColorMod(red, green, blue uint8) {
	r.surface.SetColorMod(red, green, blue)
	r.dirty = true
}

func (r *surfaceResource) SetBlendMode(m BlendMode) {
	r.surface.SetBlendMode(m)
	r.dirty = true
}

// Close releases the GPU copy and drops the surface. A closed resource
// cannot be drawn or reloaded.
func (r *surfaceResource) Close(ctx gfx.Context) {
	if r.handle.Valid() {
		ctx.ReleaseHandle(r.handle)
	}
	*r = surfaceResource{}
}

// regenerate uploads a fresh copy of the surface, replacing the old handle.
func (r *surfaceResource) regenerate(ctx gfx.Context) (bool, error) {
	if r.surface == nil {
		return false, nil
	}
	if r.handle.Valid() {
		ctx.ReleaseHandle(r.handle)
		r.handle = 0
	}
	h, err := upload(ctx, r.path, r.surface.Snapshot())
	if err != nil {
		return false, err
	}
	r.handle = h
	r.dirty = false
	return true, nil
}

// reloadFromPath replaces surface and handle with a fresh decode of path.
func (r *surfaceResource) reloadFromPath(ctx gfx.Context) error {
	fresh, err := loadSurfaceResource(ctx, r.path)
	if err != nil {
		return err
	}
	if r.handle.Valid() && r.handle != fresh.handle {
		ctx.ReleaseHandle(r.handle)
	}
	*r = fresh
	return nil
}

// promote brings the GPU copy up to date before a draw. A failed upload
// leaves no handle; recovery retries it and reports the upload error.
func (r *surfaceResource) promote(ctx gfx.Context) error {
	if r.surface == nil || (!r.dirty && r.handle.Valid()) {
		return nil
	}
	_, err := r.regenerate(ctx)
	return err
}

func (r *surfaceResource) recoveryFor(ctx gfx.Context, name string, draw func() error) recovery {
	rec := recovery{
		name:       name,
		draw:       draw,
		regenerate: func() (bool, error) { return r.regenerate(ctx) },
	}
	if r.path != "" {
		rec.reload = func() error { return r.reloadFromPath(ctx) }
	}
	return rec
}

// SurfaceTexture is a CPU-editable image drawn whole. Its GPU copy is built
// lazily on the first Render after any change.
type SurfaceTexture struct {
	surfaceResource
	dst   geom.Rect
	state State
}

// NewSurfaceTexture creates an opaque black w x h surface texture with no
// source path.
func NewSurfaceTexture(w, h int) *SurfaceTexture {
	st := &SurfaceTexture{
		surfaceResource: surfaceResource{surface: NewSurface(w, h), dirty: true},
		dst:             geom.R(0, 0, w, h),
	}
	st.surface.Fill(st.surface.Bounds(), colors.Black)
	return st
}

// LoadSurfaceTexture decodes path into a surface texture. Surface textures
// are never shared through the Cache.
func LoadSurfaceTexture(ctx gfx.Context, path string) (*SurfaceTexture, error) {
	res, err := loadSurfaceResource(ctx, path)
	if err != nil {
		return nil, err
	}
	return &SurfaceTexture{surfaceResource: res, dst: res.surface.Bounds()}, nil
}

func (st *SurfaceTexture) State() State        { return st.state }
func (st *SurfaceTexture) Dest() geom.Rect     { return st.dst }
func (st *SurfaceTexture) SetDest(r geom.Rect) { st.dst = r }

func (st *SurfaceTexture) Render(ctx gfx.Context) error {
	if err := st.promote(ctx); err != nil {
		logx.Logger().Debug("texture: promotion failed", "path", st.path, "err", err)
	}
	return renderWithRecovery(&st.state, st.recoveryFor(ctx, "surface "+st.path, func() error {
		return drawHandle(ctx, st.handle, nil, st.dst)
	}))
}

// SurfaceSpriteSheet is a CPU-editable tile sheet.
type SurfaceSpriteSheet struct {
	surfaceResource
	tileW, tileH int
	src          geom.Rect
	dst          geom.Rect
	state        State
}

// LoadSurfaceSpriteSheet decodes path into a sheet of tw x th tiles.
func LoadSurfaceSpriteSheet(ctx gfx.Context, path string, tw, th int) (*SurfaceSpriteSheet, error) {
	if tw <= 0 || th <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidRegion, tw, th)
	}
	res, err := loadSurfaceResource(ctx, path)
	if err != nil {
		return nil, err
	}
	src, err := tileRect(res.surface.Bounds(), tw, th, 0, 0)
	if err != nil {
		res.Close(ctx)
		return nil, err
	}
	return &SurfaceSpriteSheet{
		surfaceResource: res,
		tileW:           tw,
		tileH:           th,
		src:             src,
		dst:             geom.R(0, 0, tw, th),
	}, nil
}

func (ss *SurfaceSpriteSheet) State() State         { return ss.state }
func (ss *SurfaceSpriteSheet) Dest() geom.Rect      { return ss.dst }
func (ss *SurfaceSpriteSheet) SetDest(r geom.Rect)  { ss.dst = r }
func (ss *SurfaceSpriteSheet) Source() geom.Rect    { return ss.src }
func (ss *SurfaceSpriteSheet) TileSize() (w, h int) { return ss.tileW, ss.tileH }

func (ss *SurfaceSpriteSheet) Tiles() (cols, rows int) {
	if ss.surface == nil {
		return 0, 0
	}
	b := ss.surface.Bounds()
	return b.W / ss.tileW, b.H / ss.tileH
}

func (ss *SurfaceSpriteSheet) SetTile(col, row int) error {
	if ss.surface == nil {
		return fmt.Errorf("%w: sheet is closed", ErrInvalidRegion)
	}
	r, err := tileRect(ss.surface.Bounds(), ss.tileW, ss.tileH, col, row)
	if err != nil {
		return err
	}
	ss.src = r
	return nil
}

func (ss *SurfaceSpriteSheet) Render(ctx gfx.Context) error {
	if err := ss.promote(ctx); err != nil {
		logx.Logger().Debug("texture: promotion failed", "path", ss.path, "err", err)
	}
	return renderWithRecovery(&ss.state, ss.recoveryFor(ctx, "surface sheet "+ss.path, func() error {
		return drawHandle(ctx, ss.handle, &ss.src, ss.dst)
	}))
}

func drawHandle(ctx gfx.Context, h gfx.Handle, src *geom.Rect, dst geom.Rect) error {
	if !h.Valid() {
		return gfx.ErrInvalidHandle
	}
	return ctx.DrawTexture(h, src, dst)
}
