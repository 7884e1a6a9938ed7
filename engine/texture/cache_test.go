package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove/engine/gfx"
)

func TestCacheDeduplicates(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	a, err := c.GetOrLoad(f.ctx, "red.png")
	require.NoError(t, err)
	b, err := c.GetOrLoad(f.ctx, "red.png")
	require.NoError(t, err)

	ta, ok := a.Texture()
	require.True(t, ok)
	tb, ok := b.Texture()
	require.True(t, ok)

	assert.Same(t, ta, tb)
	assert.Equal(t, ta.Handle, tb.Handle)
	assert.Equal(t, 1, f.ctx.decodes["red.png"])
	assert.Equal(t, 1, f.ctx.uploads)
	assert.Equal(t, uint16(8), ta.Width)
	assert.Equal(t, uint16(4), ta.Height)
	assert.Equal(t, "red.png", ta.Path)

	st := c.Stats()
	assert.Equal(t, CacheStats{Entries: 1, Hits: 1, Loads: 1}, st)
}

func TestCacheDistinctPaths(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	a, err := c.GetOrLoad(f.ctx, "red.png")
	require.NoError(t, err)
	b, err := c.GetOrLoad(f.ctx, "green.png")
	require.NoError(t, err)

	ta, _ := a.Texture()
	tb, _ := b.Texture()
	assert.NotEqual(t, ta.Handle, tb.Handle)
	assert.Equal(t, []string{"green.png", "red.png"}, c.Paths())
}

func TestCacheLoadErrors(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	_, err := c.GetOrLoad(f.ctx, "missing.png")
	assert.ErrorIs(t, err, ErrResourceLoad)

	_, err = c.GetOrLoad(f.ctx, "broken.png")
	assert.ErrorIs(t, err, ErrResourceLoad)

	f.ctx.failUploads = 1
	_, err = c.GetOrLoad(f.ctx, "red.png")
	assert.ErrorIs(t, err, ErrResourceLoad)
	assert.ErrorIs(t, err, gfx.ErrUploadRejected)

	assert.Zero(t, c.Len(), "failed loads must not insert entries")

	_, err = c.GetOrLoad(f.ctx, "red.png")
	assert.NoError(t, err)
}

func TestCacheReloadReplacesInPlace(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	ref, err := c.GetOrLoad(f.ctx, "red.png")
	require.NoError(t, err)
	before, _ := ref.Texture()
	oldHandle := before.Handle

	_, err = c.Reload(f.ctx, "red.png")
	require.NoError(t, err)

	after, ok := ref.Texture()
	require.True(t, ok)
	assert.Same(t, before, after, "slot must be updated in place")
	assert.NotEqual(t, oldHandle, after.Handle)
	assert.False(t, f.ctx.Owns(oldHandle), "old handle must be released")
	assert.True(t, f.ctx.Owns(after.Handle))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Stats().Reloads)
}

func TestCacheReloadFailureKeepsEntry(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	ref, err := c.GetOrLoad(f.ctx, "red.png")
	require.NoError(t, err)
	tex, _ := ref.Texture()
	h := tex.Handle

	f.remove("red.png")
	_, err = c.Reload(f.ctx, "red.png")
	require.ErrorIs(t, err, ErrResourceLoad)

	tex, ok := ref.Texture()
	require.True(t, ok)
	assert.Equal(t, h, tex.Handle)
}

func TestCacheReloadMissingEntryInserts(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	ref, err := c.Reload(f.ctx, "green.png")
	require.NoError(t, err)
	_, ok := ref.Texture()
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCacheInvalidate(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	ref, err := c.GetOrLoad(f.ctx, "red.png")
	require.NoError(t, err)
	tex, _ := ref.Texture()
	h := tex.Handle

	assert.True(t, c.Invalidate(f.ctx, "red.png"))
	assert.False(t, c.Invalidate(f.ctx, "red.png"))
	assert.False(t, f.ctx.Owns(h))
	_, ok := ref.Texture()
	assert.False(t, ok)

	_, err = c.GetOrLoad(f.ctx, "red.png")
	require.NoError(t, err)
	assert.Equal(t, 2, f.ctx.decodes["red.png"], "invalidate must force a fresh load")
}

func TestCacheClose(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	for _, p := range []string{"red.png", "green.png", "sheet.png"} {
		_, err := c.GetOrLoad(f.ctx, p)
		require.NoError(t, err)
	}
	require.Equal(t, 3, f.ctx.LiveTextures())

	c.Close(f.ctx)
	assert.Zero(t, c.Len())
	assert.Zero(t, f.ctx.LiveTextures())
}

func TestZeroRef(t *testing.T) {
	var r Ref
	_, ok := r.Texture()
	assert.False(t, ok)
	assert.ErrorIs(t, r.Reload(nil), ErrResourceLoad)
}

func TestCacheSpriteSheetRejectsBadTiles(t *testing.T) {
	f := newFixture(t)
	c := NewCache()

	_, err := c.SpriteSheet(f.ctx, "sheet.png", 0, 16)
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = c.SpriteSheet(f.ctx, "red.png", 16, 16)
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestCacheReloadKeepsRecycledHandle(t *testing.T) {
	f := newFixture(t)
	ctx := newReuseContext(f.fs)
	c := NewCache()

	s, err := c.Sprite(ctx, "red.png")
	require.NoError(t, err)
	require.NoError(t, s.Render(ctx))

	ctx.lose()
	require.NoError(t, s.Render(ctx))
	assert.Equal(t, StateRecovered, s.State())

	tex, ok := s.Ref().Texture()
	require.True(t, ok)
	assert.Equal(t, gfx.Handle(1), tex.Handle, "backend reused the freed name")
	assert.Contains(t, ctx.textures, tex.Handle, "reload must not release the handle it just got")

	require.NoError(t, s.Render(ctx))
	assert.Equal(t, StateReady, s.State())
}
