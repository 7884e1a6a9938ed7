package texture

import (
	"fmt"
	"sort"

	"github.com/hubastard/grove/engine/gfx"
	"github.com/hubastard/grove/engine/logx"
)

// CacheStats counts cache traffic since creation.
type CacheStats struct {
	Entries int
	Hits    int
	Loads   int
	Reloads int
}

// Cache owns one Texture per source path and uploads each path at most once
// until it is reloaded or invalidated.
type Cache struct {
	entries map[string]*Texture
	stats   CacheStats
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Texture)}
}

// Ref is a non-owning reference to a cached texture. It stores the cache key
// rather than the resource, so a reload is visible through every Ref taken
// before it.
type Ref struct {
	cache *Cache
	path  string
}

// Path returns the key this Ref resolves.
func (r Ref) Path() string { return r.path }

// Texture resolves the current resource. It reports false if the entry was
// invalidated or the Ref is zero.
func (r Ref) Texture() (*Texture, bool) {
	if r.cache == nil {
		return nil, false
	}
	t, ok := r.cache.entries[r.path]
	return t, ok
}

// Reload forces the cache to rebuild the referenced entry.
func (r Ref) Reload(ctx gfx.Context) error {
	if r.cache == nil {
		return fmt.Errorf("%w: reload of empty reference", ErrResourceLoad)
	}
	_, err := r.cache.Reload(ctx, r.path)
	return err
}

// GetOrLoad returns the entry for path, decoding and uploading it on the
// first request. Failed loads insert nothing.
func (c *Cache) GetOrLoad(ctx gfx.Context, path string) (Ref, error) {
	if _, ok := c.entries[path]; ok {
		c.stats.Hits++
		return Ref{cache: c, path: path}, nil
	}
	t, err := loadTexture(ctx, path)
	if err != nil {
		return Ref{}, err
	}
	c.entries[path] = &t
	c.stats.Loads++
	logx.Logger().Debug("texture cache: loaded", "path", path, "entries", len(c.entries))
	return Ref{cache: c, path: path}, nil
}

// Reload decodes and uploads path again and replaces the entry in place.
// The previous handle is released unless the backend handed the same name
// back for the new upload, which GL does once the old texture is gone.
// Reloading a path with no entry loads it. On failure the existing entry is
// left untouched.
func (c *Cache) Reload(ctx gfx.Context, path string) (Ref, error) {
	t, err := loadTexture(ctx, path)
	if err != nil {
		return Ref{}, err
	}
	c.stats.Reloads++
	if cur, ok := c.entries[path]; ok {
		old := cur.Handle
		*cur = t
		if old != t.Handle {
			ctx.ReleaseHandle(old)
		}
		logx.Logger().Debug("texture cache: reloaded", "path", path, "old", old, "new", t.Handle)
	} else {
		c.entries[path] = &t
		logx.Logger().Debug("texture cache: reloaded missing entry", "path", path)
	}
	return Ref{cache: c, path: path}, nil
}

// Invalidate drops the entry for path and releases its handle. It reports
// whether an entry existed.
func (c *Cache) Invalidate(ctx gfx.Context, path string) bool {
	t, ok := c.entries[path]
	if !ok {
		return false
	}
	delete(c.entries, path)
	ctx.ReleaseHandle(t.Handle)
	return true
}

// Len returns the number of cached textures.
func (c *Cache) Len() int { return len(c.entries) }

// Paths returns the cached keys in sorted order.
func (c *Cache) Paths() []string {
	out := make([]string, 0, len(c.entries))
	for p := range c.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (c *Cache) Stats() CacheStats {
	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// Close releases every handle and empties the cache. Refs taken earlier stop
// resolving.
func (c *Cache) Close(ctx gfx.Context) {
	for p, t := range c.entries {
		ctx.ReleaseHandle(t.Handle)
		delete(c.entries, p)
	}
}

// Sprite returns a Sprite covering the whole texture at path.
func (c *Cache) Sprite(ctx gfx.Context, path string) (*Sprite, error) {
	ref, err := c.GetOrLoad(ctx, path)
	if err != nil {
		return nil, err
	}
	return newSprite(ref), nil
}

// SpriteSheet returns a sheet over the texture at path cut into tw x th tiles.
func (c *Cache) SpriteSheet(ctx gfx.Context, path string, tw, th int) (*SpriteSheet, error) {
	if tw <= 0 || th <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidRegion, tw, th)
	}
	ref, err := c.GetOrLoad(ctx, path)
	if err != nil {
		return nil, err
	}
	return newSpriteSheet(ref, tw, th)
}
