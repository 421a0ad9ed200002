package graphics

import (
	"path/filepath"
	"sync"

	"xrndr/internal/scene"

	"go.uber.org/zap"
)

// CachedTexture is what a TextureCache hands out and eventually frees.
type CachedTexture interface {
	Handle() uint32
	Release()
}

// TextureLoader turns a resolved file path into a texture.
type TextureLoader func(path string) (CachedTexture, error)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	Loaded      int // textures currently resident
	CacheHits   int
	CacheMisses int
	Failures    int
}

type cacheEntry struct {
	tex  CachedTexture
	refs int
}

// TextureCache shares one texture per path among its users and frees it when
// the last user releases it.
type TextureCache struct {
	mu      sync.Mutex
	dir     string
	load    TextureLoader
	entries map[string]*cacheEntry
	stats   TextureStats
	log     *zap.Logger
}

// NewTextureCache resolves relative paths against dir and loads them with
// LoadTexture, scaled to at most maxSize texels per side.
func NewTextureCache(dir string, maxSize int, log *zap.Logger) *TextureCache {
	return NewTextureCacheWithLoader(dir, func(path string) (CachedTexture, error) {
		return LoadTexture(path, maxSize)
	}, log)
}

func NewTextureCacheWithLoader(dir string, load TextureLoader, log *zap.Logger) *TextureCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &TextureCache{
		dir:     dir,
		load:    load,
		entries: make(map[string]*cacheEntry),
		log:     log,
	}
}

func (c *TextureCache) resolve(path string) string {
	if c.dir == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.dir, path)
}

// Acquire returns the texture for path, loading it on first use. Each
// successful Acquire must be paired with a Release.
func (c *TextureCache) Acquire(path string) (scene.Texture, error) {
	key := c.resolve(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.refs++
		c.stats.CacheHits++
		c.log.Debug("texture cache hit",
			zap.String("path", key),
			zap.Uint32("textureID", e.tex.Handle()),
			zap.Int("refCount", e.refs))
		return e.tex, nil
	}

	c.stats.CacheMisses++
	tex, err := c.load(key)
	if err != nil {
		c.stats.Failures++
		c.log.Warn("texture load failed", zap.String("path", key), zap.Error(err))
		return nil, err
	}

	c.entries[key] = &cacheEntry{tex: tex, refs: 1}
	c.stats.Loaded++
	c.log.Info("texture loaded",
		zap.String("path", key),
		zap.Uint32("textureID", tex.Handle()))
	return tex, nil
}

// Release drops one reference to path and frees the texture on the last one.
func (c *TextureCache) Release(path string) {
	key := c.resolve(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.log.Warn("release of unknown texture", zap.String("path", key))
		return
	}
	e.refs--
	if e.refs > 0 {
		return
	}

	e.tex.Release()
	delete(c.entries, key)
	c.stats.Loaded--
	c.log.Debug("texture freed", zap.String("path", key))
}

// Clear frees every texture regardless of outstanding references.
func (c *TextureCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		e.tex.Release()
		delete(c.entries, key)
	}
	c.stats.Loaded = 0
}

func (c *TextureCache) Stats() TextureStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
