package textures

import (
	"image"
	"sync"

	"learngl/gpu"
)

// Cache keeps decoded images by path so that rebuilding a scene does not
// decode the same file twice. It is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]*image.NRGBA)}
}

// Load returns the cached image for path, decoding it on first use.
// Failures are not cached.
func (c *Cache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// Forget drops path so the next Load reads it from disk again.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// NewTexture2D is the package-level NewTexture2D, decoding through c.
func (c *Cache) NewTexture2D(dev gpu.Device, path string, unit uint32, opts Options) (*Texture2D, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	t := NewTexture2DFromImage(dev, img, unit, opts)
	t.path = path
	return t, nil
}
