package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache keeps decoded images and their channel planes keyed by path.
//
// Once an image is loaded, later calls for the same path reuse the decoded
// copy without disk I/O. Planes are built lazily the first time a channel is
// requested.
//
// # Memory Management
//
// Cached images remain in memory until removed with Evict or Clear.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	plane, err := cache.Plane("/data/m51.png", imaging.ChannelLuminance)
//	if err != nil {
//	    log.Fatal(err)
//	}
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	img    image.Image
	planes [NumChannels]*Plane
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]*cacheEntry),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
//
// The cache key is the exact path string; relative and absolute paths to the
// same file are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

// Plane returns one channel of the image at path as float32 values.
func (c *ImageCache) Plane(path string, channel int) (*Plane, error) {
	if channel < 0 || channel >= NumChannels {
		return nil, fmt.Errorf("channel %d out of range (0-%d)", channel, NumChannels-1)
	}

	entry, err := c.entry(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	p := entry.planes[channel]
	c.mu.RUnlock()
	if p != nil {
		return p, nil
	}

	p = NewPlane(entry.img, channel)

	c.mu.Lock()
	if existing := entry.planes[channel]; existing != nil {
		p = existing
	} else {
		entry.planes[channel] = p
	}
	c.mu.Unlock()

	return p, nil
}

func (c *ImageCache) entry(path string) (*cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		return e, nil
	}
	e := &cacheEntry{img: img}
	c.entries[path] = e
	return e, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict removes one image from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ImageInfo describes a loaded image.
type ImageInfo struct {
	// Path is the path the image was loaded from.
	Path string `json:"path"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is derived from the file extension: png, jpeg, gif, tiff, bmp or unknown.
	Format string `json:"format"`

	// Channels lists the channel names in index order.
	Channels []string `json:"channels"`

	// FileSizeBytes is the size of the image file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".tif", ".tiff":
		format = "tiff"
	case ".bmp":
		format = "bmp"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Path:          path,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		Channels:      ChannelNames(),
		FileSizeBytes: stat.Size(),
	}, nil
}
