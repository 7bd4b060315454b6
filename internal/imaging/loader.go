package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/bmp" // BMP decoder and encoder
)

// DefaultJPEGQuality is used by SaveFile when no quality is given.
const DefaultJPEGQuality = 95

// ImageCache provides thread-safe caching of decoded files to avoid redundant
// disk reads.
//
// Entries are keyed by path and remember the file's size and modification
// time; a Load after the file changed on disk decodes it again. The cache
// keeps its own copy of every buffer and hands out clones, so callers may
// edit what they receive.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	buf, format, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use buf...
//	cache.Evict("/path/to/image.png") // Drop it once it is no longer open
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cacheEntry
}

type cacheEntry struct {
	buf     *Buffer
	format  string
	size    int64
	modTime time.Time
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cacheEntry),
	}
}

// Load returns a copy of the decoded image at path and its format name
// ("png", "jpeg", "gif" or "bmp"), decoding the file only when it is not
// cached or has changed since it was cached.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid PNG, JPEG, GIF or BMP image
func (c *ImageCache) Load(path string) (*Buffer, string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	entry, ok := c.images[path]
	c.mu.RUnlock()
	if ok && entry.size == stat.Size() && entry.modTime.Equal(stat.ModTime()) {
		return entry.buf.Clone(), entry.format, nil
	}

	buf, format, err := LoadFile(path)
	if err != nil {
		return nil, "", err
	}

	c.mu.Lock()
	c.images[path] = cacheEntry{
		buf:     buf.Clone(),
		format:  format,
		size:    stat.Size(),
		modTime: stat.ModTime(),
	}
	c.mu.Unlock()

	return buf, format, nil
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// LoadFile decodes the image file at path into a new Buffer.
func LoadFile(path string) (*Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a PNG, JPEG, GIF or BMP stream into a new Buffer and returns
// the detected format name.
func Decode(r io.Reader) (*Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	buf, err := FromImage(img)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return buf, format, nil
}

// FormatFromPath maps a file extension to an encoder name.
//
//   - ".png" -> "png"
//   - ".jpg", ".jpeg" -> "jpeg"
//   - ".gif" -> "gif"
//   - ".bmp" -> "bmp"
//   - Other extensions -> "" (unsupported)
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	}
	return ""
}

// Encode writes b to w in the named format. quality applies to JPEG only;
// values outside 1-100 select DefaultJPEGQuality.
func Encode(w io.Writer, b *Buffer, format string, quality int) error {
	if b == nil {
		return ErrEmptyBuffer
	}
	img := b.Image()

	var err error
	switch format {
	case "png":
		err = png.Encode(w, img)
	case "jpeg":
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "gif":
		err = gif.Encode(w, img, nil)
	case "bmp":
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("failed to encode image: unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// SaveFile encodes b into path, choosing the format from the extension.
// The file is written to a temporary sibling first and renamed into place,
// so a failed encode never truncates an existing image.
func SaveFile(path string, b *Buffer, quality int) error {
	format := FormatFromPath(path)
	if format == "" {
		return fmt.Errorf("failed to encode image: unsupported file extension %q", filepath.Ext(path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".image-edit-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, b, format, quality); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// PreviewResult contains a buffer encoded as base64 PNG for display.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview encodes b as a base64 PNG.
func Preview(b *Buffer) (*PreviewResult, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b, "png", 0); err != nil {
		return nil, err
	}
	return &PreviewResult{
		Width:       b.Width,
		Height:      b.Height,
		Channels:    b.Channels,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
