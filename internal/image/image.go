// Package image turns screenshot files into data URIs for multimodal requests.
package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize is the largest screenshot accepted, in bytes.
const MaxSize = 20 << 20

var (
	// ErrNotImage is returned for files whose content is not an image.
	ErrNotImage = errors.New("not an image")

	// ErrTooLarge is returned for files over MaxSize.
	ErrTooLarge = errors.New("image too large")

	// ErrInvalidDataURI is returned by ParseDataURI for malformed input.
	ErrInvalidDataURI = errors.New("invalid data URI")
)

var extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Image is a screenshot ready to send.
type Image struct {
	Path     string
	MimeType string
	Data     []byte
}

// DataURI encodes the image as data:<mime>;base64,<data>.
func (i Image) DataURI() string {
	return "data:" + i.MimeType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// HasImageExtension reports whether path looks like a screenshot by name.
func HasImageExtension(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Load reads an image file and sniffs its MIME type.
func Load(path string) (Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > MaxSize {
		return Image{}, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return FromBytes(path, data)
}

// FromBytes wraps raw image bytes, rejecting anything that is not an image.
func FromBytes(name string, data []byte) (Image, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return Image{}, fmt.Errorf("%s: %w (%s)", name, ErrNotImage, mime)
	}
	return Image{Path: name, MimeType: mime, Data: data}, nil
}

// ParseDataURI decodes a base64 data URI produced by DataURI.
func ParseDataURI(uri string) (Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	mime, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok || mime == "" {
		return Image{}, fmt.Errorf("%w: expected data:<mimetype>;base64,<data>", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	return Image{MimeType: mime, Data: data}, nil
}

// LoadAll loads every source, a file path or a data URI, stopping at the
// first failure.
func LoadAll(sources []string) ([]Image, error) {
	images := make([]Image, 0, len(sources))
	for _, src := range sources {
		var (
			img Image
			err error
		)
		if strings.HasPrefix(src, "data:") {
			img, err = ParseDataURI(src)
		} else {
			img, err = Load(src)
		}
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// DataURIs encodes every image.
func DataURIs(images []Image) []string {
	uris := make([]string, 0, len(images))
	for _, img := range images {
		uris = append(uris, img.DataURI())
	}
	return uris
}
