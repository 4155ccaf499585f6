package image

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	img, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, path, img.Path)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg==", img.DataURI())
}

func TestLoad_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("just text"), 0o600))

	_, err := Load(path)

	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.png"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDataURI_RoundTrip(t *testing.T) {
	img, err := FromBytes("x", pngHeader)
	require.NoError(t, err)

	parsed, err := ParseDataURI(img.DataURI())

	require.NoError(t, err)
	assert.Equal(t, img.MimeType, parsed.MimeType)
	assert.Equal(t, img.Data, parsed.Data)
}

func TestParseDataURI_Invalid(t *testing.T) {
	for _, uri := range []string{
		"image/png;base64,AAAA",
		"data:image/png,AAAA",
		"data:;base64,AAAA",
		"data:image/png;base64,***",
	} {
		_, err := ParseDataURI(uri)
		assert.ErrorIs(t, err, ErrInvalidDataURI, uri)
	}
}

func TestHasImageExtension(t *testing.T) {
	assert.True(t, HasImageExtension("a/b/Screen Shot.PNG"))
	assert.True(t, HasImageExtension("x.jpeg"))
	assert.False(t, HasImageExtension("x.png.tmp"))
	assert.False(t, HasImageExtension("README"))
}

func TestLoadAll_PathsAndDataURIs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	images, err := LoadAll([]string{path, "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="})

	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, images[0].Data, images[1].Data)
	assert.Equal(t, "image/png", images[1].MimeType)

	_, err = LoadAll([]string{path, filepath.Join(t.TempDir(), "missing.png")})
	assert.Error(t, err)
}
