package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) memFile {
	return memFile{bytes.NewReader(data)}
}

func encodeTestImage(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{200, 30, 30, 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func TestSniffFormat(t *testing.T) {
	format, err := SniffFormat(encodeTestImage(t, "png"))
	require.NoError(t, err)
	require.Equal(t, "png", format)

	format, err = SniffFormat(encodeTestImage(t, "jpeg"))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)

	format, err = SniffFormat(encodeTestImage(t, "gif"))
	require.NoError(t, err)
	require.Equal(t, "gif", format)

	_, err = SniffFormat([]byte("definitely not an image"))
	require.Error(t, err)
}

func TestSniffFormatAVIF(t *testing.T) {
	// Minimal ISO-BMFF ftyp box with the avif major brand.
	header := []byte{0, 0, 0, 16, 'f', 't', 'y', 'p', 'a', 'v', 'i', 'f', 0, 0, 0, 0}
	format, err := SniffFormat(header)
	require.NoError(t, err)
	require.Equal(t, "avif", format)
}

func TestValidateAcceptsPNG(t *testing.T) {
	data := encodeTestImage(t, "png")
	f := newMemFile(data)
	require.NoError(t, Validate(f, "photo.png", int64(len(data))))

	// Reader must be rewound so the caller can upload it.
	pos, err := f.Seek(0, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), pos)
}

func TestValidateRejectsRenamedGIF(t *testing.T) {
	data := encodeTestImage(t, "gif")
	err := Validate(newMemFile(data), "innocent.png", int64(len(data)))
	require.ErrorIs(t, err, ErrGIFNotAllowed)
}

func TestValidateRejectsGIFExtension(t *testing.T) {
	data := encodeTestImage(t, "gif")
	err := Validate(newMemFile(data), "animation.gif", int64(len(data)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported file extension")
}

func TestValidateRejectsOversized(t *testing.T) {
	err := Validate(newMemFile(nil), "big.png", MaxImageSize+1)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestValidateRejectsContentMismatch(t *testing.T) {
	data := []byte("<html>not an image</html>")
	err := Validate(newMemFile(data), "page.png", int64(len(data)))
	require.Error(t, err)
}
