package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/webp"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = int64(10 * 1024 * 1024) // 10MB

// Allowed upload extensions. GIF is deliberately absent.
var allowedExtensions = map[string]bool{
	".jpg":   true,
	".jpeg":  true,
	".jpe":   true,
	".jfif":  true,
	".png":   true,
	".webp":  true,
	".avif":  true,
	".avifs": true,
}

var allowedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"webp": true,
	"avif": true,
}

var (
	ErrTooLarge      = errors.New("image exceeds the maximum allowed size")
	ErrGIFNotAllowed = errors.New("GIF files are not allowed, even if renamed")
)

// Validate checks an uploaded file both by extension and by decoded content,
// so a disallowed format cannot sneak in under a renamed file. Allowed:
// JPEG, PNG, WebP, AVIF. The reader is rewound before returning so the
// caller can hand it straight to the blob store.
func Validate(file multipart.File, filename string, size int64) error {
	if size > MaxImageSize {
		return ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("unsupported file extension: %s", ext)
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return errors.New("invalid or corrupted image file")
	}
	if int64(len(data)) > MaxImageSize {
		return ErrTooLarge
	}

	format, err := SniffFormat(data)
	if err != nil {
		return err
	}
	if format == "gif" {
		return ErrGIFNotAllowed
	}
	if !allowedFormats[format] {
		return fmt.Errorf("invalid image format detected: %s", format)
	}

	_, err = file.Seek(0, io.SeekStart)
	return err
}

// SniffFormat identifies the actual image format from the file content.
// AVIF has no Go decoder, so its ISO-BMFF container brand is matched
// directly; everything else goes through the registered image decoders.
func SniffFormat(data []byte) (string, error) {
	if isAVIF(data) {
		return "avif", nil
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", errors.New("invalid or corrupted image file")
	}
	return format, nil
}

// isAVIF reports whether data starts with an ISO-BMFF ftyp box whose major
// brand is avif or avis.
func isAVIF(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	return brand == "avif" || brand == "avis"
}

func init() {
	// gif is registered so renamed GIFs are detected and rejected rather
	// than failing as unknown.
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
	image.RegisterFormat("gif", "GIF8?a", gif.Decode, gif.DecodeConfig)
	image.RegisterFormat("webp", "RIFF????WEBPVP8", webp.Decode, webp.DecodeConfig)
}
