package svgtrace

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// NewBitmap wraps a row-major RGBA pixel buffer (non-premultiplied, 4 bytes
// per pixel) into an image. The buffer is copied.
func NewBitmap(width, height int, pix []uint8) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, newError(InvalidImage, "bitmap", "dimensions %dx%d must be positive", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, newError(InvalidImage, "bitmap",
			"pixel buffer has %d bytes, expected %d for %dx%d", len(pix), width*height*4, width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	return img, nil
}

// checkImage returns an InvalidImage error for missing or empty images.
func checkImage(img image.Image) error {
	if img == nil {
		return newError(InvalidImage, "trace", "image is nil")
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return newError(InvalidImage, "trace", "image has a zero dimension: %dx%d", b.Dx(), b.Dy())
	}
	if nrgba, ok := img.(*image.NRGBA); ok && len(nrgba.Pix) == 0 {
		return newError(InvalidImage, "trace", "image has an empty pixel buffer")
	}
	return nil
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if b.Min.X == 0 && b.Min.Y == 0 {
		if src, ok := img.(*image.NRGBA); ok {
			return src
		}
	}
	return imaging.Clone(img)
}

// decodeImg decodes a still image. Besides the standard library formats
// BMP, TIFF and WebP are also recognized.
func decodeImg(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode the source image: %w", err)
	}
	return img, nil
}

// encodeImg encodes an image in the format given by the file extension.
func encodeImg(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.New("unsupported image format")
	}
}

// isImageExt reports whether the file name has one of the decodable extensions.
func isImageExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}
