package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ContentType is the media type of every encoded payload.
const ContentType = "image/jpeg"

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 95

var (
	// ErrInvalidQuality is returned for qualities outside 1-100.
	ErrInvalidQuality = errors.New("codec: quality must be between 1 and 100")
	// ErrUnsupportedImage is returned when input cannot be decoded as an image.
	ErrUnsupportedImage = errors.New("codec: unsupported image")
)

// Encoded is a JPEG payload ready for transfer.
type Encoded struct {
	Data []byte
	Size int64
}

// Reader returns a fresh reader over the payload.
func (e *Encoded) Reader() *bytes.Reader {
	return bytes.NewReader(e.Data)
}

// Encoder turns in-memory images into JPEG bytes at a fixed quality.
type Encoder struct {
	quality int
}

// NewEncoder validates quality and returns an Encoder.
func NewEncoder(quality int) (*Encoder, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}
	return &Encoder{quality: quality}, nil
}

// Quality returns the configured JPEG quality.
func (e *Encoder) Quality() int {
	return e.quality
}

// Encode writes img as JPEG. Images with an alpha channel or a palette are
// flattened to opaque RGB on a copy first; img itself is never modified.
func (e *Encoder) Encode(img image.Image) (*Encoded, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrUnsupportedImage)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, toRGB(img), imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return &Encoded{Data: buf.Bytes(), Size: int64(buf.Len())}, nil
}

// NeedsConversion reports whether img must be flattened before JPEG encoding.
func NeedsConversion(img image.Image) bool {
	switch img.(type) {
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	}
	return true
}

// toRGB drops the alpha channel the way a mode conversion does: colour values
// are kept un-premultiplied and every pixel becomes opaque.
func toRGB(img image.Image) image.Image {
	if !NeedsConversion(img) {
		return img
	}
	flat := imaging.Clone(img)
	for i := 3; i < len(flat.Pix); i += 4 {
		flat.Pix[i] = 0xff
	}
	return flat
}

// Decode reads an image from raw bytes. The bytes are sniffed first so that
// non-image input fails with ErrUnsupportedImage before decoding.
func Decode(data []byte) (image.Image, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrUnsupportedImage, mtype.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}

// Open reads an image from a file on disk.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, path, err)
	}
	return img, nil
}
