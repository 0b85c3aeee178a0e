package profile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ImageKind selects which profile image is being replaced
type ImageKind string

const (
	KindAvatar     ImageKind = "avatar"
	KindBackground ImageKind = "background"
)

// ErrNotAnImage is returned when an upload cannot be decoded as an image
var ErrNotAnImage = errors.New("profile: upload is not a supported image")

// ErrUnknownKind is returned for an unsupported ImageKind
var ErrUnknownKind = errors.New("profile: unknown image kind")

const jpegQuality = 85

type dimensions struct{ width, height int }

var sizes = map[ImageKind]dimensions{
	KindAvatar:     {256, 256},
	KindBackground: {1500, 500},
}

// ParseKind validates a kind taken from a route
func ParseKind(s string) (ImageKind, error) {
	k := ImageKind(s)
	if _, ok := sizes[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// processImage decodes r honouring EXIF orientation, crops to the kind's
// dimensions around the center and re-encodes as JPEG.
func processImage(kind ImageKind, r io.Reader) ([]byte, error) {
	dim, ok := sizes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrNotAnImage
		}
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	resized := imaging.Fill(img, dim.width, dim.height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode %s image: %w", kind, err)
	}
	return buf.Bytes(), nil
}
