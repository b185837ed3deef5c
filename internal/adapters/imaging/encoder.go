package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/kamal-hamza/webopt/internal/core/domain"
)

// DefaultQuality is the JPEG quality used when none is configured
const DefaultQuality = 85

// ErrUnsupportedFormat is returned for images that decode but cannot be
// re-encoded in their own format (WebP) or that are not images at all
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Encoder re-encodes raster images in their original format. JPEG is
// lossy, so repeated passes over the same file keep degrading it; callers
// decide whether to re-run on files that were already processed.
type Encoder struct {
	quality int
}

// NewEncoder creates an Encoder with a JPEG quality on a 1-100 scale
func NewEncoder(quality int) *Encoder {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Encoder{quality: quality}
}

// Quality returns the configured JPEG quality
func (e *Encoder) Quality() int {
	return e.quality
}

func (e *Encoder) Supports(kind domain.Kind) bool {
	return kind == domain.KindImage
}

// Transform decodes content and encodes it again in the same format
func (e *Encoder) Transform(ctx context.Context, kind domain.Kind, content []byte) ([]byte, error) {
	if kind != domain.KindImage {
		return nil, fmt.Errorf("image encoder does not handle %s assets", kind)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	var target imaging.Format
	var opts []imaging.EncodeOption
	switch format {
	case "jpeg":
		target = imaging.JPEG
		opts = append(opts, imaging.JPEGQuality(e.quality))
	case "png":
		target = imaging.PNG
		opts = append(opts, imaging.PNGCompressionLevel(png.BestCompression))
	default:
		return nil, fmt.Errorf("%w: cannot re-encode %s", ErrUnsupportedFormat, format)
	}

	// Re-encoding drops EXIF, so bake the orientation into the pixels first
	img, err := imaging.Decode(bytes.NewReader(content), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, target, opts...); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
