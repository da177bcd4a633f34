// Package imaging prepares item attachments for upload. Photos are sniffed,
// downscaled and re-encoded as JPEG before being base64 encoded for the JSON
// payload the backend expects. Documents travel unmodified.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"

	"github.com/mitindbo/indbo/internal/model"
)

// MaxDimension is the maximum width or height of an uploaded photo.
const MaxDimension = 1024

// JPEGQuality is the compression quality for re-encoded output.
const JPEGQuality = 85

// allowedImageMIME lists the accepted photo input types.
var allowedImageMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a normalized image ready for transport.
type Photo struct {
	Data []byte
	MIME string
}

// Transport returns the base64 form carried in item create and update
// payloads.
func (p *Photo) Transport() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// ProcessPhoto reads image data, validates the format by sniffing bytes,
// downscales anything larger than MaxDimension and re-encodes with
// compression. Output is always JPEG to keep payloads small.
func ProcessPhoto(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Sniff actual MIME type from bytes (not trusting file extensions).
	detected := http.DetectContentType(data)
	if !allowedImageMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// ProcessDocument packages an arbitrary file for transport. The content type
// is sniffed from the bytes; the data itself is never transformed.
func ProcessDocument(r io.Reader, filename string) (*model.NewDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("document %s is empty", filename)
	}

	return &model.NewDocument{
		Document:    base64.StdEncoding.EncodeToString(data),
		Filename:    filename,
		ContentType: http.DetectContentType(data),
	}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, keeping
// the aspect ratio. Uses high-quality Catmull-Rom interpolation. Returns the
// original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// Register decoders (jpeg is registered by default, but be explicit).
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
