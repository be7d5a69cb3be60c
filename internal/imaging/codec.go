// Package imaging decodes uploaded signature images and re-encodes them to
// the canonical form sent to the vision model.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
)

// MIMEPNG is the media type declared for every encoded payload. Uploads are
// re-encoded to PNG regardless of their original format so the model always
// sees a consistent type.
const MIMEPNG = "image/png"

// Payload is the base64 form of a canonically encoded image.
type Payload struct {
	Base64 string
	MIME   string
}

// DataURI returns the payload embedded as a data URI.
func (p Payload) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", p.MIME, p.Base64)
}

// Empty reports whether the payload carries no image data.
func (p Payload) Empty() bool { return p.Base64 == "" }

// Decode parses PNG or JPEG bytes into an image. JPEG is tried first, then
// PNG.
func Decode(data []byte) (image.Image, error) {
	reader := bytes.NewReader(data)

	if img, err := jpeg.Decode(reader); err == nil {
		return img, nil
	}

	reader.Seek(0, io.SeekStart)
	if img, err := png.Decode(reader); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("unsupported image data: must be PNG or JPEG")
}

// EncodePNG re-serializes a decoded image to PNG and returns it as a base64
// payload. StdEncoding emits no newlines, so the result can be embedded in a
// data URI as is. The transform is deterministic: the same pixels always
// produce the same string.
func EncodePNG(img image.Image) (Payload, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Payload{}, fmt.Errorf("encode png: %w", err)
	}
	return Payload{
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MIME:   MIMEPNG,
	}, nil
}
