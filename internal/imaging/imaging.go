// Package imaging turns uploaded image files into data URLs. Images are kept
// as uploaded; nothing is resized or re-encoded.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxBytes is the largest accepted upload.
const MaxBytes = 10 << 20

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// Encoded is an image ready to be stored as a string.
type Encoded struct {
	MIME    string
	Width   int
	Height  int
	Size    int64
	DataURL string
}

// Encode reads an image, checks that it really is one of the allowed formats
// by sniffing and decoding its header, and returns it as a base64 data URL.
func Encode(r io.Reader) (*Encoded, error) {
	return encode(r, MaxBytes)
}

func encode(r io.Reader, limit int64) (*Encoded, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image too large: over %d bytes", limit)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	// Sniff actual MIME type from bytes (not trusting the file name).
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s", detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}

	return &Encoded{
		MIME:    detected,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Size:    int64(len(data)),
		DataURL: "data:" + detected + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
