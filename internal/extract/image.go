package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// maxImageDimension bounds the longest side of an image sent to the
// collaborator. Anything larger is downscaled first.
const maxImageDimension = 2048

// PrepareImagePayload downscales oversized images before they are sent to the
// visual-mode collaborator. Non-image payloads (PDFs) pass through untouched,
// as do images already within bounds. Downscaled images are re-encoded as JPEG.
func PrepareImagePayload(payload []byte, mimeType string) ([]byte, string, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return payload, mimeType, nil
	}

	img, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxImageDimension && bounds.Dy() <= maxImageDimension {
		return payload, mimeType, nil
	}

	resized := imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, "", fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
