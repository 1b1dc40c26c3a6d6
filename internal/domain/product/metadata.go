// internal/domain/product/metadata.go
package product

import (
	"strings"
	"time"
)

// MediaMetadata is the durable record of a completed object-store upload.
// Its existence is the gate for marking the product's media READY, and the
// one-per-product rule is structural (the record is keyed by the product id).
type MediaMetadata struct {
	ProductID string
	ObjectKey string
	URL       string
	Type      MediaType
	CreatedAt time.Time
}

func NewMediaMetadata(productID, objectKey, url string, mediaType MediaType, createdAt time.Time) (MediaMetadata, error) {
	m := MediaMetadata{
		ProductID: strings.TrimSpace(productID),
		ObjectKey: strings.TrimSpace(objectKey),
		URL:       strings.TrimSpace(url),
		Type:      mediaType,
		CreatedAt: createdAt.UTC(),
	}
	if m.ProductID == "" || m.ObjectKey == "" || m.URL == "" || m.CreatedAt.IsZero() {
		return MediaMetadata{}, ErrInvalidPayload
	}
	if m.Type != MediaTypeImage && m.Type != MediaTypeVideo {
		return MediaMetadata{}, ErrUnsupportedMediaType
	}
	return m, nil
}
