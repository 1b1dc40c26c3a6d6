// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"
)

// ========================================
// Media
// ========================================

// MediaType is derived from the uploaded file's MIME type.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaStatus tracks the background object-store upload.
type MediaStatus string

const (
	MediaStatusPending MediaStatus = "PENDING"
	MediaStatusReady   MediaStatus = "READY"
	MediaStatusFailed  MediaStatus = "FAILED"
)

// imageMIMETypes and videoMIMETypes are the fixed upload allow-lists.
// Anything outside them is rejected before any write happens.
var imageMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/bmp":  {},
	"image/tiff": {},
	"image/webp": {},
}

var videoMIMETypes = map[string]struct{}{
	"video/mp4":       {},
	"video/webm":      {},
	"video/ogg":       {},
	"video/x-msvideo": {},
	"video/quicktime": {},
	"video/mpeg":      {},
}

// ClassifyMIME maps a MIME type onto the media type enum.
func ClassifyMIME(contentType string) (MediaType, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	// strip parameters like "; charset=..."
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if _, ok := imageMIMETypes[ct]; ok {
		return MediaTypeImage, nil
	}
	if _, ok := videoMIMETypes[ct]; ok {
		return MediaTypeVideo, nil
	}
	return "", ErrUnsupportedMediaType
}

// Media is the embedded media state of a product. Data holds the base64
// placeholder until the object-store upload completes; URL stays nil while
// Status is PENDING or FAILED.
type Media struct {
	Data   string
	URL    *string
	Type   MediaType
	Status MediaStatus
}

// ========================================
// Entity
// ========================================

type Product struct {
	ID          string
	OwnerID     string
	Name        string
	Tags        []string
	Price       int
	Description string
	Media       Media
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ========================================
// Errors
// ========================================

var (
	ErrNotFound             = errors.New("product: not found")
	ErrConflict             = errors.New("product: already exists")
	ErrInvalidPayload       = errors.New("product: invalid payload")
	ErrUnsupportedMediaType = errors.New("product: unsupported media type")
	ErrTooManyFiles         = errors.New("product: too many files")
	ErrMetadataNotFound     = errors.New("product: media metadata not found")
	ErrMetadataConflict     = errors.New("product: media metadata already exists")
)

// ========================================
// Constructors
// ========================================

func New(
	id string,
	ownerID string,
	name string,
	tags []string,
	price int,
	description string,
	media Media,
	createdAt time.Time,
) (Product, error) {
	p := Product{
		ID:          strings.TrimSpace(id),
		OwnerID:     strings.TrimSpace(ownerID),
		Name:        strings.TrimSpace(name),
		Tags:        normalizeTags(tags),
		Price:       price,
		Description: strings.TrimSpace(description),
		Media:       media,
		CreatedAt:   createdAt.UTC(),
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ========================================
// Behavior
// ========================================

// MarkMediaReady records the public URL once the stored object and its
// metadata record both exist.
func (p *Product) MarkMediaReady(url string, now time.Time) error {
	u := strings.TrimSpace(url)
	if u == "" {
		return ErrInvalidPayload
	}
	p.Media.URL = &u
	p.Media.Status = MediaStatusReady
	p.touch(now)
	return nil
}

// MarkMediaFailed leaves the placeholder in place so the failure is visible
// instead of the product silently carrying no media forever.
func (p *Product) MarkMediaFailed(now time.Time) {
	p.Media.Status = MediaStatusFailed
	p.touch(now)
}

func (p *Product) touch(now time.Time) {
	t := now.UTC()
	p.UpdatedAt = &t
}

// ========================================
// Validation
// ========================================

func (p Product) validate() error {
	if p.ID == "" || p.OwnerID == "" || p.Name == "" || p.Description == "" {
		return ErrInvalidPayload
	}
	if len(p.Tags) == 0 {
		return ErrInvalidPayload
	}
	if p.Price < 0 {
		return ErrInvalidPayload
	}
	if p.Media.Type != MediaTypeImage && p.Media.Type != MediaTypeVideo {
		return ErrUnsupportedMediaType
	}
	switch p.Media.Status {
	case MediaStatusPending, MediaStatusReady, MediaStatusFailed:
	default:
		return ErrInvalidPayload
	}
	if p.CreatedAt.IsZero() {
		return ErrInvalidPayload
	}
	return nil
}

// ========================================
// Helpers
// ========================================

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if v := strings.TrimSpace(t); v != "" {
			out = append(out, v)
		}
	}
	return out
}
