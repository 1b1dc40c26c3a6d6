// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	productdom "karwaan/internal/domain/product"
)

// ProductRepo is the persistence port required by ProductUsecase.
type ProductRepo interface {
	GetByID(ctx context.Context, id string) (productdom.Product, error)
	List(ctx context.Context) ([]productdom.Product, error)
	Create(ctx context.Context, p productdom.Product) (productdom.Product, error)
	Save(ctx context.Context, p productdom.Product) (productdom.Product, error)
	Delete(ctx context.Context, id string) error
}

// MediaMetadataRepo persists upload metadata keyed by product id.
type MediaMetadataRepo interface {
	GetByProductID(ctx context.Context, productID string) (productdom.MediaMetadata, error)
	Create(ctx context.Context, m productdom.MediaMetadata) (productdom.MediaMetadata, error)
	Delete(ctx context.Context, productID string) error
}

// MediaStore is the object-storage port.
type MediaStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

// ProductUsecase owns the product catalog and its media upload pipeline.
type ProductUsecase struct {
	repo  ProductRepo
	meta  MediaMetadataRepo
	store MediaStore

	uploadTimeout time.Duration
	awaitUpload   bool

	now   func() time.Time
	newID func() string
}

type ProductUsecaseOptions struct {
	// UploadTimeout bounds the detached object-store upload.
	UploadTimeout time.Duration
	// AwaitUpload makes Upload block until the media is READY (or FAILED).
	AwaitUpload bool
}

func NewProductUsecase(repo ProductRepo, meta MediaMetadataRepo, store MediaStore, opts ProductUsecaseOptions) *ProductUsecase {
	timeout := opts.UploadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ProductUsecase{
		repo:          repo,
		meta:          meta,
		store:         store,
		uploadTimeout: timeout,
		awaitUpload:   opts.AwaitUpload,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// =======================
// Commands
// =======================

type UploadInput struct {
	OwnerID     string
	Name        string
	Tags        []string
	Price       int
	Description string

	FileName    string
	ContentType string
	Data        []byte
}

type UploadResult struct {
	Product  productdom.Product
	Metadata *productdom.MediaMetadata
}

// Upload creates the product with a base64 media placeholder, then moves the
// bytes to object storage. The metadata record is written before the product
// URL so a READY product always has a backing metadata row.
func (u *ProductUsecase) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if strings.TrimSpace(in.FileName) == "" || len(in.Data) == 0 {
		return UploadResult{}, productdom.ErrInvalidPayload
	}
	mediaType, err := productdom.ClassifyMIME(in.ContentType)
	if err != nil {
		return UploadResult{}, err
	}

	now := u.now().UTC()
	media := productdom.Media{
		Data:   base64.StdEncoding.EncodeToString(in.Data),
		Type:   mediaType,
		Status: productdom.MediaStatusPending,
	}
	p, err := productdom.New(
		u.newID(),
		in.OwnerID,
		in.Name,
		in.Tags,
		in.Price,
		in.Description,
		media,
		now,
	)
	if err != nil {
		return UploadResult{}, err
	}
	p, err = u.repo.Create(ctx, p)
	if err != nil {
		return UploadResult{}, err
	}

	key := fmt.Sprintf("products/%d_%s", now.UnixMilli(), sanitizeFileName(in.FileName))

	if u.awaitUpload {
		meta, err := u.completeUpload(ctx, p.ID, key, in.ContentType, mediaType, in.Data)
		if err != nil {
			// upload failure is recorded on the product, not surfaced here
			log.Printf("[media] upload failed productId=%s key=%s err=%v", p.ID, key, err)
			failed, gerr := u.repo.GetByID(ctx, p.ID)
			if gerr == nil {
				return UploadResult{Product: failed}, nil
			}
			return UploadResult{Product: p}, nil
		}
		ready, err := u.repo.GetByID(ctx, p.ID)
		if err != nil {
			return UploadResult{}, err
		}
		return UploadResult{Product: ready, Metadata: &meta}, nil
	}

	// Detached context: the request finishing (or being canceled) must not
	// abort the transfer.
	go func(productID string, contentType string, data []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), u.uploadTimeout)
		defer cancel()
		if _, err := u.completeUpload(ctx, productID, key, contentType, mediaType, data); err != nil {
			log.Printf("[media] upload failed productId=%s key=%s err=%v", productID, key, err)
		}
	}(p.ID, in.ContentType, in.Data)

	return UploadResult{Product: p}, nil
}

// completeUpload runs step 2 of the pipeline. Order matters: object write,
// metadata record, then the product URL patch. Any failure marks the product
// FAILED before returning.
func (u *ProductUsecase) completeUpload(
	ctx context.Context,
	productID, key, contentType string,
	mediaType productdom.MediaType,
	data []byte,
) (productdom.MediaMetadata, error) {
	if err := u.store.Put(ctx, key, contentType, data); err != nil {
		u.markFailed(ctx, productID)
		return productdom.MediaMetadata{}, fmt.Errorf("put object: %w", err)
	}
	url := u.store.PublicURL(key)

	meta, err := productdom.NewMediaMetadata(productID, key, url, mediaType, u.now().UTC())
	if err != nil {
		u.markFailed(ctx, productID)
		return productdom.MediaMetadata{}, err
	}
	meta, err = u.meta.Create(ctx, meta)
	if err != nil {
		u.markFailed(ctx, productID)
		return productdom.MediaMetadata{}, fmt.Errorf("create metadata: %w", err)
	}

	p, err := u.repo.GetByID(ctx, productID)
	if err != nil {
		return productdom.MediaMetadata{}, fmt.Errorf("reload product: %w", err)
	}
	if err := p.MarkMediaReady(url, u.now()); err != nil {
		return productdom.MediaMetadata{}, err
	}
	if _, err := u.repo.Save(ctx, p); err != nil {
		return productdom.MediaMetadata{}, fmt.Errorf("save product: %w", err)
	}
	log.Printf("[media] upload complete productId=%s key=%s", productID, key)
	return meta, nil
}

func (u *ProductUsecase) markFailed(ctx context.Context, productID string) {
	// The trigger is usually the upload context expiring; the failure patch
	// still has to land, so it runs on a fresh deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	p, err := u.repo.GetByID(ctx, productID)
	if err != nil {
		log.Printf("[media] mark failed: reload productId=%s err=%v", productID, err)
		return
	}
	p.MarkMediaFailed(u.now())
	if _, err := u.repo.Save(ctx, p); err != nil {
		log.Printf("[media] mark failed: save productId=%s err=%v", productID, err)
	}
}

type UpdateProductInput struct {
	ID string

	Name        *string
	Tags        *[]string
	Price       *int
	Description *string
}

func (u *ProductUsecase) Update(ctx context.Context, in UpdateProductInput) (productdom.Product, error) {
	p, err := u.repo.GetByID(ctx, strings.TrimSpace(in.ID))
	if err != nil {
		return productdom.Product{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Tags != nil {
		tags := make([]string, 0, len(*in.Tags))
		for _, t := range *in.Tags {
			if v := strings.TrimSpace(t); v != "" {
				tags = append(tags, v)
			}
		}
		p.Tags = tags
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if p.Name == "" || len(p.Tags) == 0 || p.Price < 0 || p.Description == "" {
		return productdom.Product{}, productdom.ErrInvalidPayload
	}
	t := u.now().UTC()
	p.UpdatedAt = &t

	return u.repo.Save(ctx, p)
}

// Delete removes the product, its metadata record, and the stored object.
// The product delete must succeed; the rest is best-effort cleanup.
func (u *ProductUsecase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	meta, metaErr := u.meta.GetByProductID(ctx, id)

	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	if metaErr == nil {
		if err := u.meta.Delete(ctx, id); err != nil {
			log.Printf("[media] delete metadata productId=%s err=%v", id, err)
		}
		if err := u.store.Delete(ctx, meta.ObjectKey); err != nil {
			log.Printf("[media] delete object key=%s err=%v", meta.ObjectKey, err)
		}
	}
	return nil
}

// =======================
// Queries
// =======================

func (u *ProductUsecase) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	return u.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (u *ProductUsecase) List(ctx context.Context) ([]productdom.Product, error) {
	return u.repo.List(ctx)
}

// =======================
// Helpers
// =======================

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name
}
