// internal/adapters/out/firestore/productMetadata_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "karwaan/internal/domain/product"
)

// ProductMediaMetadataRepositoryFS stores one upload record per product.
// The document id IS the product id, so the one-to-one rule holds in the
// store itself, not just in application code.
type ProductMediaMetadataRepositoryFS struct {
	Client *firestore.Client
}

func NewProductMediaMetadataRepositoryFS(client *firestore.Client) *ProductMediaMetadataRepositoryFS {
	return &ProductMediaMetadataRepositoryFS{Client: client}
}

func (r *ProductMediaMetadataRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("product_media_metadata")
}

func (r *ProductMediaMetadataRepositoryFS) GetByProductID(ctx context.Context, productID string) (productdom.MediaMetadata, error) {
	if r.Client == nil {
		return productdom.MediaMetadata{}, errors.New("firestore client is nil")
	}

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return productdom.MediaMetadata{}, productdom.ErrMetadataNotFound
	}

	snap, err := r.col().Doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.MediaMetadata{}, productdom.ErrMetadataNotFound
		}
		return productdom.MediaMetadata{}, err
	}
	return mediaMetadataFromData(snap.Ref.ID, snap.Data())
}

func (r *ProductMediaMetadataRepositoryFS) Create(ctx context.Context, v productdom.MediaMetadata) (productdom.MediaMetadata, error) {
	if r.Client == nil {
		return productdom.MediaMetadata{}, errors.New("firestore client is nil")
	}

	docRef := r.col().Doc(strings.TrimSpace(v.ProductID))
	if _, err := docRef.Create(ctx, mediaMetadataToDoc(v)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return productdom.MediaMetadata{}, productdom.ErrMetadataConflict
		}
		return productdom.MediaMetadata{}, err
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		return productdom.MediaMetadata{}, err
	}
	return mediaMetadataFromData(snap.Ref.ID, snap.Data())
}

func (r *ProductMediaMetadataRepositoryFS) Delete(ctx context.Context, productID string) error {
	if r.Client == nil {
		return errors.New("firestore client is nil")
	}

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return productdom.ErrMetadataNotFound
	}
	_, err := r.col().Doc(productID).Delete(ctx)
	return err
}

// ============================================================
// codec
// ============================================================

func mediaMetadataFromData(id string, data map[string]any) (productdom.MediaMetadata, error) {
	if data == nil {
		return productdom.MediaMetadata{}, fmt.Errorf("empty media metadata document: %s", id)
	}

	getStr := func(k string) string {
		if v, ok := data[k].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	m := productdom.MediaMetadata{
		ProductID: strings.TrimSpace(id),
		ObjectKey: getStr("objectKey"),
		URL:       getStr("url"),
		Type:      productdom.MediaType(getStr("type")),
	}
	if v, ok := data["createdAt"].(time.Time); ok {
		m.CreatedAt = v.UTC()
	}
	return m, nil
}

func mediaMetadataToDoc(v productdom.MediaMetadata) map[string]any {
	return map[string]any{
		"objectKey": strings.TrimSpace(v.ObjectKey),
		"url":       strings.TrimSpace(v.URL),
		"type":      string(v.Type),
		"createdAt": v.CreatedAt.UTC(),
	}
}
