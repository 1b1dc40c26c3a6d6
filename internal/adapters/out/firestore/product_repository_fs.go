// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "karwaan/internal/domain/product"
)

// ProductRepositoryFS is a Firestore-based implementation of the product repository.
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// ============================================================
// usecase.ProductRepo / query.ProductReader methods
// ============================================================

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}

	return productFromData(snap.Ref.ID, snap.Data())
}

func (r *ProductRepositoryFS) List(ctx context.Context) ([]productdom.Product, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	var items []productdom.Product
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := productFromData(doc.Ref.ID, doc.Data())
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *ProductRepositoryFS) Count(ctx context.Context) (int, error) {
	if r.Client == nil {
		return 0, errors.New("firestore client is nil")
	}

	it := r.col().Select().Documents(ctx)
	defer it.Stop()

	n := 0
	for {
		_, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

func (r *ProductRepositoryFS) Create(ctx context.Context, v productdom.Product) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, errors.New("firestore client is nil")
	}

	id := strings.TrimSpace(v.ID)
	var docRef *firestore.DocumentRef
	if id == "" {
		docRef = r.col().NewDoc()
		v.ID = docRef.ID
	} else {
		docRef = r.col().Doc(id)
		v.ID = id
	}

	if _, err := docRef.Create(ctx, productToDoc(v)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return productdom.Product{}, productdom.ErrConflict
		}
		return productdom.Product{}, err
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		return productdom.Product{}, err
	}
	return productFromData(snap.Ref.ID, snap.Data())
}

// Save = full upsert
func (r *ProductRepositoryFS) Save(ctx context.Context, v productdom.Product) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, errors.New("firestore client is nil")
	}

	id := strings.TrimSpace(v.ID)
	if id == "" {
		return r.Create(ctx, v)
	}
	v.ID = id

	docRef := r.col().Doc(id)
	if _, err := docRef.Set(ctx, productToDoc(v)); err != nil {
		return productdom.Product{}, err
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		return productdom.Product{}, err
	}
	return productFromData(snap.Ref.ID, snap.Data())
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r.Client == nil {
		return errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.ErrNotFound
	}

	docRef := r.col().Doc(id)
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.ErrNotFound
		}
		return err
	}
	_, err := docRef.Delete(ctx)
	return err
}

// ============================================================
// codec
// ============================================================

func productFromData(id string, data map[string]any) (productdom.Product, error) {
	if data == nil {
		return productdom.Product{}, fmt.Errorf("empty product document: %s", id)
	}

	getStr := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := data[k].(string); ok {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}
	getInt := func(k string) int {
		switch v := data[k].(type) {
		case int64:
			return int(v)
		case int:
			return v
		case float64:
			return int(v)
		}
		return 0
	}
	getTime := func(k string) time.Time {
		if v, ok := data[k].(time.Time); ok {
			return v.UTC()
		}
		return time.Time{}
	}
	getTimePtr := func(k string) *time.Time {
		if v, ok := data[k].(time.Time); ok && !v.IsZero() {
			t := v.UTC()
			return &t
		}
		return nil
	}
	getStrs := func(k string) []string {
		raw, ok := data[k].([]any)
		if !ok {
			return nil
		}
		out := make([]string, 0, len(raw))
		for _, e := range raw {
			if s, ok := e.(string); ok {
				if v := strings.TrimSpace(s); v != "" {
					out = append(out, v)
				}
			}
		}
		return out
	}

	media := productdom.Media{}
	if m, ok := data["media"].(map[string]any); ok {
		if v, ok := m["data"].(string); ok {
			media.Data = v
		}
		if v, ok := m["url"].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				media.URL = &s
			}
		}
		if v, ok := m["type"].(string); ok {
			media.Type = productdom.MediaType(strings.TrimSpace(v))
		}
		if v, ok := m["status"].(string); ok {
			media.Status = productdom.MediaStatus(strings.ToUpper(strings.TrimSpace(v)))
		}
	}

	p := productdom.Product{
		ID:          strings.TrimSpace(id),
		OwnerID:     getStr("ownerId", "userId"),
		Name:        getStr("name"),
		Tags:        getStrs("tags"),
		Price:       getInt("price"),
		Description: getStr("description"),
		Media:       media,
		CreatedAt:   getTime("createdAt"),
		UpdatedAt:   getTimePtr("updatedAt"),
	}
	return p, nil
}

func productToDoc(v productdom.Product) map[string]any {
	media := map[string]any{
		"data":   v.Media.Data,
		"type":   string(v.Media.Type),
		"status": string(v.Media.Status),
	}
	if v.Media.URL != nil {
		if s := strings.TrimSpace(*v.Media.URL); s != "" {
			media["url"] = s
		}
	}

	m := map[string]any{
		"ownerId":     strings.TrimSpace(v.OwnerID),
		"name":        strings.TrimSpace(v.Name),
		"tags":        v.Tags,
		"price":       v.Price,
		"description": strings.TrimSpace(v.Description),
		"media":       media,
		"createdAt":   v.CreatedAt.UTC(),
	}
	if v.UpdatedAt != nil && !v.UpdatedAt.IsZero() {
		m["updatedAt"] = v.UpdatedAt.UTC()
	}
	return m
}
