// internal/adapters/out/firestore/order_repository_fs.go
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

	orderdom "karwaan/internal/domain/order"
)

// OrderRepositoryFS is a Firestore-based implementation of the order repository.
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

// ============================================================
// usecase.OrderRepo / query.OrderReader methods
// ============================================================

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r.Client == nil {
		return orderdom.Order{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return orderFromData(snap.Ref.ID, snap.Data())
}

func (r *OrderRepositoryFS) ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []orderdom.Order{}, nil
	}
	return r.list(ctx, r.col().Where("userId", "==", userID))
}

func (r *OrderRepositoryFS) ListByStatus(ctx context.Context, st orderdom.Status) ([]orderdom.Order, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	return r.list(ctx, r.col().Where("status", "==", string(st)))
}

func (r *OrderRepositoryFS) list(ctx context.Context, q firestore.Query) ([]orderdom.Order, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var items []orderdom.Order
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := orderFromData(doc.Ref.ID, doc.Data())
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, nil
}

func (r *OrderRepositoryFS) Create(ctx context.Context, v orderdom.Order) (orderdom.Order, error) {
	if r.Client == nil {
		return orderdom.Order{}, errors.New("firestore client is nil")
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

	if _, err := docRef.Create(ctx, orderToDoc(v)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return orderdom.Order{}, orderdom.ErrConflict
		}
		return orderdom.Order{}, err
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		return orderdom.Order{}, err
	}
	return orderFromData(snap.Ref.ID, snap.Data())
}

// Transition re-reads the order inside a transaction and applies the status
// guard there, so concurrent writers serialize on the document instead of
// racing a read-then-write.
func (r *OrderRepositoryFS) Transition(ctx context.Context, id string, next orderdom.Status, now time.Time) (orderdom.Order, error) {
	if r.Client == nil {
		return orderdom.Order{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	docRef := r.col().Doc(id)

	var out orderdom.Order
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return orderdom.ErrNotFound
			}
			return err
		}
		o, err := orderFromData(snap.Ref.ID, snap.Data())
		if err != nil {
			return err
		}
		if err := o.SetStatus(next, now); err != nil {
			return err
		}
		out = o
		return tx.Set(docRef, orderToDoc(o))
	})
	if err != nil {
		return orderdom.Order{}, err
	}
	return out, nil
}

// ============================================================
// codec
// ============================================================

func orderFromData(id string, data map[string]any) (orderdom.Order, error) {
	if data == nil {
		return orderdom.Order{}, fmt.Errorf("empty order document: %s", id)
	}

	getStr := func(k string) string {
		if v, ok := data[k].(string); ok {
			return strings.TrimSpace(v)
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

	o := orderdom.Order{
		ID:     strings.TrimSpace(id),
		UserID: getStr("userId"),
		Amount: getInt("amount"),
		Status: orderdom.Status(strings.ToUpper(getStr("status"))),
	}
	if raw, ok := data["products"].([]any); ok {
		for _, e := range raw {
			if s, ok := e.(string); ok {
				if v := strings.TrimSpace(s); v != "" {
					o.Products = append(o.Products, v)
				}
			}
		}
	}
	if v, ok := data["createdAt"].(time.Time); ok {
		o.CreatedAt = v.UTC()
	}
	if v, ok := data["updatedAt"].(time.Time); ok && !v.IsZero() {
		t := v.UTC()
		o.UpdatedAt = &t
	}
	return o, nil
}

func orderToDoc(v orderdom.Order) map[string]any {
	m := map[string]any{
		"userId":    strings.TrimSpace(v.UserID),
		"products":  v.Products,
		"amount":    v.Amount,
		"status":    string(v.Status),
		"createdAt": v.CreatedAt.UTC(),
	}
	if v.UpdatedAt != nil && !v.UpdatedAt.IsZero() {
		m["updatedAt"] = v.UpdatedAt.UTC()
	}
	return m
}
