// internal/adapters/out/firestore/user_repository_fs.go
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

	userdom "karwaan/internal/domain/user"
)

// UserRepositoryFS reads the user collection owned by the auth subsystem.
// Read-only by design: this service never writes users.
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

func (r *UserRepositoryFS) GetByID(ctx context.Context, id string) (userdom.User, error) {
	if r.Client == nil {
		return userdom.User{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return userdom.User{}, userdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return userdom.User{}, userdom.ErrNotFound
		}
		return userdom.User{}, err
	}
	return userFromData(snap.Ref.ID, snap.Data())
}

func (r *UserRepositoryFS) Count(ctx context.Context) (int, error) {
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

// ============================================================
// codec
// ============================================================

func userFromData(id string, data map[string]any) (userdom.User, error) {
	if data == nil {
		return userdom.User{}, fmt.Errorf("empty user document: %s", id)
	}

	getStr := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := data[k].(string); ok {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	u := userdom.User{
		ID:          strings.TrimSpace(id),
		FirstName:   getStr("firstName", "first_name"),
		LastName:    getStr("lastName", "last_name"),
		Email:       getStr("email"),
		Image:       getStr("image"),
		PhoneNumber: getStr("phoneNumber", "phone_number"),
		Role:        userdom.Role(strings.ToLower(getStr("role"))),
	}
	if u.Role == "" {
		u.Role = userdom.RoleCustomer
	}
	if v, ok := data["emailVerified"].(bool); ok {
		u.EmailVerified = v
	}
	if v, ok := data["createdAt"].(time.Time); ok {
		u.CreatedAt = v.UTC()
	}
	return u, nil
}
