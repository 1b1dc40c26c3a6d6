// internal/adapters/in/http/router_test.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karwaan/internal/adapters/in/http/handlers"
	"karwaan/internal/adapters/in/http/middleware"
	"karwaan/internal/application/query"
	"karwaan/internal/application/usecase"
	orderdom "karwaan/internal/domain/order"
	productdom "karwaan/internal/domain/product"
	userdom "karwaan/internal/domain/user"
)

// ============================================================
// in-memory fakes
// ============================================================

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]productdom.Product
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) List(_ context.Context) ([]productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]productdom.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}

func (r *memProductRepo) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; ok {
		return productdom.Product{}, productdom.ErrConflict
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *memProductRepo) Save(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return p, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type memMetadataRepo struct {
	mu      sync.Mutex
	records map[string]productdom.MediaMetadata
}

func (r *memMetadataRepo) GetByProductID(_ context.Context, id string) (productdom.MediaMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.records[id]
	if !ok {
		return productdom.MediaMetadata{}, productdom.ErrMetadataNotFound
	}
	return m, nil
}

func (r *memMetadataRepo) Create(_ context.Context, m productdom.MediaMetadata) (productdom.MediaMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[m.ProductID] = m
	return m, nil
}

func (r *memMetadataRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

type memMediaStore struct{}

func (memMediaStore) Put(_ context.Context, _, _ string, _ []byte) error { return nil }
func (memMediaStore) PublicURL(key string) string                        { return "https://media.test/" + key }
func (memMediaStore) Delete(_ context.Context, _ string) error           { return nil }

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]orderdom.Order
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID string) ([]orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []orderdom.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListByStatus(_ context.Context, st orderdom.Status) ([]orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []orderdom.Order
	for _, o := range r.orders {
		if o.Status == st {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
	return o, nil
}

func (r *memOrderRepo) Transition(_ context.Context, id string, next orderdom.Status, now time.Time) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if err := o.SetStatus(next, now); err != nil {
		return orderdom.Order{}, err
	}
	r.orders[id] = o
	return o, nil
}

type memUserRepo struct {
	users map[string]userdom.User
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (userdom.User, error) {
	u, ok := r.users[id]
	if !ok {
		return userdom.User{}, userdom.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) Count(_ context.Context) (int, error) { return len(r.users), nil }

type stubGateway struct {
	state usecase.PaymentState
	err   error
}

func (g *stubGateway) PaymentStatus(_ context.Context, _ string) (usecase.PaymentState, error) {
	return g.state, g.err
}

// stubVerifier accepts "user-token" and "admin-token".
type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, idToken string) (middleware.VerifiedToken, error) {
	switch idToken {
	case "user-token":
		return middleware.VerifiedToken{UID: "usr-1", Claims: map[string]any{"role": "customer"}}, nil
	case "admin-token":
		return middleware.VerifiedToken{UID: "usr-admin", Claims: map[string]any{"role": "admin"}}, nil
	}
	return middleware.VerifiedToken{}, errors.New("invalid token")
}

// ============================================================
// harness
// ============================================================

type env struct {
	mux      *http.ServeMux
	products *memProductRepo
	orders   *memOrderRepo
	gateway  *stubGateway
}

func newEnv(t *testing.T) *env {
	t.Helper()

	products := &memProductRepo{products: map[string]productdom.Product{}}
	meta := &memMetadataRepo{records: map[string]productdom.MediaMetadata{}}
	orders := &memOrderRepo{orders: map[string]orderdom.Order{}}
	users := &memUserRepo{users: map[string]userdom.User{
		"usr-1": {ID: "usr-1", FirstName: "Asha", LastName: "Rao", Email: "asha@example.com",
			Role: userdom.RoleCustomer, CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}}
	gateway := &stubGateway{state: usecase.PaymentStateCaptured}

	productUC := usecase.NewProductUsecase(products, meta, memMediaStore{}, usecase.ProductUsecaseOptions{
		UploadTimeout: time.Second,
		AwaitUpload:   true,
	})
	orderUC := usecase.NewOrderUsecase(orders, products, gateway)
	reports := query.NewReportQuery(orders, products, users, time.Second)

	rt := &Router{
		Products: handlers.NewProductHandler(productUC),
		Orders:   handlers.NewOrderHandler(orderUC),
		Admin:    handlers.NewAdminHandler(reports),
		Auth:     &middleware.AuthMiddleware{Verifier: stubVerifier{}},
	}
	mux := http.NewServeMux()
	rt.Register(mux)

	return &env{mux: mux, products: products, orders: orders, gateway: gateway}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) handlers.Envelope {
	t.Helper()
	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func multipartUpload(t *testing.T, fileNames []string, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Lamp"))
	require.NoError(t, mw.WriteField("tags", "decor,home"))
	require.NoError(t, mw.WriteField("price", "1200"))
	require.NoError(t, mw.WriteField("description", "a lamp"))
	for _, name := range fileNames {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{`form-data; name="media"; filename="` + name + `"`}
		hdr["Content-Type"] = []string{contentType}
		pw, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = pw.Write([]byte("file-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *env) uploadProduct(t *testing.T) string {
	t.Helper()
	body, ct := multipartUpload(t, []string{"lamp.png"}, "image/png")
	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]any)
	product := data["product"].(map[string]any)
	return product["id"].(string)
}

// ============================================================
// tests
// ============================================================

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthPolicy(t *testing.T) {
	e := newEnv(t)

	t.Run("missing token", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/orders", "", map[string]any{"products": []string{"p1"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/revenue-generated", "nope", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("customer hitting admin route", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/revenue-generated", "user-token", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, http.StatusForbidden, env.StatusCode)
	})
}

func TestProductUploadRoutes(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		e := newEnv(t)
		id := e.uploadProduct(t)

		rec := e.do(t, http.MethodGet, "/products/"+id, "user-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "success", env.Status)
		p := env.Data.(map[string]any)
		assert.Equal(t, "READY", p["mediaStatus"])
		assert.NotEmpty(t, p["mediaUrl"])
	})

	t.Run("zero files", func(t *testing.T) {
		e := newEnv(t)
		body, ct := multipartUpload(t, nil, "")
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		e.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("two files", func(t *testing.T) {
		e := newEnv(t)
		body, ct := multipartUpload(t, []string{"a.png", "b.png"}, "image/png")
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		e.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("unsupported mime", func(t *testing.T) {
		e := newEnv(t)
		body, ct := multipartUpload(t, []string{"doc.pdf"}, "application/pdf")
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		e.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("userId mismatch", func(t *testing.T) {
		e := newEnv(t)
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("name", "Lamp"))
		require.NoError(t, mw.WriteField("tags", "decor"))
		require.NoError(t, mw.WriteField("price", "1200"))
		require.NoError(t, mw.WriteField("description", "a lamp"))
		require.NoError(t, mw.WriteField("userId", "usr-1"))
		hdr := map[string][]string{
			"Content-Disposition": {`form-data; name="media"; filename="lamp.png"`},
			"Content-Type":        {"image/png"},
		}
		pw, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = pw.Write([]byte("file-bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		// token resolves to usr-admin, so the usr-1 field must be rejected
		req := httptest.NewRequest(http.MethodPost, "/products", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		e.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upload needs admin", func(t *testing.T) {
		e := newEnv(t)
		body, ct := multipartUpload(t, []string{"lamp.png"}, "image/png")
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer user-token")
		rec := httptest.NewRecorder()
		e.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestOrderRoutes(t *testing.T) {
	e := newEnv(t)
	pid := e.uploadProduct(t)

	// create
	rec := e.do(t, http.MethodPost, "/orders", "user-token", map[string]any{"products": []string{pid}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	created := env.Data.(map[string]any)
	orderID := created["id"].(string)
	assert.Equal(t, "CREATED", created["status"])
	assert.Equal(t, float64(1200), created["amount"])

	// unknown product
	rec = e.do(t, http.MethodPost, "/orders", "user-token", map[string]any{"products": []string{"missing"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// status update
	rec = e.do(t, http.MethodPut, "/orders/"+orderID, "user-token", map[string]any{"status": "PAYMENT_PENDING"})
	require.Equal(t, http.StatusOK, rec.Code)

	// unknown label
	rec = e.do(t, http.MethodPut, "/orders/"+orderID, "user-token", map[string]any{"status": "PAYMENT COMPELTE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// checkout completes the order
	rec = e.do(t, http.MethodPut, "/orders/checkout/"+orderID, "user-token", map[string]any{"paymentId": "pay-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env = decodeEnvelope(t, rec)
	assert.Equal(t, "PAYMENT_COMPLETED", env.Data.(map[string]any)["status"])

	// terminal state rejects further movement
	rec = e.do(t, http.MethodPut, "/orders/"+orderID, "user-token", map[string]any{"status": "PAYMENT_FAILED"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// list by user
	rec = e.do(t, http.MethodGet, "/orders/all-orders/usr-1", "user-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Len(t, env.Data.([]any), 1)
}

func TestOrderRouteFallthrough(t *testing.T) {
	e := newEnv(t)

	// unknown path shape is not a route
	rec := e.do(t, http.MethodGet, "/orders/a/b", "user-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// known path, wrong method
	rec = e.do(t, http.MethodDelete, "/orders", "user-token", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = e.do(t, http.MethodPost, "/orders/checkout/some-id", "user-token", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCheckoutGatewayDown(t *testing.T) {
	e := newEnv(t)
	pid := e.uploadProduct(t)
	rec := e.do(t, http.MethodPost, "/orders", "user-token", map[string]any{"products": []string{pid}})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeEnvelope(t, rec).Data.(map[string]any)["id"].(string)

	e.gateway.err = errors.New("connection refused")
	rec = e.do(t, http.MethodPut, "/orders/checkout/"+orderID, "user-token", map[string]any{"paymentId": "pay-1"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// the order did not move
	o, err := e.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusCreated, o.Status)
}

func TestAdminRoutes(t *testing.T) {
	e := newEnv(t)
	pid := e.uploadProduct(t)

	rec := e.do(t, http.MethodPost, "/orders", "user-token", map[string]any{"products": []string{pid}})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeEnvelope(t, rec).Data.(map[string]any)["id"].(string)
	rec = e.do(t, http.MethodPut, "/orders/checkout/"+orderID, "user-token", map[string]any{"paymentId": "pay-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("revenue", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/revenue-generated", "admin-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		data := env.Data.(map[string]any)
		assert.Equal(t, float64(1200), data["totalRevenue"])
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/get-dashboard-data", "admin-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]any)
		assert.Equal(t, float64(1), data["completedOrders"])
		assert.Equal(t, float64(1), data["distinctCustomers"])
	})

	t.Run("top products", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/top-products?limit=1", "admin-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items := decodeEnvelope(t, rec).Data.([]any)
		require.Len(t, items, 1)
		assert.Equal(t, pid, items[0].(map[string]any)["productId"])
	})

	t.Run("worst products", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/worst-products", "admin-token", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("customer details", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/customer_details", "admin-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items := decodeEnvelope(t, rec).Data.([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "Asha Rao", items[0].(map[string]any)["name"])
	})

	t.Run("customer detail by id", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/customer_detail/usr-1", "admin-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = e.do(t, http.MethodGet, "/admin/customer_detail/ghost", "admin-token", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown admin path", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/admin/nope", "admin-token", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductUpdateDeleteRoutes(t *testing.T) {
	e := newEnv(t)
	id := e.uploadProduct(t)

	rec := e.do(t, http.MethodPut, "/products/"+id, "admin-token", map[string]any{"price": 999})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(999), decodeEnvelope(t, rec).Data.(map[string]any)["price"])

	// customer cannot modify
	rec = e.do(t, http.MethodPut, "/products/"+id, "user-token", map[string]any{"price": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodDelete, "/products/"+id, "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/products/"+id, "user-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductList(t *testing.T) {
	e := newEnv(t)
	e.uploadProduct(t)

	rec := e.do(t, http.MethodGet, "/products", "user-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeEnvelope(t, rec).Data.([]any)
	assert.Len(t, items, 1)
}

func TestEnvelopeShape(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/products/missing", "user-token", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.NotEmpty(t, env.Message)
	assert.Nil(t, env.Data)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}
