// internal/adapters/in/http/handlers/order_handler.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"karwaan/internal/adapters/in/http/middleware"
	"karwaan/internal/application/usecase"
	orderdom "karwaan/internal/domain/order"
)

// OrderHandler serves /orders, /orders/{id}, /orders/checkout/{id} and
// /orders/all-orders/{userId}.
type OrderHandler struct {
	Orders *usecase.OrderUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/orders")
	path = strings.Trim(path, "/")

	switch {
	case path == "" && r.Method == http.MethodPost:
		h.create(w, r)
	case strings.HasPrefix(path, "checkout/") && r.Method == http.MethodPut:
		h.checkout(w, r, strings.TrimPrefix(path, "checkout/"))
	case strings.HasPrefix(path, "all-orders/") && r.Method == http.MethodGet:
		h.listByUser(w, r, strings.TrimPrefix(path, "all-orders/"))
	case path != "" && !strings.Contains(path, "/") && r.Method == http.MethodPut:
		h.updateStatus(w, r, path)
	case path != "" && !strings.Contains(path, "/") && r.Method == http.MethodGet:
		h.get(w, r, path)
	default:
		// 405 only for paths the table knows; anything else is not a route
		if path == "" || !strings.Contains(path, "/") ||
			strings.HasPrefix(path, "checkout/") || strings.HasPrefix(path, "all-orders/") {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in struct {
		Products []string `json:"products"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	o, err := h.Orders.Create(r.Context(), uid, in.Products)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "order created", toOrderView(o))
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var in struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	o, err := h.Orders.UpdatePaymentStatus(r.Context(), id, in.Status)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "order updated", toOrderView(o))
}

func (h *OrderHandler) checkout(w http.ResponseWriter, r *http.Request, id string) {
	var in struct {
		PaymentID string `json:"paymentId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	o, err := h.Orders.Checkout(r.Context(), id, in.PaymentID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "checkout processed", toOrderView(o))
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	o, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "order fetched", toOrderView(o))
}

func (h *OrderHandler) listByUser(w http.ResponseWriter, r *http.Request, userID string) {
	orders, err := h.Orders.ListByUser(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	writeSuccess(w, http.StatusOK, "orders fetched", views)
}

// ============================================================
// views
// ============================================================

type orderView struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Products  []string   `json:"products"`
	Amount    int        `json:"amount"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func toOrderView(o orderdom.Order) orderView {
	return orderView{
		ID:        o.ID,
		UserID:    o.UserID,
		Products:  o.Products,
		Amount:    o.Amount,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
