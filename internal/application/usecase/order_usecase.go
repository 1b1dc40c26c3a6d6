// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	orderdom "karwaan/internal/domain/order"
	productdom "karwaan/internal/domain/product"
)

// OrderRepo is the persistence port required by OrderUsecase.
type OrderRepo interface {
	GetByID(ctx context.Context, id string) (orderdom.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error)
	Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error)

	// Transition applies the status change atomically: the current status is
	// re-read and re-guarded inside the store's transaction, so two racing
	// writers cannot both move the same order.
	Transition(ctx context.Context, id string, next orderdom.Status, now time.Time) (orderdom.Order, error)
}

// ProductReader is the catalog slice OrderUsecase needs for price snapshots.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (productdom.Product, error)
}

// PaymentState is the gateway-reported state of a payment.
type PaymentState string

const (
	PaymentStateCreated    PaymentState = "created"
	PaymentStateAuthorized PaymentState = "authorized"
	PaymentStateCaptured   PaymentState = "captured"
	PaymentStateFailed     PaymentState = "failed"
)

// PaymentGateway reports what happened to a payment on the provider side.
type PaymentGateway interface {
	PaymentStatus(ctx context.Context, paymentID string) (PaymentState, error)
}

// ErrGatewayUnavailable means the provider could not be consulted; the order
// is left untouched so checkout can be retried.
var ErrGatewayUnavailable = errors.New("usecase: payment gateway unavailable")

var ErrInvalidPaymentID = errors.New("usecase: invalid payment id")

// OrderUsecase orchestrates order creation and the payment lifecycle.
type OrderUsecase struct {
	repo     OrderRepo
	products ProductReader
	gateway  PaymentGateway

	now   func() time.Time
	newID func() string
}

func NewOrderUsecase(repo OrderRepo, products ProductReader, gateway PaymentGateway) *OrderUsecase {
	return &OrderUsecase{
		repo:     repo,
		products: products,
		gateway:  gateway,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// =======================
// Commands
// =======================

// Create verifies every product exists and snapshots the current prices.
// The stored amount never changes afterwards, whatever happens to the catalog.
func (u *OrderUsecase) Create(ctx context.Context, userID string, productIDs []string) (orderdom.Order, error) {
	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if v := strings.TrimSpace(id); v != "" {
			ids = append(ids, v)
		}
	}
	if len(ids) == 0 {
		return orderdom.Order{}, orderdom.ErrInvalidProducts
	}

	amount := 0
	for _, id := range ids {
		p, err := u.products.GetByID(ctx, id)
		if err != nil {
			return orderdom.Order{}, err
		}
		amount += p.Price
	}

	o, err := orderdom.New(
		u.newID(),
		userID,
		ids,
		amount,
		orderdom.StatusCreated,
		u.now().UTC(),
	)
	if err != nil {
		return orderdom.Order{}, err
	}
	return u.repo.Create(ctx, o)
}

// UpdatePaymentStatus moves the order to the given status under the
// repository's transactional guard.
func (u *OrderUsecase) UpdatePaymentStatus(ctx context.Context, orderID string, status string) (orderdom.Order, error) {
	next, err := orderdom.ParseStatus(status)
	if err != nil {
		return orderdom.Order{}, err
	}
	return u.repo.Transition(ctx, strings.TrimSpace(orderID), next, u.now().UTC())
}

// Checkout asks the gateway what happened to the payment and moves the order
// accordingly: captured completes it, failed fails it, anything still in
// flight parks it at PAYMENT_PENDING.
func (u *OrderUsecase) Checkout(ctx context.Context, orderID, paymentID string) (orderdom.Order, error) {
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return orderdom.Order{}, ErrInvalidPaymentID
	}

	// Ensure the order exists before touching the gateway.
	if _, err := u.repo.GetByID(ctx, orderID); err != nil {
		return orderdom.Order{}, err
	}

	state, err := u.gateway.PaymentStatus(ctx, paymentID)
	if err != nil {
		log.Printf("[checkout] gateway lookup failed orderId=%s paymentId=%s err=%v", orderID, paymentID, err)
		return orderdom.Order{}, ErrGatewayUnavailable
	}

	var next orderdom.Status
	switch state {
	case PaymentStateCaptured:
		next = orderdom.StatusPaymentCompleted
	case PaymentStateFailed:
		next = orderdom.StatusPaymentFailed
	case PaymentStateCreated, PaymentStateAuthorized:
		next = orderdom.StatusPaymentPending
	default:
		log.Printf("[checkout] unknown gateway state orderId=%s state=%q", orderID, state)
		return orderdom.Order{}, ErrGatewayUnavailable
	}

	return u.repo.Transition(ctx, orderID, next, u.now().UTC())
}

// =======================
// Queries
// =======================

func (u *OrderUsecase) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	return u.repo.GetByID(ctx, strings.TrimSpace(id))
}

// ListByUser returns the user's orders across all statuses.
func (u *OrderUsecase) ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, orderdom.ErrInvalidUserID
	}
	return u.repo.ListByUser(ctx, userID)
}
