// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

// ========================================
// Status
// ========================================

// Status is the closed set of payment states an order can be in.
// StatusPaymentCompleted is the single canonical "paid" spelling used by
// every revenue/customer aggregation.
type Status string

const (
	StatusCreated          Status = "CREATED"
	StatusPaymentPending   Status = "PAYMENT_PENDING"
	StatusPaymentCompleted Status = "PAYMENT_COMPLETED"
	StatusPaymentFailed    Status = "PAYMENT_FAILED"
)

// allowedTransitions encodes monotonic progress toward a terminal state.
// Terminal states have no outgoing edges: a completed or failed order is
// never reopened (orders are financial records).
var allowedTransitions = map[Status][]Status{
	StatusCreated:          {StatusPaymentPending, StatusPaymentCompleted, StatusPaymentFailed},
	StatusPaymentPending:   {StatusPaymentCompleted, StatusPaymentFailed},
	StatusPaymentCompleted: {},
	StatusPaymentFailed:    {},
}

func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case StatusCreated, StatusPaymentPending, StatusPaymentCompleted, StatusPaymentFailed:
		return v, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

func (s Status) Terminal() bool {
	return s.Valid() && len(allowedTransitions[s]) == 0
}

// CanTransition reports whether from -> to is forward progress.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID     string
	UserID string

	// Products holds the ordered product ids (one entry per line item;
	// duplicates mean the same product was ordered more than once).
	Products []string

	// Amount is the sum of line-item prices snapshotted at creation time.
	// Later catalog price changes never affect it.
	Amount int

	Status    Status
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ========================================
// Errors
// ========================================

var (
	ErrNotFound          = errors.New("order: not found")
	ErrConflict          = errors.New("order: already exists")
	ErrInvalidID         = errors.New("order: invalid id")
	ErrInvalidUserID     = errors.New("order: invalid userId")
	ErrInvalidProducts   = errors.New("order: invalid products")
	ErrInvalidAmount     = errors.New("order: invalid amount")
	ErrInvalidStatus     = errors.New("order: invalid status")
	ErrInvalidCreatedAt  = errors.New("order: invalid createdAt")
	ErrInvalidTransition = errors.New("order: invalid status transition")
)

// ========================================
// Policy
// ========================================

var MinProductsRequired = 1

// ========================================
// Constructors
// ========================================

func New(
	id string,
	userID string,
	products []string,
	amount int,
	status Status,
	createdAt time.Time,
) (Order, error) {
	o := Order{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		Products:  normalizeProducts(products),
		Amount:    amount,
		Status:    status,
		CreatedAt: createdAt.UTC(),
	}
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ========================================
// Behavior
// ========================================

// SetStatus moves the order to next, enforcing the transition map.
// Setting the current status again is a no-op (idempotent retries).
func (o *Order) SetStatus(next Status, now time.Time) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if next == o.Status {
		return nil
	}
	if !CanTransition(o.Status, next) {
		return ErrInvalidTransition
	}
	o.Status = next
	t := now.UTC()
	o.UpdatedAt = &t
	return nil
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.UserID == "" {
		return ErrInvalidUserID
	}
	if len(o.Products) < MinProductsRequired {
		return ErrInvalidProducts
	}
	if o.Amount < 0 {
		return ErrInvalidAmount
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

// ========================================
// Helpers
// ========================================

func normalizeProducts(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if v := strings.TrimSpace(id); v != "" {
			out = append(out, v)
		}
	}
	return out
}
