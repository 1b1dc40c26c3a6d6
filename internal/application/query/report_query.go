// internal/application/query/report_query.go
package query

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	orderdom "karwaan/internal/domain/order"
	productdom "karwaan/internal/domain/product"
	userdom "karwaan/internal/domain/user"
)

// OrderReader is the order slice the reports read from.
type OrderReader interface {
	ListByStatus(ctx context.Context, status orderdom.Status) ([]orderdom.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error)
}

// ProductReader joins product attributes onto aggregates.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (productdom.Product, error)
	Count(ctx context.Context) (int, error)
}

// UserReader joins customer attributes onto aggregates.
type UserReader interface {
	GetByID(ctx context.Context, id string) (userdom.User, error)
	Count(ctx context.Context) (int, error)
}

// DefaultProductRankLimit matches the dashboard's three-card layout.
const DefaultProductRankLimit = 3

// ReportQuery serves the admin dashboard. Read-only: it never writes, and an
// empty store yields zero-valued reports rather than errors. Every call is
// bounded by the configured timeout.
type ReportQuery struct {
	orders   OrderReader
	products ProductReader
	users    UserReader
	timeout  time.Duration
}

func NewReportQuery(orders OrderReader, products ProductReader, users UserReader, timeout time.Duration) *ReportQuery {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReportQuery{
		orders:   orders,
		products: products,
		users:    users,
		timeout:  timeout,
	}
}

func (q *ReportQuery) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, q.timeout)
}

// mapErr normalizes store errors caused by the query deadline so the edge
// can answer with a timeout instead of a generic failure.
func mapErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return context.DeadlineExceeded
	}
	return err
}

// =======================
// Reports
// =======================

type RevenueReport struct {
	TotalRevenue    int `json:"totalRevenue"`
	CompletedOrders int `json:"completedOrders"`
}

// RevenueGenerated sums the amount of completed orders only. Pending and
// failed orders never count toward revenue.
func (q *ReportQuery) RevenueGenerated(ctx context.Context) (RevenueReport, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	completed, err := q.orders.ListByStatus(ctx, orderdom.StatusPaymentCompleted)
	if err != nil {
		return RevenueReport{}, mapErr(ctx, err)
	}
	r := RevenueReport{CompletedOrders: len(completed)}
	for _, o := range completed {
		r.TotalRevenue += o.Amount
	}
	return r, nil
}

type DashboardSummary struct {
	Products          int `json:"products"`
	Users             int `json:"users"`
	CompletedOrders   int `json:"completedOrders"`
	DistinctCustomers int `json:"distinctCustomers"`
	TotalRevenue      int `json:"totalRevenue"`
}

func (q *ReportQuery) Dashboard(ctx context.Context) (DashboardSummary, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	products, err := q.products.Count(ctx)
	if err != nil {
		return DashboardSummary{}, mapErr(ctx, err)
	}
	users, err := q.users.Count(ctx)
	if err != nil {
		return DashboardSummary{}, mapErr(ctx, err)
	}
	completed, err := q.orders.ListByStatus(ctx, orderdom.StatusPaymentCompleted)
	if err != nil {
		return DashboardSummary{}, mapErr(ctx, err)
	}

	s := DashboardSummary{
		Products:        products,
		Users:           users,
		CompletedOrders: len(completed),
	}
	customers := map[string]struct{}{}
	for _, o := range completed {
		s.TotalRevenue += o.Amount
		customers[o.UserID] = struct{}{}
	}
	s.DistinctCustomers = len(customers)
	return s, nil
}

type ProductRank struct {
	ProductID  string                 `json:"productId"`
	Name       string                 `json:"name"`
	Price      int                    `json:"price"`
	MediaURL   *string                `json:"mediaUrl"`
	OrderCount int                    `json:"orderCount"`
	Tags       []string               `json:"tags"`
	Status     productdom.MediaStatus `json:"mediaStatus"`
}

// TopProducts ranks products by completed-order line-item count, descending.
// Ties break on product id ascending so the ranking is stable across runs.
func (q *ReportQuery) TopProducts(ctx context.Context, limit int) ([]ProductRank, error) {
	return q.rankProducts(ctx, limit, true)
}

// WorstProducts is the same grouping sorted ascending, so the least-ordered
// products come first.
func (q *ReportQuery) WorstProducts(ctx context.Context, limit int) ([]ProductRank, error) {
	return q.rankProducts(ctx, limit, false)
}

func (q *ReportQuery) rankProducts(ctx context.Context, limit int, desc bool) ([]ProductRank, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	if limit <= 0 {
		limit = DefaultProductRankLimit
	}

	completed, err := q.orders.ListByStatus(ctx, orderdom.StatusPaymentCompleted)
	if err != nil {
		return nil, mapErr(ctx, err)
	}

	counts := map[string]int{}
	for _, o := range completed {
		for _, pid := range o.Products {
			counts[pid]++
		}
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := counts[ids[i]], counts[ids[j]]
		if ci != cj {
			if desc {
				return ci > cj
			}
			return ci < cj
		}
		return ids[i] < ids[j]
	})

	out := make([]ProductRank, 0, limit)
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		p, err := q.products.GetByID(ctx, id)
		if err != nil {
			// a deleted product still appears in old orders; skip it
			log.Printf("[report] rank join skipped productId=%s err=%v", id, err)
			continue
		}
		out = append(out, ProductRank{
			ProductID:  p.ID,
			Name:       p.Name,
			Price:      p.Price,
			MediaURL:   p.Media.URL,
			OrderCount: counts[id],
			Tags:       p.Tags,
			Status:     p.Media.Status,
		})
	}
	return out, nil
}

type CustomerSummary struct {
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Image           string    `json:"image"`
	PhoneNumber     string    `json:"phoneNumber"`
	JoinedAt        time.Time `json:"joinedAt"`
	CompletedOrders int       `json:"completedOrders"`
	TotalSpent      int       `json:"totalSpent"`
}

// Customers lists distinct users with at least one completed order.
func (q *ReportQuery) Customers(ctx context.Context) ([]CustomerSummary, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	completed, err := q.orders.ListByStatus(ctx, orderdom.StatusPaymentCompleted)
	if err != nil {
		return nil, mapErr(ctx, err)
	}

	type agg struct {
		orders int
		spent  int
	}
	byUser := map[string]*agg{}
	for _, o := range completed {
		a := byUser[o.UserID]
		if a == nil {
			a = &agg{}
			byUser[o.UserID] = a
		}
		a.orders++
		a.spent += o.Amount
	}

	ids := make([]string, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]CustomerSummary, 0, len(ids))
	for _, id := range ids {
		u, err := q.users.GetByID(ctx, id)
		if err != nil {
			log.Printf("[report] customer join skipped userId=%s err=%v", id, err)
			continue
		}
		out = append(out, CustomerSummary{
			UserID:          u.ID,
			Name:            u.FullName(),
			Email:           u.Email,
			Image:           u.Image,
			PhoneNumber:     u.PhoneNumber,
			JoinedAt:        u.CreatedAt,
			CompletedOrders: byUser[id].orders,
			TotalSpent:      byUser[id].spent,
		})
	}
	return out, nil
}

type CustomerDetail struct {
	Customer CustomerSummary  `json:"customer"`
	Orders   []orderdom.Order `json:"orders"`
}

// CustomerOrders returns one customer with all their orders (every status).
// The user must exist; an unknown id surfaces user.ErrNotFound.
func (q *ReportQuery) CustomerOrders(ctx context.Context, userID string) (CustomerDetail, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	userID = strings.TrimSpace(userID)
	u, err := q.users.GetByID(ctx, userID)
	if err != nil {
		return CustomerDetail{}, mapErr(ctx, err)
	}
	orders, err := q.orders.ListByUser(ctx, userID)
	if err != nil {
		return CustomerDetail{}, mapErr(ctx, err)
	}

	d := CustomerDetail{
		Customer: CustomerSummary{
			UserID:      u.ID,
			Name:        u.FullName(),
			Email:       u.Email,
			Image:       u.Image,
			PhoneNumber: u.PhoneNumber,
			JoinedAt:    u.CreatedAt,
		},
		Orders: orders,
	}
	for _, o := range orders {
		if o.Status == orderdom.StatusPaymentCompleted {
			d.Customer.CompletedOrders++
			d.Customer.TotalSpent += o.Amount
		}
	}
	return d, nil
}
