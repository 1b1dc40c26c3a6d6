// internal/adapters/in/http/router.go
package http

import (
	"net/http"

	"karwaan/internal/adapters/in/http/handlers"
	"karwaan/internal/adapters/in/http/middleware"
)

// Router owns the route table and the per-route auth policy.
type Router struct {
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
	Admin    *handlers.AdminHandler
	Auth     *middleware.AuthMiddleware
}

// Register wires the route table onto mux. Auth policy:
//   - /healthz is public
//   - /orders* needs a verified token
//   - /admin* needs the admin role claim
//   - /products: creation/update/delete are admin, reads need a token
func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	productGate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rt.Auth.Handler(rt.Products).ServeHTTP(w, r)
			return
		}
		rt.Auth.AdminOnly(rt.Products).ServeHTTP(w, r)
	})
	mux.Handle("/products", productGate)
	mux.Handle("/products/", productGate)

	mux.Handle("/orders", rt.Auth.Handler(rt.Orders))
	mux.Handle("/orders/", rt.Auth.Handler(rt.Orders))

	mux.Handle("/admin/", rt.Auth.AdminOnly(rt.Admin))
}
