// internal/adapters/in/http/handlers/admin_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"karwaan/internal/application/query"
)

// AdminHandler serves the /admin reporting routes.
type AdminHandler struct {
	Reports *query.ReportQuery
}

func NewAdminHandler(reports *query.ReportQuery) *AdminHandler {
	return &AdminHandler{Reports: reports}
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/admin")
	path = strings.Trim(path, "/")

	switch {
	case path == "revenue-generated":
		h.revenue(w, r)
	case path == "get-dashboard-data":
		h.dashboard(w, r)
	case path == "top-products":
		h.topProducts(w, r)
	case path == "worst-products":
		h.worstProducts(w, r)
	case path == "customer_details":
		h.customers(w, r)
	case strings.HasPrefix(path, "customer_detail/"):
		h.customerOrders(w, r, strings.TrimPrefix(path, "customer_detail/"))
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *AdminHandler) revenue(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.RevenueGenerated(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "revenue generated", rep)
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "dashboard data", rep)
}

func (h *AdminHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.TopProducts(r.Context(), limitParam(r))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "top products", rep)
}

func (h *AdminHandler) worstProducts(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.WorstProducts(r.Context(), limitParam(r))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "worst products", rep)
}

func (h *AdminHandler) customers(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.Customers(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "customer details", rep)
}

func (h *AdminHandler) customerOrders(w http.ResponseWriter, r *http.Request, userID string) {
	rep, err := h.Reports.CustomerOrders(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "customer detail", rep)
}

func limitParam(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
