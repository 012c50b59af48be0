package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"forestry-finance/internal/app"
	"forestry-finance/internal/core"
)

// Handler holds the application service and wires the HTTP routes.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler builds the chi router with middleware and all API routes
// mounted. allowedOrigins is a comma-separated list for CORS; empty
// means same-origin only.
func NewHandler(svc app.ApplicationService, jwtSecret, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		r.Get("/api/companies", h.listCompanies)
		r.Get("/api/activities", h.listActivities)
		r.Get("/api/products", h.listProducts)

		r.Get("/api/settlement", h.getSettlement)
		r.Get("/api/settlement/export", h.getFinanceExport)
		r.Get("/api/settlement/export.csv", h.downloadFinanceExportCSV)
		r.Get("/api/settlement/invoice", h.renderInvoice)

		r.Get("/api/variance", h.getVariance)
		r.Get("/api/summary", h.getYearSummary)

		r.Post("/api/documents/extract", h.extractInvoices)
		r.Post("/api/documents/reconcile", h.reconcileInvoices)
		r.Post("/api/documents/archive", h.archiveInvoices)
		r.Get("/api/documents/archive", h.searchArchive)

		r.Post("/api/entries/costs", h.saveCostEntries)
		r.Post("/api/entries/sales", h.saveSalesEntries)
		r.Post("/api/mappings", h.upsertMappings)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// companyIDParam resolves the company for a request. An explicit
// company_id query param wins; otherwise the authenticated user's
// company is used.
func (h *Handler) companyIDParam(r *http.Request) (int, bool) {
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}
	if claims := authFromContext(r.Context()); claims != nil && claims.CompanyID > 0 {
		return claims.CompanyID, true
	}
	return 0, false
}

// periodParam parses the required period query param (YYYY-MM).
func periodParam(r *http.Request) (core.Period, bool) {
	p, err := core.ParsePeriod(strings.TrimSpace(r.URL.Query().Get("period")))
	if err != nil {
		return core.Period{}, false
	}
	return p, true
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.svc.ListCompanies(r.Context())
	if err != nil {
		writeError(w, r, "failed to load companies", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, companies)
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListCostActivities(r.Context())
	if err != nil {
		writeError(w, r, "failed to load cost activities", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, activities)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, "failed to load products", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, products)
}
