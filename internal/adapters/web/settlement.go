package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"forestry-finance/internal/app"
)

// settlementRequest assembles a SettlementRequest from query params:
// company_id (optional, defaults to the session company), period
// (required, YYYY-MM), fee_percent and tax_rate (optional decimals).
func (h *Handler) settlementRequest(w http.ResponseWriter, r *http.Request) (app.SettlementRequest, bool) {
	var req app.SettlementRequest

	companyID, ok := h.companyIDParam(r)
	if !ok {
		writeError(w, r, "invalid or missing company_id", "BAD_REQUEST", http.StatusBadRequest)
		return req, false
	}
	period, ok := periodParam(r)
	if !ok {
		writeError(w, r, "period must be YYYY-MM", "BAD_REQUEST", http.StatusBadRequest)
		return req, false
	}
	req.CompanyID = companyID
	req.Period = period

	if raw := strings.TrimSpace(r.URL.Query().Get("fee_percent")); raw != "" {
		pct, err := decimal.NewFromString(raw)
		if err != nil || pct.IsNegative() {
			writeError(w, r, "fee_percent must be a non-negative number", "BAD_REQUEST", http.StatusBadRequest)
			return req, false
		}
		req.MgmtFeePercent = pct
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("tax_rate")); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil || rate.IsNegative() {
			writeError(w, r, "tax_rate must be a non-negative number", "BAD_REQUEST", http.StatusBadRequest)
			return req, false
		}
		req.TaxRate = rate
	}
	return req, true
}

func (h *Handler) getSettlement(w http.ResponseWriter, r *http.Request) {
	req, ok := h.settlementRequest(w, r)
	if !ok {
		return
	}
	bundle, err := h.svc.GetSettlement(r.Context(), req)
	if err != nil {
		writeError(w, r, "settlement calculation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, bundle)
}

func (h *Handler) getFinanceExport(w http.ResponseWriter, r *http.Request) {
	sreq, ok := h.settlementRequest(w, r)
	if !ok {
		return
	}
	req := app.FinanceExportRequest{
		SettlementRequest: sreq,
		Reference:         strings.TrimSpace(r.URL.Query().Get("reference")),
	}
	result, err := h.svc.GetFinanceExport(r.Context(), req)
	if err != nil {
		writeError(w, r, "finance export failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) downloadFinanceExportCSV(w http.ResponseWriter, r *http.Request) {
	sreq, ok := h.settlementRequest(w, r)
	if !ok {
		return
	}
	req := app.FinanceExportRequest{
		SettlementRequest: sreq,
		Reference:         strings.TrimSpace(r.URL.Query().Get("reference")),
	}

	filename := fmt.Sprintf("finance_export_%s.csv", sreq.Period.Start().Format("2006-01"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := h.svc.WriteFinanceExportCSV(r.Context(), req, w); err != nil {
		// Headers are already sent; log via middleware, nothing more to do.
		return
	}
}

func (h *Handler) renderInvoice(w http.ResponseWriter, r *http.Request) {
	sreq, ok := h.settlementRequest(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	req := app.InvoiceRequest{
		SettlementRequest: sreq,
		InvoiceNo:         strings.TrimSpace(q.Get("invoice_no")),
		InvoiceDate:       strings.TrimSpace(q.Get("invoice_date")),
		BillTo:            strings.TrimSpace(q.Get("bill_to")),
		IssuedBy:          strings.TrimSpace(q.Get("issued_by")),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.svc.RenderInvoice(r.Context(), req, w); err != nil {
		return
	}
}

func (h *Handler) getVariance(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyIDParam(r)
	if !ok {
		writeError(w, r, "invalid or missing company_id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	period, ok := periodParam(r)
	if !ok {
		writeError(w, r, "period must be YYYY-MM", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	report, err := h.svc.GetVariance(r.Context(), companyID, period)
	if err != nil {
		writeError(w, r, "variance query failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) getYearSummary(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyIDParam(r)
	if !ok {
		writeError(w, r, "invalid or missing company_id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, r, "year must be a four-digit year", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	summary, err := h.svc.GetYearSummary(r.Context(), companyID, year)
	if err != nil {
		writeError(w, r, "summary query failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary)
}
