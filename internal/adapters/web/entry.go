package web

import (
	"net/http"
	"strings"

	"forestry-finance/internal/app"
	"forestry-finance/internal/core"
)

// saveCostEntries handles POST /api/entries/costs.
func (h *Handler) saveCostEntries(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyID  int              `json:"company_id"`
		Period     string           `json:"period"`
		RecordType string           `json:"record_type"`
		Entries    []core.CostEntry `json:"entries"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.CompanyID <= 0 {
		if claims := authFromContext(r.Context()); claims != nil {
			body.CompanyID = claims.CompanyID
		}
	}
	period, err := core.ParsePeriod(strings.TrimSpace(body.Period))
	if err != nil {
		writeError(w, r, "period must be YYYY-MM", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	recordType := core.RecordType(body.RecordType)
	if recordType != core.RecordBudget && recordType != core.RecordActual {
		writeError(w, r, "record_type must be Budget or Actual", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if len(body.Entries) == 0 {
		writeError(w, r, "no entries to save", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	report := h.svc.SaveCostEntries(r.Context(), app.SaveCostsRequest{
		CompanyID:  body.CompanyID,
		Period:     period,
		RecordType: recordType,
		Entries:    body.Entries,
	})
	writeJSON(w, report)
}

// saveSalesEntries handles POST /api/entries/sales.
func (h *Handler) saveSalesEntries(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyID int               `json:"company_id"`
		Entries   []core.SalesEntry `json:"entries"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.CompanyID <= 0 {
		if claims := authFromContext(r.Context()); claims != nil {
			body.CompanyID = claims.CompanyID
		}
	}
	if len(body.Entries) == 0 {
		writeError(w, r, "no entries to save", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	report := h.svc.SaveSalesTransactions(r.Context(), app.SaveSalesRequest{
		CompanyID: body.CompanyID,
		Entries:   body.Entries,
	})
	writeJSON(w, report)
}

// upsertMappings handles POST /api/mappings.
func (h *Handler) upsertMappings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyID int                 `json:"company_id"`
		Rows      []core.GLMappingRow `json:"rows"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.CompanyID <= 0 {
		if claims := authFromContext(r.Context()); claims != nil {
			body.CompanyID = claims.CompanyID
		}
	}
	if len(body.Rows) == 0 {
		writeError(w, r, "no mapping rows to save", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	report, err := h.svc.UpsertGLMappings(r.Context(), body.CompanyID, body.Rows)
	if err != nil {
		writeError(w, r, "mapping save failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}
