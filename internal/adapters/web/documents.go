package web

import (
	"io"
	"net/http"
	"strings"

	"forestry-finance/internal/app"
	"forestry-finance/internal/core"
)

// maxUploadBytes caps a whole extraction batch. PDFs are held in memory
// for the duration of the request.
const maxUploadBytes = 32 << 20

// extractInvoices handles POST /api/documents/extract. Accepts a
// multipart form with one or more "files" parts, each a PDF.
func (h *Handler) extractInvoices(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, "upload too large or malformed", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, r, "no files uploaded", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	docs := make([]app.UploadedDocument, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, r, "failed to read upload "+fh.Filename, "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, r, "failed to read upload "+fh.Filename, "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		docs = append(docs, app.UploadedDocument{Filename: fh.Filename, Data: data})
	}

	result := h.svc.ExtractInvoices(r.Context(), docs)
	writeJSON(w, result)
}

// reconcileInvoices handles POST /api/documents/reconcile.
func (h *Handler) reconcileInvoices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID int                     `json:"company_id"`
		Period    string                  `json:"period"`
		Invoices  []core.ExtractedInvoice `json:"invoices"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CompanyID <= 0 {
		if claims := authFromContext(r.Context()); claims != nil {
			req.CompanyID = claims.CompanyID
		}
	}
	period, err := core.ParsePeriod(strings.TrimSpace(req.Period))
	if err != nil {
		writeError(w, r, "period must be YYYY-MM", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if len(req.Invoices) == 0 {
		writeError(w, r, "no invoices to reconcile", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	results := h.svc.ReconcileInvoices(r.Context(), req.CompanyID, period, req.Invoices)
	writeJSON(w, results)
}

// archiveInvoices handles POST /api/documents/archive.
func (h *Handler) archiveInvoices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []core.ArchivedInvoice `json:"items"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, r, "no invoices to archive", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	report := h.svc.ArchiveInvoices(r.Context(), req.Items)
	writeJSON(w, report)
}

// searchArchive handles GET /api/documents/archive?q=substring.
func (h *Handler) searchArchive(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := h.svc.SearchArchive(r.Context(), query)
	if err != nil {
		writeError(w, r, "archive search failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, items)
}
