package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/forecast"
	"github.com/mtlprog/assetdash/internal/holdings"
	"github.com/mtlprog/assetdash/internal/portfolio"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

const maxBodyBytes = 10 << 20

// Handler provides HTTP endpoints over the session's records.
type Handler struct {
	holdings   *holdings.Service
	forecaster forecast.Forecaster
	appName    string
	now        func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(h *holdings.Service, f forecast.Forecaster, appName string) *Handler {
	return &Handler{holdings: h, forecaster: f, appName: appName, now: time.Now}
}

func (h *Handler) aggregator() portfolio.Aggregator {
	return portfolio.New(h.holdings.Taxonomy())
}

// GetTaxonomy handles GET /api/v1/taxonomy?version=current|legacy.
func (h *Handler) GetTaxonomy(w http.ResponseWriter, r *http.Request) {
	v := h.holdings.Taxonomy()
	if q := r.URL.Query().Get("version"); q != "" {
		v = domain.ParseTaxonomyVersion(q)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    v,
		"categories": taxonomy.Groups(v),
	})
}

// GetCategory handles GET /api/v1/taxonomy/{category}, returning the
// category's label and subcategories.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	v := h.holdings.Taxonomy()
	if q := r.URL.Query().Get("version"); q != "" {
		v = domain.ParseTaxonomyVersion(q)
	}
	g, ok := taxonomy.Lookup(v, domain.Category(r.PathValue("category")))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// ListAssets handles GET /api/v1/assets.
func (h *Handler) ListAssets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.holdings.Assets())
}

// GetAsset handles GET /api/v1/assets/{id}.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	a, err := h.holdings.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAsset handles POST /api/v1/assets.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var a domain.Asset
	if !decodeBody(w, r, &a) {
		return
	}
	created, err := h.holdings.Add(r.Context(), a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateAsset handles PUT /api/v1/assets/{id}.
func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var a domain.Asset
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = r.PathValue("id")
	updated, err := h.holdings.Upsert(r.Context(), a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteAsset handles DELETE /api/v1/assets/{id}.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.holdings.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListExpenses handles GET /api/v1/expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.holdings.Expenses())
}

// CreateExpense handles POST /api/v1/expenses.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var e domain.Expense
	if !decodeBody(w, r, &e) {
		return
	}
	created, err := h.holdings.AddExpense(r.Context(), e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteExpense handles DELETE /api/v1/expenses/{id}.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.holdings.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, holdings.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, holdings.ErrInvalidAsset), errors.Is(err, holdings.ErrInvalidExpense):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
