package api

import (
	"net/http"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/export"
	"github.com/mtlprog/assetdash/internal/portfolio"
	"github.com/mtlprog/assetdash/internal/report"
)

// GetSeries handles GET /api/v1/series?period=6m|1y|2y|5y|10y|20y.
// Without a period the whole series is returned.
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	series := h.aggregator().MonthlySeries(h.holdings.Assets())
	if p := r.URL.Query().Get("period"); p != "" {
		series = portfolio.FilterPeriod(series, portfolio.Period(p), h.now())
	}
	if series == nil {
		series = []domain.MonthBucket{}
	}
	writeJSON(w, http.StatusOK, series)
}

// GetGrowth handles GET /api/v1/growth.
func (h *Handler) GetGrowth(w http.ResponseWriter, _ *http.Request) {
	series := h.aggregator().MonthlySeries(h.holdings.Assets())
	writeJSON(w, http.StatusOK, portfolio.Growth(series))
}

func monthSelector(r *http.Request) string {
	if m := r.URL.Query().Get("month"); m != "" {
		return m
	}
	return portfolio.Latest
}

// GetAllocation handles GET /api/v1/allocation?month=YYYY-MM|latest.
func (h *Handler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.aggregator().Allocation(h.holdings.Assets(), monthSelector(r)))
}

// GetDetailedAllocation handles GET /api/v1/allocation/detailed?month=YYYY-MM|latest.
func (h *Handler) GetDetailedAllocation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.aggregator().DetailedAllocation(h.holdings.Assets(), monthSelector(r)))
}

// GetSnapshotAllocation handles GET /api/v1/allocation/snapshot, the breakdown
// of the records dated exactly on the latest record date.
func (h *Handler) GetSnapshotAllocation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.aggregator().LatestSnapshotAllocation(h.holdings.Assets()))
}

// GetMonths handles GET /api/v1/months.
func (h *Handler) GetMonths(w http.ResponseWriter, _ *http.Request) {
	assets := h.holdings.Assets()
	months := portfolio.AvailableMonths(assets)
	if months == nil {
		months = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"months":      months,
		"fiscalYears": portfolio.GroupByFiscalYear(portfolio.MonthRange(assets, h.now())),
	})
}

type tableResponse struct {
	FiscalYear int      `json:"fiscalYear"`
	Title      string   `json:"title"`
	Months     []string `json:"months"`
	Rows       [][]any  `json:"rows"`
}

// GetTable handles GET /api/v1/table, the fiscal-year monthly tables.
func (h *Handler) GetTable(w http.ResponseWriter, _ *http.Request) {
	tables := export.BuildMonthlyTables(h.holdings.Assets(), h.holdings.Taxonomy(), h.now())
	out := make([]tableResponse, 0, len(tables))
	for _, t := range tables {
		out = append(out, tableResponse{FiscalYear: t.FiscalYear, Title: t.Title(), Months: t.Months, Rows: t.Rows})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetReport handles GET /api/v1/report?period=, the Markdown summary.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	md := report.Markdown(report.Data{
		Assets:   h.holdings.Assets(),
		Expenses: h.holdings.Expenses(),
		Taxonomy: h.holdings.Taxonomy(),
		Now:      h.now(),
		Period:   portfolio.Period(r.URL.Query().Get("period")),
	})
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(md))
}
