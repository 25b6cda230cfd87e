package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mtlprog/assetdash/internal/forecast"
	"github.com/mtlprog/assetdash/internal/portfolio"
)

// Forecast handles POST /api/v1/forecast. When currentValue is omitted the
// latest month total is used as the starting value.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		forecast.Params
		CurrentValue *float64 `json:"currentValue"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	p := req.Params
	if req.CurrentValue != nil {
		p.CurrentValue = *req.CurrentValue
	} else {
		growth := portfolio.Growth(h.aggregator().MonthlySeries(h.holdings.Assets()))
		p.CurrentValue = float64(growth.Current)
	}

	res, err := h.forecaster.Forecast(r.Context(), p)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidParams) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to calculate forecast", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to calculate forecast")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
