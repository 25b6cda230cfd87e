package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/mtlprog/assetdash/internal/forecast"
	"github.com/mtlprog/assetdash/internal/holdings"
)

// NewServer creates an HTTP server with all routes configured. When apiKey is
// set, every mutating route requires it as a bearer token.
func NewServer(port string, h *holdings.Service, f forecast.Forecaster, appName, apiKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewMux(NewHandler(h, f, appName), apiKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux registers the handler's routes.
func NewMux(handler *Handler, apiKey string) *http.ServeMux {
	protect := func(fn http.HandlerFunc) http.Handler {
		if apiKey == "" {
			return fn
		}
		return requireAuth(apiKey, fn)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/taxonomy", handler.GetTaxonomy)
	mux.HandleFunc("GET /api/v1/taxonomy/{category}", handler.GetCategory)

	mux.HandleFunc("GET /api/v1/assets", handler.ListAssets)
	mux.HandleFunc("GET /api/v1/assets/{id}", handler.GetAsset)
	mux.Handle("POST /api/v1/assets", protect(handler.CreateAsset))
	mux.Handle("PUT /api/v1/assets/{id}", protect(handler.UpdateAsset))
	mux.Handle("DELETE /api/v1/assets/{id}", protect(handler.DeleteAsset))

	mux.HandleFunc("GET /api/v1/expenses", handler.ListExpenses)
	mux.Handle("POST /api/v1/expenses", protect(handler.CreateExpense))
	mux.Handle("DELETE /api/v1/expenses/{id}", protect(handler.DeleteExpense))

	mux.HandleFunc("GET /api/v1/series", handler.GetSeries)
	mux.HandleFunc("GET /api/v1/growth", handler.GetGrowth)
	mux.HandleFunc("GET /api/v1/allocation", handler.GetAllocation)
	mux.HandleFunc("GET /api/v1/allocation/detailed", handler.GetDetailedAllocation)
	mux.HandleFunc("GET /api/v1/allocation/snapshot", handler.GetSnapshotAllocation)
	mux.HandleFunc("GET /api/v1/months", handler.GetMonths)
	mux.HandleFunc("GET /api/v1/table", handler.GetTable)
	mux.HandleFunc("GET /api/v1/report", handler.GetReport)

	mux.HandleFunc("POST /api/v1/password", handler.GeneratePassword)
	mux.HandleFunc("GET /api/v1/password/sample", handler.SamplePassword)
	mux.HandleFunc("POST /api/v1/password/decode", handler.DecodePassword)
	mux.HandleFunc("POST /api/v1/password/validate", handler.ValidatePassword)
	mux.Handle("POST /api/v1/password/restore", protect(handler.RestorePassword))

	mux.HandleFunc("GET /api/v1/export", handler.ExportAssets)
	mux.HandleFunc("GET /api/v1/export/xlsx", handler.ExportWorkbook)
	mux.Handle("POST /api/v1/import", protect(handler.ImportAssets))

	mux.HandleFunc("POST /api/v1/forecast", handler.Forecast)

	return mux
}

// requireAuth rejects requests whose bearer token does not match apiKey.
func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="assetdash"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
