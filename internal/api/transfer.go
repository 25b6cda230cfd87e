package api

import (
	"bytes"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/mtlprog/assetdash/internal/export"
	"github.com/mtlprog/assetdash/internal/transfer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportAssets handles GET /api/v1/export, the JSON backup download.
func (h *Handler) ExportAssets(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	var buf bytes.Buffer
	if err := transfer.Export(&buf, h.holdings.Assets(), h.appName, now); err != nil {
		slog.Error("failed to export assets", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment(transfer.FileName(now)))
	_, _ = w.Write(buf.Bytes())
}

// ExportWorkbook handles GET /api/v1/export/xlsx, the monthly tables as a workbook.
func (h *Handler) ExportWorkbook(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	tables := export.BuildMonthlyTables(h.holdings.Assets(), h.holdings.Taxonomy(), now)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, tables); err != nil {
		slog.Error("failed to build workbook", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment("資産データ_"+now.Format("2006-1-2")+".xlsx"))
	_, _ = w.Write(buf.Bytes())
}

// ImportAssets handles POST /api/v1/import. The asset list is replaced by the
// valid elements of the uploaded document.
func (h *Handler) ImportAssets(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("filename"); name != "" {
		if err := transfer.CheckFileName(name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	res, err := transfer.Import(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, transfer.ErrInvalidFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to import assets", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.holdings.Replace(r.Context(), res.Assets)
	if res.Discarded > 0 {
		slog.Warn("import dropped invalid elements", "discarded", res.Discarded)
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"imported":  len(res.Assets),
		"discarded": res.Discarded,
	})
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
