package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mtlprog/assetdash/internal/password"
)

type passwordRequest struct {
	Password string `json:"password"`
}

// GeneratePassword handles POST /api/v1/password, encoding the current records.
func (h *Handler) GeneratePassword(w http.ResponseWriter, _ *http.Request) {
	pw := password.Generate(h.holdings.Assets(), h.holdings.Expenses())
	writeJSON(w, http.StatusOK, map[string]string{"password": pw})
}

// SamplePassword handles GET /api/v1/password/sample.
func (h *Handler) SamplePassword(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"password": password.GenerateSample()})
}

// DecodePassword handles POST /api/v1/password/decode. The records are
// returned without being stored.
func (h *Handler) DecodePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	restored, err := password.DecodePassword(req.Password)
	if err != nil {
		writePasswordError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restored)
}

// ValidatePassword handles POST /api/v1/password/validate. Clean is false
// when some characters were skipped or misread while decoding.
func (h *Handler) ValidatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"valid": password.Validate(req.Password),
		"clean": password.Decode(req.Password).Clean(),
	})
}

// RestorePassword handles POST /api/v1/password/restore, replacing both
// record lists with the decoded ones.
func (h *Handler) RestorePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	restored, err := password.DecodePassword(req.Password)
	if err != nil {
		writePasswordError(w, err)
		return
	}
	if restored.Degraded() {
		slog.Warn("restoring from a degraded password",
			"skipped", len(restored.Skipped), "unreachable", len(restored.Unreachable))
	}

	h.holdings.Replace(r.Context(), restored.Assets)
	h.holdings.ReplaceExpenses(r.Context(), restored.Expenses)
	writeJSON(w, http.StatusOK, restored)
}

func writePasswordError(w http.ResponseWriter, err error) {
	if errors.Is(err, password.ErrInvalidPassword) {
		writeError(w, http.StatusBadRequest, "invalid password")
		return
	}
	slog.Error("failed to decode password", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
