package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/garnizeh/neighborly/internal/board"
)

type SystemHandler struct{}

func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"ok","service":"neighborly"}`)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","buildTime":"%s"}`, version, buildTime)
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}

// writeRejection reports a validation or rate-limit failure. The action was
// discarded without mutating state.
func writeRejection(w http.ResponseWriter, rej *board.Rejection) {
	writeJSON(w, map[string]any{"ok": false, "error": rej.Kind, "message": rej.Message}, http.StatusUnprocessableEntity)
}
