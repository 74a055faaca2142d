package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/pkg/models"
)

type LifecycleHandler struct {
	board *board.Board
}

func NewLifecycleHandler(b *board.Board) *LifecycleHandler {
	return &LifecycleHandler{board: b}
}

type helperRequest struct {
	HelperID string `json:"helperId"`
}

func (h *LifecycleHandler) ChooseHelper(w http.ResponseWriter, r *http.Request) {
	var req helperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HelperID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if rej := h.board.ChooseHelper(mux.Vars(r)["id"], viewerID(r), req.HelperID); rej != nil {
		writeRejection(w, rej)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LifecycleHandler) UnchooseHelper(w http.ResponseWriter, r *http.Request) {
	var req helperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HelperID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	h.board.UnchooseHelper(mux.Vars(r)["id"], viewerID(r), req.HelperID)
	w.WriteHeader(http.StatusNoContent)
}

type stageRequest struct {
	Stage string `json:"stage"`
}

func (h *LifecycleHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	h.board.AdvanceStage(mux.Vars(r)["id"], viewerID(r), models.HelpStage(req.Stage))
	w.WriteHeader(http.StatusNoContent)
}

func (h *LifecycleHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if rej := h.board.ConfirmHelp(mux.Vars(r)["id"], viewerID(r)); rej != nil {
		writeRejection(w, rej)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
