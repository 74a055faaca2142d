package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/pkg/models"
)

type RepliesHandler struct {
	board *board.Board
}

func NewRepliesHandler(b *board.Board) *RepliesHandler {
	return &RepliesHandler{board: b}
}

type submitReplyRequest struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

func (h *RepliesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	reply, rej := h.board.SubmitReply(mux.Vars(r)["id"], viewerID(r), models.ReplyType(req.Mode), req.Text)
	if rej != nil {
		writeRejection(w, rej)
		return
	}

	writeJSON(w, reply, http.StatusCreated)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *RepliesHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	c, rej := h.board.AddComment(vars["id"], vars["replyID"], viewerID(r), req.Text)
	if rej != nil {
		writeRejection(w, rej)
		return
	}
	if c == nil {
		// Authorization denial or vanished target: no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, c, http.StatusCreated)
}

func (h *RepliesHandler) Heart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.board.ToggleHeart(vars["id"], vars["replyID"], viewerID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *RepliesHandler) Helpful(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.board.MarkHelpful(vars["id"], vars["replyID"], viewerID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *RepliesHandler) TopPick(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.board.SetTopPick(vars["id"], vars["replyID"], viewerID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *RepliesHandler) Hide(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.board.HideReply(vars["id"], vars["replyID"], viewerID(r))
	w.WriteHeader(http.StatusNoContent)
}
