package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/neighborly/internal/board"
)

type ChatHandler struct {
	board *board.Board
	hub   *chatHub
}

func NewChatHandler(b *board.Board) *ChatHandler {
	return &ChatHandler{board: b, hub: newChatHub()}
}

// List returns the viewer's currently-authorized chat threads.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	chats := h.board.ChatsFor(viewerID(r))
	if chats == nil {
		chats = []board.ChatSummary{}
	}
	writeJSON(w, chats, http.StatusOK)
}

// Messages returns a thread's history. 404 covers both unknown threads and
// pairings the gate refuses; the distinction is deliberately not leaked.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	msgs := h.board.Messages(vars["id"], viewerID(r), vars["otherID"])
	if msgs == nil {
		http.Error(w, "chat not available", http.StatusNotFound)
		return
	}
	writeJSON(w, msgs, http.StatusOK)
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	from := viewerID(r)
	msg, rej := h.board.SendMessage(vars["id"], from, vars["otherID"], req.Text)
	if rej != nil {
		writeRejection(w, rej)
		return
	}
	if msg == nil {
		http.Error(w, "chat not available", http.StatusNotFound)
		return
	}

	h.hub.broadcast(board.ChatKey(vars["id"], from, vars["otherID"]), *msg)
	writeJSON(w, msg, http.StatusCreated)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.board.MarkRead(vars["id"], viewerID(r), vars["otherID"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) Unread(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	n := h.board.UnreadCount(vars["id"], viewerID(r), vars["otherID"])
	writeJSON(w, map[string]int{"unread": n}, http.StatusOK)
}
