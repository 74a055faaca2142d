package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is the browser's concern; tokens gate the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatHub fans live messages out to the sockets subscribed to each thread.
type chatHub struct {
	mu   sync.Mutex
	subs map[string]map[*websocket.Conn]bool
}

func newChatHub() *chatHub {
	return &chatHub{subs: make(map[string]map[*websocket.Conn]bool)}
}

func (h *chatHub) subscribe(key string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*websocket.Conn]bool)
	}
	h.subs[key][conn] = true
	h.mu.Unlock()
}

func (h *chatHub) unsubscribe(key string, conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.subs[key], conn)
	if len(h.subs[key]) == 0 {
		delete(h.subs, key)
	}
	h.mu.Unlock()
}

func (h *chatHub) broadcast(key string, msg models.ChatMessage) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs[key]))
	for c := range h.subs[key] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(msg); err != nil {
			logger.Warn("chat broadcast", "err", err)
		}
	}
}

type wsInbound struct {
	Text string `json:"text"`
}

// Stream upgrades to a WebSocket carrying a single chat thread. The gate is
// checked on upgrade and again on every send, so a helper swap mid-session
// stops the conversation without killing history.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, otherID := vars["id"], vars["otherID"]
	viewer := viewerID(r)

	if !h.board.CanOpenChat(postID, viewer, otherID) {
		http.Error(w, "chat not available", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("ws upgrade", "err", err)
		return
	}
	defer conn.Close()

	key := board.ChatKey(postID, viewer, otherID)
	h.hub.subscribe(key, conn)
	defer h.hub.unsubscribe(key, conn)

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		msg, rej := h.board.SendMessage(postID, viewer, otherID, in.Text)
		if rej != nil || msg == nil {
			// Rejected or gate revoked; the socket stays open for reads.
			continue
		}
		h.hub.broadcast(key, *msg)
	}
}
