package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garnizeh/neighborly/internal/board"
)

// SessionHandler mints viewer tokens. There is no account system; a session
// just names which seeded neighbor the client acts as.
type SessionHandler struct {
	board         *board.Board
	jwtSecret     string
	tokenDuration time.Duration
}

func NewSessionHandler(b *board.Board, jwtSecret string, tokenDuration time.Duration) *SessionHandler {
	return &SessionHandler{board: b, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type sessionRequest struct {
	UserID string `json:"user_id"`
}

type sessionResponse struct {
	Token string `json:"token"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if _, ok := h.board.User(req.UserID); !ok {
		http.Error(w, "Unknown user", http.StatusNotFound)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": req.UserID,
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, sessionResponse{Token: tokenStr}, http.StatusOK)
}

// Users lists the neighbors a session can act as.
func (h *SessionHandler) Users(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.board.Users(), http.StatusOK)
}
