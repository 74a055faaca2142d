package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/internal/store"
	"github.com/garnizeh/neighborly/pkg/models"
)

// UsersHandler covers the per-user state around the board: follows, blocks,
// points, home center and radius, check-ins, availability, and reports.
type UsersHandler struct {
	board *board.Board
	store *store.Store
}

func NewUsersHandler(b *board.Board, s *store.Store) *UsersHandler {
	return &UsersHandler{board: b, store: s}
}

type targetRequest struct {
	UserID string `json:"userId"`
}

func (h *UsersHandler) Follow(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.board.Follow(viewerID(r), req.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.board.Unfollow(viewerID(r), req.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) Block(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	viewer := viewerID(r)
	h.board.Block(viewer, req.UserID)
	h.store.SaveBlocks(r.Context(), viewer, h.board.Blocked(viewer))
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	viewer := viewerID(r)
	h.board.Unblock(viewer, req.UserID)
	h.store.SaveBlocks(r.Context(), viewer, h.board.Blocked(viewer))
	w.WriteHeader(http.StatusNoContent)
}

// Me summarizes the viewer's own state.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	u, _ := h.board.User(viewer)

	resp := map[string]any{
		"user":         u,
		"points":       h.board.Points(viewer),
		"following":    h.board.Following(viewer),
		"blocked":      h.board.Blocked(viewer),
		"availability": h.store.Availability(r.Context(), viewer),
	}
	writeJSON(w, resp, http.StatusOK)
}

type homeCenterRequest struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius string  `json:"radius"`
}

func (h *UsersHandler) SetHome(w http.ResponseWriter, r *http.Request) {
	var req homeCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	viewer := viewerID(r)
	h.board.SetHomeCenter(viewer, models.GeoPoint{Lat: req.Lat, Lng: req.Lng})
	if req.Radius != "" {
		h.board.SetRadius(viewer, req.Radius)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	c, counted := h.store.CheckIn(r.Context(), viewerID(r))
	writeJSON(w, map[string]any{"streak": c.Streak, "counted": counted}, http.StatusOK)
}

type availabilityRequest struct {
	On   bool   `json:"on"`
	Note string `json:"note"`
}

func (h *UsersHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	a := h.store.SetAvailability(r.Context(), viewerID(r), req.On, req.Note)
	writeJSON(w, a, http.StatusOK)
}

func (h *UsersHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	first := h.store.ClaimOnboarding(r.Context(), viewerID(r))
	writeJSON(w, map[string]bool{"completed": first}, http.StatusOK)
}

type reportRequest struct {
	PostID  string `json:"postId"`
	ReplyID string `json:"replyId"`
	Reason  string `json:"reason"`
}

func (h *UsersHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	rep := h.store.AppendReport(r.Context(), models.Report{
		ReporterID: viewerID(r),
		PostID:     req.PostID,
		ReplyID:    req.ReplyID,
		Reason:     req.Reason,
	})
	writeJSON(w, rep, http.StatusCreated)
}

// referralBonus is the one-time invite credit.
const referralBonus = 10

// ClaimReferral credits the referrer the first time this referee lands on
// their invite link; repeats are no-ops.
func (h *UsersHandler) ClaimReferral(w http.ResponseWriter, r *http.Request) {
	referrer := mux.Vars(r)["userID"]
	referee := viewerID(r)
	if referrer == referee {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if _, ok := h.board.User(referrer); !ok {
		http.Error(w, "unknown user", http.StatusNotFound)
		return
	}

	if h.store.ClaimReferral(r.Context(), referrer, referee) {
		h.board.AwardPoints(referrer, referralBonus)
		h.board.PushEvent(models.ActivityEvent{
			Type:        "referral_bonus",
			ActorID:     referrer,
			OtherUserID: referee,
			AudienceIDs: []string{referrer, referee},
		})
	}
	w.WriteHeader(http.StatusNoContent)
}
