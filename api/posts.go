package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/internal/feed"
	"github.com/garnizeh/neighborly/pkg/models"
)

type PostsHandler struct {
	board *board.Board
}

func NewPostsHandler(b *board.Board) *PostsHandler {
	return &PostsHandler{board: b}
}

type createPostRequest struct {
	Kind          string   `json:"kind"`
	Title         string   `json:"title"`
	Details       string   `json:"details"`
	Area          string   `json:"area"`
	TownKey       string   `json:"townKey"`
	HelpersNeeded int      `json:"helpersNeeded"`
	TimeWindow    string   `json:"timeWindow"`
	Category      string   `json:"recCategory"`
	PrefTags      []string `json:"prefTags"`
	AllowChat     bool     `json:"allowChatAfterTopPick"`
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	p, rej := h.board.CreatePost(viewerID(r), board.PostInput{
		Kind:                  models.PostKind(req.Kind),
		Title:                 req.Title,
		Details:               req.Details,
		Area:                  req.Area,
		TownKey:               req.TownKey,
		HelpersNeeded:         req.HelpersNeeded,
		TimeWindow:            req.TimeWindow,
		Category:              req.Category,
		PrefTags:              req.PrefTags,
		AllowChatAfterTopPick: req.AllowChat,
	})
	if rej != nil {
		writeRejection(w, rej)
		return
	}

	writeJSON(w, p, http.StatusCreated)
}

// Feed returns the viewer's visible post list. Without query parameters the
// stored view state applies; any filter parameter switches to an explicit
// override.
func (h *PostsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var override *feed.Filters
	if len(q) > 0 {
		override = &feed.Filters{
			ShowAll:    q.Get("show_all") == "1",
			FollowOnly: q.Get("follow_only") == "1",
			Chip:       q.Get("chip"),
			Query:      q.Get("q"),
			Radius:     q.Get("radius"),
		}
		if override.Chip == "" {
			override.Chip = feed.ChipAll
		}
	}

	posts := h.board.Feed(viewerID(r), override)
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, posts, http.StatusOK)
}

// Get resolves a single post. Deep links pass reset_filters=1 so the post is
// visible regardless of the stored filter state.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, ok := h.board.Post(id)
	if !ok {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("reset_filters") == "1" {
		h.board.OpenDeepLink(id)
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.board.DeletePost(viewerID(r), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

type photoRequest struct {
	Photo string `json:"photo"`
}

func (h *PostsHandler) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Photo == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.board.AttachCompletionPhoto(viewerID(r), mux.Vars(r)["id"], req.Photo)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostsHandler) ApprovePhoto(w http.ResponseWriter, r *http.Request) {
	h.board.ApproveCompletionPhoto(viewerID(r), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}
