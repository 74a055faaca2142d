package api

import (
	"net/http"
	"strconv"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/pkg/models"
)

type ActivityHandler struct {
	board *board.Board
}

func NewActivityHandler(b *board.Board) *ActivityHandler {
	return &ActivityHandler{board: b}
}

type activityItem struct {
	models.ActivityEvent
	Text string `json:"text"`
}

// List returns the events addressed to the viewer, most recent first, each
// phrased for the viewer's role in it.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	events := h.board.ActivityFor(viewer)

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	if len(events) > limit {
		events = events[:limit]
	}

	items := make([]activityItem, 0, len(events))
	for _, e := range events {
		items = append(items, activityItem{
			ActivityEvent: e,
			Text:          h.board.RenderActivity(e, viewer),
		})
	}

	writeJSON(w, items, http.StatusOK)
}
