package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/pkg/models"
)

type SavedSearchHandler struct {
	board *board.Board
}

func NewSavedSearchHandler(b *board.Board) *SavedSearchHandler {
	return &SavedSearchHandler{board: b}
}

type saveSearchRequest struct {
	Name    string `json:"name"`
	Query   string `json:"query"`
	Chip    string `json:"chip"`
	ShowAll bool   `json:"showAll"`
}

func (h *SavedSearchHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	s, rej := h.board.SaveSearch(viewerID(r), req.Name, req.Query, req.Chip, req.ShowAll)
	if rej != nil {
		writeRejection(w, rej)
		return
	}

	writeJSON(w, s, http.StatusCreated)
}

type savedSearchItem struct {
	models.SavedSearch
	NewCount int `json:"newCount"`
}

// List returns the viewer's saved searches with their new-item counts.
func (h *SavedSearchHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	searches := h.board.SavedSearches(viewer)

	items := make([]savedSearchItem, 0, len(searches))
	for _, s := range searches {
		items = append(items, savedSearchItem{
			SavedSearch: s,
			NewCount:    h.board.CountNewForSearch(viewer, s.ID),
		})
	}

	writeJSON(w, items, http.StatusOK)
}

func (h *SavedSearchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.board.DeleteSearch(viewerID(r), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *SavedSearchHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	h.board.MarkSearchSeen(viewerID(r), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}
