package board

import (
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/neighborly/internal/feed"
	"github.com/garnizeh/neighborly/pkg/models"
)

// maxSavedSearches caps saved searches per user.
const maxSavedSearches = 5

// searchFingerprint identifies an equivalent saved search: chip, show-all
// flag, and the normalized query.
func searchFingerprint(chip string, showAll bool, query string) string {
	flag := "0"
	if showAll {
		flag = "1"
	}
	return chip + "|" + flag + "|" + strings.ToLower(strings.TrimSpace(query))
}

// SaveSearch stores a named filter snapshot for a user. Empty queries,
// duplicate fingerprints, and the per-user cap all reject without mutating
// the store.
func (b *Board) SaveSearch(userID, name, query, chip string, showAll bool) (*models.SavedSearch, *Rejection) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, reject(EmptyText, "type a search to save it")
	}
	if chip == "" {
		chip = feed.ChipAll
	}

	b.mu.Lock()
	fp := searchFingerprint(chip, showAll, query)
	count := 0
	for _, s := range b.searches {
		if s.UserID != userID {
			continue
		}
		count++
		if searchFingerprint(s.HomeChip, s.HomeShowAll, s.Query) == fp {
			b.mu.Unlock()
			return nil, reject(SearchExists, "you already saved this search")
		}
	}
	if count >= maxSavedSearches {
		b.mu.Unlock()
		return nil, reject(SearchLimit, "you can keep up to 5 saved searches")
	}

	if strings.TrimSpace(name) == "" {
		name = query
	}
	now := b.nowMillis()
	s := models.SavedSearch{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Query:       query,
		HomeChip:    chip,
		HomeShowAll: showAll,
		LastSeenTS:  now,
		CreatedAt:   now,
	}
	b.searches = append(b.searches, s)
	b.mu.Unlock()
	b.markDirty()

	return &s, nil
}

// DeleteSearch removes one of the user's saved searches.
func (b *Board) DeleteSearch(userID, searchID string) {
	b.mu.Lock()
	kept := b.searches[:0]
	for _, s := range b.searches {
		if s.ID == searchID && s.UserID == userID {
			if b.prefs.ActiveSavedSearchID == searchID {
				b.prefs.ActiveSavedSearchID = ""
			}
			continue
		}
		kept = append(kept, s)
	}
	b.searches = kept
	b.mu.Unlock()
	b.markDirty()
}

// SavedSearches lists a user's saved searches in creation order.
func (b *Board) SavedSearches(userID string) []models.SavedSearch {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.SavedSearch
	for _, s := range b.searches {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

// CountNewForSearch counts posts created after the search was last seen that
// match its filter predicate. The predicate covers the resolution, chip, and
// free-text stages only, independent of the viewer's live filter state.
func (b *Board) CountNewForSearch(userID, searchID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.searches {
		if s.ID != searchID || s.UserID != userID {
			continue
		}
		n := 0
		for _, id := range b.order {
			p, ok := b.posts[id]
			if !ok || p.CreatedAt <= s.LastSeenTS {
				continue
			}
			if feed.MatchesSearch(p, s.HomeChip, s.HomeShowAll, s.Query) {
				n++
			}
		}
		return n
	}
	return 0
}

// MarkSearchSeen resets the search's new-item counter to now.
func (b *Board) MarkSearchSeen(userID, searchID string) {
	b.mu.Lock()
	for i, s := range b.searches {
		if s.ID == searchID && s.UserID == userID {
			b.searches[i].LastSeenTS = b.nowMillis()
			break
		}
	}
	b.mu.Unlock()
	b.markDirty()
}
