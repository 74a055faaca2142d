package board

import (
	"github.com/garnizeh/neighborly/pkg/models"
)

// Restore replaces the whole in-memory state with a decoded snapshot. The
// snapshot is assumed to have passed the loader's version and shape gates;
// legacy-shape migration happens there, not here.
func (b *Board) Restore(s *models.Snapshot) {
	if s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.posts = make(map[string]models.Post, len(s.Posts))
	b.order = b.order[:0]
	for _, p := range s.Posts {
		b.posts[p.ID] = clonePost(p)
		b.order = append(b.order, p.ID)
	}

	b.activity = append([]models.ActivityEvent(nil), s.Activity...)

	b.points = make(map[string]int, len(s.NPPointsByUser))
	for k, v := range s.NPPointsByUser {
		b.points[k] = v
	}

	b.replyStats = make(map[string]models.ReplyStat, len(s.ReplyStats))
	for k, v := range s.ReplyStats {
		b.replyStats[k] = v
	}

	b.chats = make(map[string][]models.ChatMessage, len(s.Chats))
	for k, msgs := range s.Chats {
		b.chats[k] = append([]models.ChatMessage(nil), msgs...)
	}

	b.lastRead = make(map[string]int64, len(s.LastRead))
	for k, v := range s.LastRead {
		b.lastRead[k] = v
	}

	b.homeCenters = make(map[string]models.GeoPoint, len(s.HomeCenters))
	for k, v := range s.HomeCenters {
		b.homeCenters[k] = v
	}

	b.radius = make(map[string]string, len(s.RadiusByUser))
	for k, v := range s.RadiusByUser {
		b.radius[k] = v
	}

	b.follows = make(map[string]map[string]bool, len(s.FollowsByUser))
	for userID, ids := range s.FollowsByUser {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		b.follows[userID] = set
	}

	b.searches = append([]models.SavedSearch(nil), s.SavedSearches...)

	b.prefs = Prefs{
		ActiveTab:           s.ActiveTab,
		HomeChip:            s.HomeChip,
		HomeQuery:           s.HomeQuery,
		HomeShowAll:         s.HomeShowAll,
		HomeFollowOnly:      s.HomeFollowOnly,
		ExpandedThreads:     append([]string(nil), s.ExpandedThreads...),
		ExpandedOtherVols:   append([]string(nil), s.ExpandedOtherVols...),
		ActiveSavedSearchID: s.ActiveSavedSearchID,
	}
}

// Snapshot exports a deep copy of the persisted state. The saver strips
// photo data before writing; the in-memory copy keeps it.
func (b *Board) Snapshot() models.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := models.Snapshot{
		Version:             models.SnapshotVersion,
		Posts:               b.postsLocked(),
		Activity:            append([]models.ActivityEvent(nil), b.activity...),
		NPPointsByUser:      make(map[string]int, len(b.points)),
		ReplyStats:          make(map[string]models.ReplyStat, len(b.replyStats)),
		HomeCenters:         make(map[string]models.GeoPoint, len(b.homeCenters)),
		RadiusByUser:        make(map[string]string, len(b.radius)),
		Chats:               make(map[string][]models.ChatMessage, len(b.chats)),
		LastRead:            make(map[string]int64, len(b.lastRead)),
		ActiveTab:           b.prefs.ActiveTab,
		HomeChip:            b.prefs.HomeChip,
		HomeShowAll:         b.prefs.HomeShowAll,
		HomeQuery:           b.prefs.HomeQuery,
		ExpandedThreads:     append([]string(nil), b.prefs.ExpandedThreads...),
		ExpandedOtherVols:   append([]string(nil), b.prefs.ExpandedOtherVols...),
		HomeFollowOnly:      b.prefs.HomeFollowOnly,
		FollowsByUser:       make(map[string][]string, len(b.follows)),
		SavedSearches:       append([]models.SavedSearch(nil), b.searches...),
		ActiveSavedSearchID: b.prefs.ActiveSavedSearchID,
	}

	for k, v := range b.points {
		s.NPPointsByUser[k] = v
	}
	for k, v := range b.replyStats {
		s.ReplyStats[k] = v
	}
	for k, v := range b.homeCenters {
		s.HomeCenters[k] = v
	}
	for k, v := range b.radius {
		s.RadiusByUser[k] = v
	}
	for k, msgs := range b.chats {
		s.Chats[k] = append([]models.ChatMessage(nil), msgs...)
	}
	for k, v := range b.lastRead {
		s.LastRead[k] = v
	}
	for userID, set := range b.follows {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		s.FollowsByUser[userID] = ids
	}

	return s
}
