// Package feed computes the visible, ordered post list for a viewer. Every
// stage of the pipeline is a pure function of its inputs; callers own the
// post slice they pass in and get a fresh slice back.
package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/garnizeh/neighborly/pkg/models"
)

// ChipAll shows every post kind; the other valid chips are the post kinds
// themselves ("help", "rec").
const ChipAll = "all"

// archiveAfter is how long an untouched post stays out of the default feed.
const archiveAfter = 30 * 24 * time.Hour

// Filters is the viewer's current feed filter state.
type Filters struct {
	ShowAll    bool
	FollowOnly bool
	Chip       string
	Query      string
	Radius     string
}

// Viewer carries the per-user state the pipeline consults.
type Viewer struct {
	ID        string
	Following map[string]bool
	Blocked   map[string]bool
	Home      *models.GeoPoint
}

// Compute applies the filter pipeline in its fixed order: resolution, follow,
// radius, chip, free-text, blocks, lifecycle, then a stable newest-first sort.
// ownerLocation resolves a user id to their free-text location label and may
// be nil. now is the reference time for lifecycle inference.
func Compute(posts []models.Post, f Filters, v Viewer, now int64, ownerLocation func(string) string) []models.Post {
	out := make([]models.Post, 0, len(posts))

	miles, bounded := PresetMiles(f.Radius)

	for _, p := range posts {
		if !f.ShowAll && p.Status == models.StatusResolved {
			continue
		}
		if f.FollowOnly && p.OwnerID != v.ID && !v.Following[p.OwnerID] {
			continue
		}
		if v.Home != nil && bounded {
			loc := ""
			if ownerLocation != nil {
				loc = ownerLocation(p.OwnerID)
			}
			// Posts with no resolvable center are always kept.
			if c, ok := PostCenter(p, loc); ok && Haversine(*v.Home, c) > miles {
				continue
			}
		}
		if f.Chip != "" && f.Chip != ChipAll && string(p.Kind) != f.Chip {
			continue
		}
		if q := normalizeQuery(f.Query); q != "" && !strings.Contains(searchableText(p), q) {
			continue
		}
		if v.Blocked[p.OwnerID] {
			continue
		}
		if !f.ShowAll && Archived(p, now) {
			continue
		}
		out = append(out, p)
	}

	// Ties keep collection order, so the sort must be stable.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})

	return out
}

// MatchesSearch is the predicate a saved search evaluates posts against: the
// resolution, chip, and free-text stages of the pipeline, independent of any
// viewer state.
func MatchesSearch(p models.Post, chip string, showAll bool, query string) bool {
	if !showAll && p.Status == models.StatusResolved {
		return false
	}
	if chip != "" && chip != ChipAll && string(p.Kind) != chip {
		return false
	}
	if q := normalizeQuery(query); q != "" && !strings.Contains(searchableText(p), q) {
		return false
	}
	return true
}

// Archived reports whether a post's inferred lifecycle has aged out of the
// default feed.
func Archived(p models.Post, now int64) bool {
	return now-p.CreatedAt > archiveAfter.Milliseconds()
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// searchableText concatenates every field free-text search runs over.
func searchableText(p models.Post) string {
	parts := []string{p.Title, p.Details, p.Area}
	if p.Help != nil {
		parts = append(parts, p.Help.TimeWindow)
	}
	if p.Rec != nil {
		parts = append(parts, p.Rec.Category)
		parts = append(parts, p.Rec.PrefTags...)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
