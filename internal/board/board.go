// Package board holds the whole neighborhood state in memory and implements
// every operation over it: posts and replies, the help lifecycle, chat
// gating, the activity log, and saved searches. All state mutation goes
// through a single mutex, so each operation is atomic with respect to every
// other one; persistence is the caller's concern (see internal/store).
package board

import (
	"log/slog"
	"sync"
	"time"

	"github.com/garnizeh/neighborly/internal/feed"
	"github.com/garnizeh/neighborly/pkg/models"
)

type Board struct {
	mu     sync.Mutex
	logger *slog.Logger
	clock  func() time.Time
	dirty  func()

	users map[string]models.User

	// posts is keyed by id; order preserves insertion order for stable
	// feed tie-breaks. Every update replaces the stored value with a fresh
	// copy, never mutates in place.
	posts map[string]models.Post
	order []string

	activity    []models.ActivityEvent
	points      map[string]int
	replyStats  map[string]models.ReplyStat
	chats       map[string][]models.ChatMessage
	lastRead    map[string]int64
	follows     map[string]map[string]bool
	blocks      map[string]map[string]bool
	homeCenters map[string]models.GeoPoint
	radius      map[string]string
	searches    []models.SavedSearch

	prefs Prefs
}

// Prefs is the persisted view state that is not owned by any one component.
type Prefs struct {
	ActiveTab           string
	HomeChip            string
	HomeQuery           string
	HomeShowAll         bool
	HomeFollowOnly      bool
	ExpandedThreads     []string
	ExpandedOtherVols   []string
	ActiveSavedSearchID string
}

type Option func(*Board)

// WithClock overrides the time source; tests use this to drive rate limits
// and streaks deterministically.
func WithClock(clock func() time.Time) Option {
	return func(b *Board) { b.clock = clock }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithDirtyFunc installs a callback invoked after every successful mutation,
// typically the persistence debouncer's poke.
func WithDirtyFunc(fn func()) Option {
	return func(b *Board) { b.dirty = fn }
}

func New(users []models.User, opts ...Option) *Board {
	b := &Board{
		logger:      slog.Default(),
		clock:       time.Now,
		users:       make(map[string]models.User, len(users)),
		posts:       make(map[string]models.Post),
		points:      make(map[string]int),
		replyStats:  make(map[string]models.ReplyStat),
		chats:       make(map[string][]models.ChatMessage),
		lastRead:    make(map[string]int64),
		follows:     make(map[string]map[string]bool),
		blocks:      make(map[string]map[string]bool),
		homeCenters: make(map[string]models.GeoPoint),
		radius:      make(map[string]string),
		prefs:       Prefs{ActiveTab: "home", HomeChip: feed.ChipAll},
	}
	for _, u := range users {
		b.users[u.ID] = u
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Board) now() time.Time { return b.clock() }

func (b *Board) nowMillis() int64 { return b.clock().UTC().UnixMilli() }

// markDirty must be called without the lock held.
func (b *Board) markDirty() {
	if b.dirty != nil {
		b.dirty()
	}
}

// User returns reference data for a user id.
func (b *Board) User(id string) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	return u, ok
}

func (b *Board) Users() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.User, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, u)
	}
	return out
}

func (b *Board) userName(id string) string {
	if u, ok := b.users[id]; ok {
		return u.Name
	}
	return "A neighbor"
}

// Points returns a user's neighbor-point balance.
func (b *Board) Points(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.points[userID]
}

// awardPoints credits points; the ledger is append-only and non-negative, so
// negative deltas are ignored. Callers hold the lock.
func (b *Board) awardPoints(userID string, delta int) {
	if delta <= 0 {
		return
	}
	b.points[userID] += delta
}

// AwardPoints credits points outside the help-confirmation flow (referral
// bonus, check-in perks). Emits no activity; callers push their own event.
func (b *Board) AwardPoints(userID string, delta int) {
	b.mu.Lock()
	b.awardPoints(userID, delta)
	b.mu.Unlock()
	b.markDirty()
}

// Follow adds target to userID's following set. Self-follows are ignored.
func (b *Board) Follow(userID, targetID string) {
	if userID == targetID {
		return
	}
	b.mu.Lock()
	if b.follows[userID] == nil {
		b.follows[userID] = make(map[string]bool)
	}
	b.follows[userID][targetID] = true
	b.mu.Unlock()
	b.markDirty()
}

func (b *Board) Unfollow(userID, targetID string) {
	b.mu.Lock()
	delete(b.follows[userID], targetID)
	b.mu.Unlock()
	b.markDirty()
}

func (b *Board) Following(userID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.follows[userID]))
	for id := range b.follows[userID] {
		out = append(out, id)
	}
	return out
}

// Block is a local-only annotation: it hides target's posts from userID's
// feed and bars target from hearting or commenting on userID's posts.
func (b *Board) Block(userID, targetID string) {
	if userID == targetID {
		return
	}
	b.mu.Lock()
	if b.blocks[userID] == nil {
		b.blocks[userID] = make(map[string]bool)
	}
	b.blocks[userID][targetID] = true
	b.mu.Unlock()
	b.markDirty()
}

func (b *Board) Unblock(userID, targetID string) {
	b.mu.Lock()
	delete(b.blocks[userID], targetID)
	b.mu.Unlock()
	b.markDirty()
}

// Blocked returns userID's block list.
func (b *Board) Blocked(userID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.blocks[userID]))
	for id := range b.blocks[userID] {
		out = append(out, id)
	}
	return out
}

// SetHomeCenter records the viewer's geographic reference point for radius
// filtering.
func (b *Board) SetHomeCenter(userID string, c models.GeoPoint) {
	b.mu.Lock()
	b.homeCenters[userID] = c
	b.mu.Unlock()
	b.markDirty()
}

// SetRadius stores the viewer's radius preset ("near", "local", "area",
// "all").
func (b *Board) SetRadius(userID, preset string) {
	b.mu.Lock()
	b.radius[userID] = preset
	b.mu.Unlock()
	b.markDirty()
}

// Prefs returns the shared view state.
func (b *Board) Prefs() Prefs {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.prefs
	p.ExpandedThreads = append([]string(nil), b.prefs.ExpandedThreads...)
	p.ExpandedOtherVols = append([]string(nil), b.prefs.ExpandedOtherVols...)
	return p
}

func (b *Board) SetPrefs(p Prefs) {
	b.mu.Lock()
	b.prefs = p
	b.mu.Unlock()
	b.markDirty()
}

// OpenDeepLink implements the shared-link contract: reset every feed filter
// to "show everything" and expand the linked post's thread, so the post is
// visible regardless of the viewer's current filter state.
func (b *Board) OpenDeepLink(postID string) {
	b.mu.Lock()
	if _, ok := b.posts[postID]; ok {
		b.prefs.HomeShowAll = true
		b.prefs.HomeFollowOnly = false
		b.prefs.HomeChip = feed.ChipAll
		b.prefs.HomeQuery = ""
		b.prefs.ActiveSavedSearchID = ""
		if !contains(b.prefs.ExpandedThreads, postID) {
			b.prefs.ExpandedThreads = append(b.prefs.ExpandedThreads, postID)
		}
	}
	b.mu.Unlock()
	b.markDirty()
}

// Feed computes the viewer's visible post list. A nil override uses the
// stored view state.
func (b *Board) Feed(viewerID string, override *feed.Filters) []models.Post {
	b.mu.Lock()
	defer b.mu.Unlock()

	f := feed.Filters{
		ShowAll:    b.prefs.HomeShowAll,
		FollowOnly: b.prefs.HomeFollowOnly,
		Chip:       b.prefs.HomeChip,
		Query:      b.prefs.HomeQuery,
		Radius:     b.radius[viewerID],
	}
	if override != nil {
		f = *override
	}

	v := feed.Viewer{
		ID:        viewerID,
		Following: b.follows[viewerID],
		Blocked:   b.blocks[viewerID],
	}
	if c, ok := b.homeCenters[viewerID]; ok {
		v.Home = &c
	}

	return feed.Compute(b.postsLocked(), f, v, b.nowMillis(), func(ownerID string) string {
		return b.users[ownerID].Location
	})
}

// RollReplyBuckets drops rate-limit buckets from previous days. Buckets also
// self-reset on next use; the sweep just keeps the map from growing.
func (b *Board) RollReplyBuckets() {
	today := b.now().Format("2006-01-02")
	b.mu.Lock()
	for k, s := range b.replyStats {
		if s.Day != today {
			delete(b.replyStats, k)
		}
	}
	b.mu.Unlock()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
