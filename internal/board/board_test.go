package board_test

import (
	"testing"
	"time"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/internal/feed"
	"github.com/garnizeh/neighborly/pkg/models"
)

// clock is a manually advanced time source shared by the board tests.
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testUsers() []models.User {
	return []models.User{
		{ID: "u-ana", Name: "Ana", Handle: "ana", Location: "Maplewood, NJ"},
		{ID: "u-ben", Name: "Ben", Handle: "ben", Location: "South Orange, NJ"},
		{ID: "u-carla", Name: "Carla", Handle: "carla", Location: "Montclair, NJ"},
		{ID: "u-dev", Name: "Dev", Handle: "dev", Location: "Maplewood, NJ"},
	}
}

func newTestBoard(t *testing.T) (*board.Board, *clock) {
	t.Helper()
	c := newClock()
	return board.New(testUsers(), board.WithClock(c.now)), c
}

func helpPost(t *testing.T, b *board.Board, owner string, helpers int) models.Post {
	t.Helper()
	p, rej := b.CreatePost(owner, board.PostInput{
		Kind:          models.PostHelp,
		Title:         "Help me move a couch",
		HelpersNeeded: helpers,
	})
	if rej != nil {
		t.Fatalf("create help post rejected: %v", rej)
	}
	return p
}

func recPost(t *testing.T, b *board.Board, owner string, allowChat bool) models.Post {
	t.Helper()
	p, rej := b.CreatePost(owner, board.PostInput{
		Kind:                  models.PostRec,
		Title:                 "Looking for a plumber",
		Category:              "home services",
		AllowChatAfterTopPick: allowChat,
	})
	if rej != nil {
		t.Fatalf("create rec post rejected: %v", rej)
	}
	return p
}

func volunteer(t *testing.T, b *board.Board, postID, userID string) models.Reply {
	t.Helper()
	r, rej := b.SubmitReply(postID, userID, models.ReplyVolunteer, "I can help with that")
	if rej != nil {
		t.Fatalf("volunteer reply rejected: %v", rej)
	}
	return r
}

func TestAwardPoints_NonNegativeLedger(t *testing.T) {
	b, _ := newTestBoard(t)

	b.AwardPoints("u-ana", 10)
	b.AwardPoints("u-ana", -5)
	b.AwardPoints("u-ana", 0)

	if got := b.Points("u-ana"); got != 10 {
		t.Fatalf("expected 10 points, got %d", got)
	}
}

func TestFollowAndBlock_SelfIgnored(t *testing.T) {
	b, _ := newTestBoard(t)

	b.Follow("u-ana", "u-ana")
	b.Block("u-ana", "u-ana")

	if got := b.Following("u-ana"); len(got) != 0 {
		t.Fatalf("self-follow should be ignored, got %v", got)
	}
	if got := b.Blocked("u-ana"); len(got) != 0 {
		t.Fatalf("self-block should be ignored, got %v", got)
	}
}

func TestBlock_HidesOwnerFromFeed(t *testing.T) {
	b, _ := newTestBoard(t)
	helpPost(t, b, "u-ben", 1)

	if got := b.Feed("u-ana", nil); len(got) != 1 {
		t.Fatalf("expected 1 post before blocking, got %d", len(got))
	}
	b.Block("u-ana", "u-ben")
	if got := b.Feed("u-ana", nil); len(got) != 0 {
		t.Fatalf("expected empty feed after blocking, got %d posts", len(got))
	}
	// the block is local to ana
	if got := b.Feed("u-carla", nil); len(got) != 1 {
		t.Fatalf("carla's feed should be unaffected, got %d posts", len(got))
	}
}

func TestFeed_DoesNotMutateBoard(t *testing.T) {
	b, _ := newTestBoard(t)
	p := helpPost(t, b, "u-ana", 1)

	got := b.Feed("u-ben", nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 post, got %d", len(got))
	}
	got[0].Title = "tampered"
	got[0].Help.SelectedUserIDs = append(got[0].Help.SelectedUserIDs, "u-ben")

	stored, ok := b.Post(p.ID)
	if !ok {
		t.Fatal("post disappeared")
	}
	if stored.Title != "Help me move a couch" || len(stored.Help.SelectedUserIDs) != 0 {
		t.Fatal("feed result aliased board state")
	}
}

func TestOpenDeepLink_ResetsFiltersAndExpands(t *testing.T) {
	b, _ := newTestBoard(t)
	p := helpPost(t, b, "u-ana", 1)

	b.SetPrefs(board.Prefs{
		ActiveTab:      "home",
		HomeChip:       "rec",
		HomeQuery:      "plumber",
		HomeFollowOnly: true,
	})

	b.OpenDeepLink(p.ID)

	prefs := b.Prefs()
	if !prefs.HomeShowAll || prefs.HomeFollowOnly || prefs.HomeChip != feed.ChipAll || prefs.HomeQuery != "" {
		t.Fatalf("filters not reset: %+v", prefs)
	}
	found := false
	for _, id := range prefs.ExpandedThreads {
		if id == p.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("expected thread to be expanded")
	}

	// unknown ids leave state alone
	before := b.Prefs()
	b.OpenDeepLink("nope")
	after := b.Prefs()
	if len(after.ExpandedThreads) != len(before.ExpandedThreads) {
		t.Fatal("unknown deep link should not expand anything")
	}
}

func TestDeletePost_CascadesAndIsOwnerOnly(t *testing.T) {
	b, _ := newTestBoard(t)
	p := helpPost(t, b, "u-ana", 1)
	volunteer(t, b, p.ID, "u-ben")
	if rej := b.ChooseHelper(p.ID, "u-ana", "u-ben"); rej != nil {
		t.Fatalf("choose helper rejected: %v", rej)
	}
	if _, rej := b.SendMessage(p.ID, "u-ana", "u-ben", "see you at noon"); rej != nil {
		t.Fatalf("send message rejected: %v", rej)
	}
	b.OpenDeepLink(p.ID)

	// non-owner delete is a silent no-op
	b.DeletePost("u-ben", p.ID)
	if _, ok := b.Post(p.ID); !ok {
		t.Fatal("non-owner delete should not remove the post")
	}

	b.DeletePost("u-ana", p.ID)
	if _, ok := b.Post(p.ID); ok {
		t.Fatal("owner delete should remove the post")
	}
	if msgs := b.Messages(p.ID, "u-ana", "u-ben"); msgs != nil {
		t.Fatal("chat should be gone with the post")
	}
	for _, id := range b.Prefs().ExpandedThreads {
		if id == p.ID {
			t.Fatal("expanded-thread state should be cleaned up")
		}
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	b, cl := newTestBoard(t)
	p := recPost(t, b, "u-ana", true)
	r, rej := b.SubmitReply(p.ID, "u-ben", models.ReplySuggestion, "Try the shop on Main St")
	if rej != nil {
		t.Fatalf("reply rejected: %v", rej)
	}
	b.SetTopPick(p.ID, r.ID, "u-ana")
	b.AwardPoints("u-ben", 10)
	b.Follow("u-ana", "u-ben")
	b.SetHomeCenter("u-ana", models.GeoPoint{Lat: 40.73, Lng: -74.27})
	b.SetRadius("u-ana", feed.RadiusLocal)
	if _, rej := b.SaveSearch("u-ana", "plumbers", "plumber", "rec", false); rej != nil {
		t.Fatalf("save search rejected: %v", rej)
	}
	if _, rej := b.SendMessage(p.ID, "u-ana", "u-ben", "thanks!"); rej != nil {
		t.Fatalf("send message rejected: %v", rej)
	}

	snap := b.Snapshot()
	if snap.Version != models.SnapshotVersion {
		t.Fatalf("expected snapshot version %d, got %d", models.SnapshotVersion, snap.Version)
	}

	b2 := board.New(testUsers(), board.WithClock(cl.now))
	b2.Restore(&snap)

	if got := b2.Points("u-ben"); got != 10 {
		t.Fatalf("points lost in round trip: %d", got)
	}
	p2, ok := b2.Post(p.ID)
	if !ok {
		t.Fatal("post lost in round trip")
	}
	if p2.Rec.TopPickReplyID != r.ID {
		t.Fatal("top pick lost in round trip")
	}
	if msgs := b2.Messages(p.ID, "u-ben", "u-ana"); len(msgs) != 1 {
		t.Fatalf("chat lost in round trip: %d messages", len(msgs))
	}
	if got := b2.SavedSearches("u-ana"); len(got) != 1 {
		t.Fatalf("saved searches lost in round trip: %d", len(got))
	}
	if got := b2.Following("u-ana"); len(got) != 1 || got[0] != "u-ben" {
		t.Fatalf("follows lost in round trip: %v", got)
	}
}

func TestRollReplyBuckets_DropsOldDays(t *testing.T) {
	b, cl := newTestBoard(t)
	p := recPost(t, b, "u-ana", false)

	if _, rej := b.SubmitReply(p.ID, "u-ben", models.ReplySuggestion, "Try the shop on Main St"); rej != nil {
		t.Fatalf("reply rejected: %v", rej)
	}

	cl.advance(24 * time.Hour)
	b.RollReplyBuckets()

	snap := b.Snapshot()
	if len(snap.ReplyStats) != 0 {
		t.Fatalf("expected stale buckets swept, got %v", snap.ReplyStats)
	}
}
