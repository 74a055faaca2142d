package board_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/pkg/models"
)

func TestSaveSearch_Validation(t *testing.T) {
	b, _ := newTestBoard(t)

	_, rej := b.SaveSearch("u-ana", "", "   ", "rec", false)
	wantRejection(t, rej, board.EmptyText)

	s, rej := b.SaveSearch("u-ana", "", "plumber", "rec", false)
	if rej != nil {
		t.Fatalf("save rejected: %v", rej)
	}
	if s.Name != "plumber" {
		t.Fatalf("empty name should default to the query, got %q", s.Name)
	}

	// same fingerprint regardless of case and padding
	_, rej = b.SaveSearch("u-ana", "again", "  PLUMBER ", "rec", false)
	wantRejection(t, rej, board.SearchExists)

	// a different flag is a different search
	if _, rej := b.SaveSearch("u-ana", "", "plumber", "rec", true); rej != nil {
		t.Fatalf("showAll variant rejected: %v", rej)
	}
}

func TestSaveSearch_PerUserCap(t *testing.T) {
	b, _ := newTestBoard(t)

	for i := 0; i < 5; i++ {
		q := fmt.Sprintf("query %d", i)
		if _, rej := b.SaveSearch("u-ana", "", q, "all", false); rej != nil {
			t.Fatalf("save %d rejected: %v", i, rej)
		}
	}

	_, rej := b.SaveSearch("u-ana", "", "one more", "all", false)
	wantRejection(t, rej, board.SearchLimit)

	// the cap is per user
	if _, rej := b.SaveSearch("u-ben", "", "one more", "all", false); rej != nil {
		t.Fatalf("another user's save rejected: %v", rej)
	}
}

func TestDeleteSearch_OwnScopedAndClearsActive(t *testing.T) {
	b, _ := newTestBoard(t)
	s, _ := b.SaveSearch("u-ana", "", "plumber", "all", false)

	prefs := b.Prefs()
	prefs.ActiveSavedSearchID = s.ID
	b.SetPrefs(prefs)

	// someone else cannot delete it
	b.DeleteSearch("u-ben", s.ID)
	if got := b.SavedSearches("u-ana"); len(got) != 1 {
		t.Fatal("another user deleted the search")
	}

	b.DeleteSearch("u-ana", s.ID)
	if got := b.SavedSearches("u-ana"); len(got) != 0 {
		t.Fatal("search not deleted")
	}
	if b.Prefs().ActiveSavedSearchID != "" {
		t.Fatal("deleting the active search should clear the selection")
	}
}

func TestCountNewForSearch(t *testing.T) {
	b, cl := newTestBoard(t)
	s, _ := b.SaveSearch("u-ana", "", "plumber", "rec", false)

	cl.advance(time.Minute)
	recPost(t, b, "u-ben", false)
	if _, rej := b.CreatePost("u-ben", board.PostInput{Kind: models.PostHelp, Title: "Help with my plumber bill"}); rej != nil {
		t.Fatalf("create rejected: %v", rej)
	}

	// only the rec post matches the chip; the help post does not
	if got := b.CountNewForSearch("u-ana", s.ID); got != 1 {
		t.Fatalf("expected 1 new match, got %d", got)
	}

	cl.advance(time.Minute)
	b.MarkSearchSeen("u-ana", s.ID)
	if got := b.CountNewForSearch("u-ana", s.ID); got != 0 {
		t.Fatalf("expected 0 after marking seen, got %d", got)
	}

	// new matches after the seen marker count again
	cl.advance(time.Minute)
	if _, rej := b.CreatePost("u-carla", board.PostInput{Kind: models.PostRec, Title: "Another plumber question"}); rej != nil {
		t.Fatalf("create rejected: %v", rej)
	}
	if got := b.CountNewForSearch("u-ana", s.ID); got != 1 {
		t.Fatalf("expected 1 new match after seen, got %d", got)
	}
}

func TestCountNewForSearch_WrongUserOrID(t *testing.T) {
	b, _ := newTestBoard(t)
	s, _ := b.SaveSearch("u-ana", "", "plumber", "all", false)

	if got := b.CountNewForSearch("u-ben", s.ID); got != 0 {
		t.Fatalf("another user's count should be 0, got %d", got)
	}
	if got := b.CountNewForSearch("u-ana", "nope"); got != 0 {
		t.Fatalf("unknown search should count 0, got %d", got)
	}
}
