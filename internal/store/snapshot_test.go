package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/garnizeh/neighborly/internal/store"
	"github.com/garnizeh/neighborly/pkg/models"
	"github.com/garnizeh/neighborly/pkg/repository/mock"
)

func putState(t *testing.T, docs *mock.DocumentStore, raw string) {
	t.Helper()
	if err := docs.Put(context.Background(), "state", json.RawMessage(raw)); err != nil {
		t.Fatalf("seed state: %v", err)
	}
}

func TestLoad_MissingDocument(t *testing.T) {
	docs := mock.NewDocumentStore()
	s := store.New(docs, nil, nil)
	defer s.Close()

	snap, err := s.Load(context.Background())
	if err != nil || snap != nil {
		t.Fatalf("missing state should be (nil, nil), got %v / %v", snap, err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	docs := mock.NewDocumentStore()
	s := store.New(docs, staticSnapshot, nil)
	s.Flush(context.Background())
	defer s.Close()

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a snapshot back")
	}
	if snap.Version != models.SnapshotVersion || snap.NPPointsByUser["u-ana"] != 10 {
		t.Fatalf("round trip lost data: %+v", snap)
	}
}

func TestLoad_RejectsWrongVersion(t *testing.T) {
	docs := mock.NewDocumentStore()
	putState(t, docs, fmt.Sprintf(
		`{"version":%d,"posts":[],"activity":[],"npPointsByUser":{},"replyStats":{},"chats":{}}`,
		models.SnapshotVersion-1))

	s := store.New(docs, nil, nil)
	defer s.Close()
	snap, err := s.Load(context.Background())
	if err != nil || snap != nil {
		t.Fatalf("stale version should read as no state, got %v / %v", snap, err)
	}
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	docs := mock.NewDocumentStore()
	putState(t, docs, `{"version":6,`)

	s := store.New(docs, nil, nil)
	defer s.Close()
	snap, err := s.Load(context.Background())
	if err != nil || snap != nil {
		t.Fatalf("corrupt state should read as no state, got %v / %v", snap, err)
	}
}

func TestLoad_RejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		// missing required top-level fields
		"missing fields": `{"version":6,"posts":[]}`,
		// negative point balances
		"negative points": `{"version":6,"posts":[],"activity":[],"npPointsByUser":{"u-ana":-5},"replyStats":{},"chats":{}}`,
		// post with an unknown kind
		"bad post kind": `{"version":6,"posts":[{"id":"p1","kind":"barter","ownerId":"u-ana","title":"x","status":"open","createdAt":1,"replies":[]}],"activity":[],"npPointsByUser":{},"replyStats":{},"chats":{}}`,
	}

	for name, raw := range cases {
		docs := mock.NewDocumentStore()
		putState(t, docs, raw)
		s := store.New(docs, nil, nil)
		snap, err := s.Load(context.Background())
		s.Close()
		if err != nil || snap != nil {
			t.Fatalf("%s: expected (nil, nil), got %v / %v", name, snap, err)
		}
	}
}

func TestLoad_DefaultsMissingAudience(t *testing.T) {
	docs := mock.NewDocumentStore()
	putState(t, docs, `{
		"version":6,
		"posts":[],
		"activity":[{"id":"e1","ts":1,"type":"post_created","actorId":"u-ana"}],
		"npPointsByUser":{},"replyStats":{},"chats":{}
	}`)

	s := store.New(docs, nil, nil)
	defer s.Close()
	snap, err := s.Load(context.Background())
	if err != nil || snap == nil {
		t.Fatalf("load: %v / %v", snap, err)
	}
	if got := snap.Activity[0].AudienceIDs; len(got) != 1 || got[0] != "u-ana" {
		t.Fatalf("audience should default to the actor, got %v", got)
	}
}

func TestLoad_MigratesLegacyNestedReplies(t *testing.T) {
	docs := mock.NewDocumentStore()
	// older snapshots stored a reply's comments under a nested "replies" array
	putState(t, docs, `{
		"version":6,
		"posts":[{
			"id":"p1","kind":"rec","ownerId":"u-ana","title":"plumber?","status":"open","createdAt":1,
			"replies":[{
				"id":"r1","authorId":"u-ben","text":"try main st","type":"suggestion","createdAt":2,
				"replies":[{"id":"c1","authorId":"u-carla","text":"seconded","createdAt":3}]
			}]
		}],
		"activity":[],"npPointsByUser":{},"replyStats":{},"chats":{}
	}`)

	s := store.New(docs, nil, nil)
	defer s.Close()
	snap, err := s.Load(context.Background())
	if err != nil || snap == nil {
		t.Fatalf("load: %v / %v", snap, err)
	}

	comments := snap.Posts[0].Replies[0].Comments
	if len(comments) != 1 || comments[0].ID != "c1" || comments[0].Text != "seconded" {
		t.Fatalf("legacy nested replies should become comments, got %+v", comments)
	}
}
