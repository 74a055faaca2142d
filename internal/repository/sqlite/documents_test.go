package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"

	dbfs "github.com/garnizeh/neighborly/db"
	"github.com/garnizeh/neighborly/internal/db"
	"github.com/garnizeh/neighborly/internal/repository/sqlite"
)

func newRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.New(d, nil)
}

func TestDocuments_GetPutDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	got, err := repo.Get(ctx, "state")
	if err != nil || got != nil {
		t.Fatalf("missing key should be (nil, nil), got %v / %v", got, err)
	}

	if err := repo.Put(ctx, "state", json.RawMessage(`{"version":6}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err = repo.Get(ctx, "state")
	if err != nil || string(got) != `{"version":6}` {
		t.Fatalf("get after put: %s / %v", got, err)
	}

	// put is an upsert
	if err := repo.Put(ctx, "state", json.RawMessage(`{"version":7}`)); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, _ = repo.Get(ctx, "state")
	if string(got) != `{"version":7}` {
		t.Fatalf("expected overwrite, got %s", got)
	}

	if err := repo.Delete(ctx, "state"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = repo.Get(ctx, "state")
	if got != nil {
		t.Fatalf("expected key gone, got %s", got)
	}

	// deleting a missing key is not an error
	if err := repo.Delete(ctx, "state"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestDocuments_PutRejectsEmptyKey(t *testing.T) {
	repo := newRepo(t)
	if err := repo.Put(context.Background(), "", json.RawMessage(`1`)); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestDocuments_ListByPrefix(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	seed := map[string]string{
		"avail:u-ana":   `{"on":true}`,
		"avail:u-ben":   `{"on":false}`,
		"blocks:u-ana":  `["u-ben"]`,
		"checkin:u-ana": `{"streak":3}`,
	}
	for k, v := range seed {
		if err := repo.Put(ctx, k, json.RawMessage(v)); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	got, err := repo.List(ctx, "avail:")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 avail docs, got %d", len(got))
	}
	if string(got["avail:u-ana"]) != `{"on":true}` {
		t.Fatalf("wrong doc back: %s", got["avail:u-ana"])
	}

	// LIKE wildcards in the prefix are treated literally
	if err := repo.Put(ctx, "a_b", json.RawMessage(`1`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "axb", json.RawMessage(`2`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err = repo.List(ctx, "a_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("underscore should not be a wildcard, got %d docs", len(got))
	}

	got, err = repo.List(ctx, "nothing:")
	if err != nil || len(got) != 0 {
		t.Fatalf("empty prefix match should be empty, got %d / %v", len(got), err)
	}
}
