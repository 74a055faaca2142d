package store

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/neighborly/pkg/models"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON []byte

// Load reads the persisted snapshot. A missing document, a version mismatch,
// or a shape that fails the schema all come back as (nil, nil), meaning
// "no saved state", and the caller falls back to the seed state.
func (s *Store) Load(ctx context.Context) (*models.Snapshot, error) {
	raw, err := s.docs.Get(ctx, stateKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	snap := decodeSnapshot(ctx, raw)
	if snap == nil {
		s.logger.Warn("stored snapshot rejected, using seed state")
	}
	return snap, nil
}

// decodeSnapshot gates and migrates a raw snapshot document. Any failure
// returns nil rather than an error: stale or corrupt state is equivalent to
// no state.
func decodeSnapshot(ctx context.Context, raw []byte) *models.Snapshot {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Version != models.SnapshotVersion {
		return nil
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(snapshotSchemaJSON, rs); err != nil {
		return nil
	}
	keyErrs, err := rs.ValidateBytes(ctx, raw)
	if err != nil || len(keyErrs) > 0 {
		return nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil
	}

	migrateSnapshot(&snap, raw)
	return &snap
}

// migrateSnapshot applies the legacy-shape fixups in one place at load time:
// replies that carried their comments under a nested "replies" array, and
// activity events missing an audience.
func migrateSnapshot(snap *models.Snapshot, raw []byte) {
	for i := range snap.Activity {
		if len(snap.Activity[i].AudienceIDs) == 0 {
			snap.Activity[i].AudienceIDs = []string{snap.Activity[i].ActorID}
		}
	}

	var shadow struct {
		Posts []struct {
			Replies []struct {
				Replies []models.Comment `json:"replies"`
			} `json:"replies"`
		} `json:"posts"`
	}
	if err := json.Unmarshal(raw, &shadow); err != nil {
		return
	}
	for pi := range snap.Posts {
		if pi >= len(shadow.Posts) {
			break
		}
		for ri := range snap.Posts[pi].Replies {
			if ri >= len(shadow.Posts[pi].Replies) {
				break
			}
			legacy := shadow.Posts[pi].Replies[ri].Replies
			if len(snap.Posts[pi].Replies[ri].Comments) == 0 && len(legacy) > 0 {
				snap.Posts[pi].Replies[ri].Comments = legacy
			}
		}
	}
}
