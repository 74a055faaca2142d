package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/neighborly/pkg/models"
)

// The smaller keyed documents live outside the snapshot so a rejected
// snapshot doesn't take streaks or block lists down with it.
const (
	checkinPrefix = "checkin:"
	onboardPrefix = "onboard:"
	availPrefix   = "avail:"
	blocksPrefix  = "blocks:"
	reportsKey    = "reports"
	refPrefix     = "ref:"
)

// availabilityTTL is how long an availability toggle stays on.
const availabilityTTL = 2 * time.Hour

func (s *Store) getDoc(ctx context.Context, key string, out any) bool {
	raw, err := s.docs.Get(ctx, key)
	if err != nil {
		s.logger.Warn("read document", "key", key, "err", err)
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("decode document", "key", key, "err", err)
		return false
	}
	return true
}

func (s *Store) putDoc(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("encode document", "key", key, "err", err)
		return
	}
	if err := s.docs.Put(ctx, key, raw); err != nil {
		s.logger.Warn("write document", "key", key, "err", err)
	}
}

// CheckIn records a daily check-in. Consecutive days grow the streak, a gap
// resets it to 1, and a second check-in on the same day changes nothing
// (returned bool is false).
func (s *Store) CheckIn(ctx context.Context, userID string) (models.Checkin, bool) {
	var c models.Checkin
	s.getDoc(ctx, checkinPrefix+userID, &c)

	now := s.clock()
	today := now.Format("2006-01-02")
	if c.LastDate == today {
		return c, false
	}

	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	if c.LastDate == yesterday {
		c.Streak++
	} else {
		c.Streak = 1
	}
	c.LastDate = today
	s.putDoc(ctx, checkinPrefix+userID, c)
	return c, true
}

// Availability reads a user's toggle, reporting it off once expired.
func (s *Store) Availability(ctx context.Context, userID string) models.Availability {
	var a models.Availability
	if !s.getDoc(ctx, availPrefix+userID, &a) {
		return models.Availability{}
	}
	if a.On && s.clock().UTC().UnixMilli()-a.TS > availabilityTTL.Milliseconds() {
		return models.Availability{}
	}
	return a
}

func (s *Store) SetAvailability(ctx context.Context, userID string, on bool, note string) models.Availability {
	a := models.Availability{On: on, Note: strings.TrimSpace(note), TS: s.clock().UTC().UnixMilli()}
	s.putDoc(ctx, availPrefix+userID, a)
	return a
}

// SweepAvailability deletes expired toggles; reads already treat them as
// off, the sweep just reclaims the rows.
func (s *Store) SweepAvailability(ctx context.Context) {
	docs, err := s.docs.List(ctx, availPrefix)
	if err != nil {
		s.logger.Warn("list availability", "err", err)
		return
	}
	cutoff := s.clock().UTC().UnixMilli() - availabilityTTL.Milliseconds()
	for key, raw := range docs {
		var a models.Availability
		if err := json.Unmarshal(raw, &a); err != nil || a.TS < cutoff {
			if err := s.docs.Delete(ctx, key); err != nil {
				s.logger.Warn("delete availability", "key", key, "err", err)
			}
		}
	}
}

// ClaimOnboarding marks onboarding complete once; later claims return false.
func (s *Store) ClaimOnboarding(ctx context.Context, userID string) bool {
	var done bool
	if s.getDoc(ctx, onboardPrefix+userID, &done) && done {
		return false
	}
	s.putDoc(ctx, onboardPrefix+userID, true)
	return true
}

// SaveBlocks persists a user's block list.
func (s *Store) SaveBlocks(ctx context.Context, userID string, blocked []string) {
	s.putDoc(ctx, blocksPrefix+userID, blocked)
}

// LoadBlocks returns every user's block list, keyed by user id.
func (s *Store) LoadBlocks(ctx context.Context) map[string][]string {
	docs, err := s.docs.List(ctx, blocksPrefix)
	if err != nil {
		s.logger.Warn("list blocks", "err", err)
		return nil
	}
	out := make(map[string][]string, len(docs))
	for key, raw := range docs {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			continue
		}
		out[strings.TrimPrefix(key, blocksPrefix)] = ids
	}
	return out
}

// AppendReport adds a moderation report to the append-only list.
func (s *Store) AppendReport(ctx context.Context, r models.Report) models.Report {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.TS == 0 {
		r.TS = s.clock().UTC().UnixMilli()
	}

	var all []models.Report
	s.getDoc(ctx, reportsKey, &all)
	all = append(all, r)
	s.putDoc(ctx, reportsKey, all)
	return r
}

// ClaimReferral marks the one-time (referrer, referee) bonus as granted.
// Returns false when the pair has already claimed it.
func (s *Store) ClaimReferral(ctx context.Context, referrerID, refereeID string) bool {
	key := refPrefix + referrerID + ":" + refereeID
	var done bool
	if s.getDoc(ctx, key, &done) && done {
		return false
	}
	s.putDoc(ctx, key, true)
	return true
}
