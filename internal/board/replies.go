package board

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/neighborly/pkg/models"
)

const (
	minReplyLen          = 8
	minVolunteerReplyLen = 4

	// Recommendation replies are rate limited per user per day.
	replyCooldownSeconds = 25
	replyDailyLimit      = 12
)

// phonePattern matches common 10-digit US phone formats. The masked form
// carries only the last four digits, so masking is idempotent.
var phonePattern = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?(\d{4})`)

// maskPhones rewrites phone numbers to keep only the last four digits.
func maskPhones(text string) string {
	return phonePattern.ReplaceAllString(text, `***-***-$1`)
}

func hasLink(text string) bool {
	s := strings.ToLower(text)
	return strings.Contains(s, "http://") || strings.Contains(s, "https://") || strings.Contains(s, "www.")
}

func statKey(userID string, kind models.PostKind) string {
	return userID + "|" + string(kind)
}

// SubmitReply validates and appends a reply. Checks run in a fixed order and
// the first failure wins; nothing is mutated on failure.
func (b *Board) SubmitReply(postID, authorID string, mode models.ReplyType, text string) (models.Reply, *Rejection) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Reply{}, reject(EmptyText, "write something first")
	}

	minLen := minReplyLen
	if mode == models.ReplyVolunteer {
		minLen = minVolunteerReplyLen
	}
	if len(trimmed) < minLen {
		return models.Reply{}, reject(TooShort, fmt.Sprintf("replies need at least %d characters", minLen))
	}

	if hasLink(trimmed) {
		return models.Reply{}, reject(LinksNotSupported, "links aren't supported in replies")
	}

	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok {
		b.mu.Unlock()
		return models.Reply{}, reject(PostNotFound, "that post is gone")
	}

	now := b.now()
	isRec := p.Kind == models.PostRec
	key := statKey(authorID, p.Kind)
	stat := b.replyStats[key]
	if isRec {
		today := now.Format("2006-01-02")
		if stat.Day != today {
			stat = models.ReplyStat{Day: today}
		}
		if stat.LastTS > 0 {
			elapsed := now.UTC().UnixMilli() - stat.LastTS
			if elapsed < replyCooldownSeconds*1000 {
				wait := (replyCooldownSeconds*1000 - elapsed + 999) / 1000
				b.mu.Unlock()
				return models.Reply{}, reject(Cooldown, fmt.Sprintf("hang on %d more seconds before replying again", wait))
			}
		}
		if stat.Count >= replyDailyLimit {
			b.mu.Unlock()
			return models.Reply{}, reject(DailyLimitReached, "you've hit today's reply limit, try again tomorrow")
		}
	}

	masked := maskPhones(trimmed)
	normalized := strings.ToLower(masked)
	for _, r := range p.Replies {
		if r.AuthorID == authorID && strings.ToLower(strings.TrimSpace(r.Text)) == normalized {
			b.mu.Unlock()
			return models.Reply{}, reject(DuplicateReply, "you already said that on this post")
		}
	}

	// The bucket only counts replies that actually land.
	if isRec {
		stat.Count++
		stat.LastTS = now.UTC().UnixMilli()
		b.replyStats[key] = stat
	}

	reply := models.Reply{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Text:      masked,
		Type:      mode,
		CreatedAt: now.UTC().UnixMilli(),
	}
	if p.Kind == models.PostHelp && mode == models.ReplyVolunteer {
		reply.HelperStatus = models.HelperOffered
	}

	cp := clonePost(p)
	cp.Replies = append(cp.Replies, reply)
	b.updatePost(cp)

	b.push(models.ActivityEvent{
		Type:        "reply_sent",
		ActorID:     authorID,
		PostID:      postID,
		PostOwnerID: p.OwnerID,
		AudienceIDs: audience(authorID, p.OwnerID),
	})
	b.mu.Unlock()
	b.markDirty()

	return reply, nil
}

// AddComment appends a comment to a recommendation reply. Open to any viewer
// the post owner hasn't blocked; everything else is a silent no-op.
func (b *Board) AddComment(postID, replyID, authorID, text string) (*models.Comment, *Rejection) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, reject(EmptyText, "write something first")
	}

	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Kind != models.PostRec || b.blocks[p.OwnerID][authorID] {
		b.mu.Unlock()
		return nil, nil
	}
	idx := replyIndex(p, replyID)
	if idx < 0 {
		b.mu.Unlock()
		return nil, nil
	}

	c := models.Comment{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Text:      maskPhones(trimmed),
		CreatedAt: b.nowMillis(),
	}
	cp := clonePost(p)
	cp.Replies[idx].Comments = append(cp.Replies[idx].Comments, c)
	b.updatePost(cp)
	b.mu.Unlock()
	b.markDirty()

	return &c, nil
}

// ToggleHeart flips the author's heart on a recommendation reply.
func (b *Board) ToggleHeart(postID, replyID, userID string) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Kind != models.PostRec || b.blocks[p.OwnerID][userID] {
		b.mu.Unlock()
		return
	}
	idx := replyIndex(p, replyID)
	if idx < 0 {
		b.mu.Unlock()
		return
	}

	cp := clonePost(p)
	if contains(cp.Replies[idx].Hearts, userID) {
		cp.Replies[idx].Hearts = remove(cp.Replies[idx].Hearts, userID)
	} else {
		cp.Replies[idx].Hearts = append(cp.Replies[idx].Hearts, userID)
	}
	b.updatePost(cp)
	b.mu.Unlock()
	b.markDirty()
}

// MarkHelpful flags a recommendation reply as helpful; owner-only.
func (b *Board) MarkHelpful(postID, replyID, actorID string) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Kind != models.PostRec || p.OwnerID != actorID {
		b.mu.Unlock()
		return
	}
	idx := replyIndex(p, replyID)
	if idx < 0 {
		b.mu.Unlock()
		return
	}

	cp := clonePost(p)
	cp.Replies[idx].Helpful = true
	b.updatePost(cp)
	b.mu.Unlock()
	b.markDirty()
}

// SetTopPick designates the owner's chosen reply on a recommendation post.
// Any prior pick is cleared. Chat only unlocks when the post allows it.
func (b *Board) SetTopPick(postID, replyID, actorID string) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Kind != models.PostRec || p.OwnerID != actorID {
		b.mu.Unlock()
		return
	}
	idx := replyIndex(p, replyID)
	if idx < 0 || p.Replies[idx].Hidden {
		b.mu.Unlock()
		return
	}

	cp := clonePost(p)
	for i := range cp.Replies {
		cp.Replies[i].TopPick = false
	}
	cp.Replies[idx].TopPick = true
	cp.Rec.TopPickReplyID = replyID
	b.updatePost(cp)

	if cp.Rec.AllowChatAfterTopPick {
		b.push(models.ActivityEvent{
			Type:        "chat_unlocked",
			ActorID:     actorID,
			PostID:      postID,
			PostOwnerID: p.OwnerID,
			OtherUserID: cp.Replies[idx].AuthorID,
			AudienceIDs: audience(actorID, cp.Replies[idx].AuthorID),
		})
	}
	b.mu.Unlock()
	b.markDirty()
}

// HideReply sets the moderation flag on a reply; owner-only, local-only.
// Hiding the current top pick also clears the pick, keeping the invariant
// that a top pick always references a visible reply.
func (b *Board) HideReply(postID, replyID, actorID string) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.OwnerID != actorID {
		b.mu.Unlock()
		return
	}
	idx := replyIndex(p, replyID)
	if idx < 0 {
		b.mu.Unlock()
		return
	}

	cp := clonePost(p)
	cp.Replies[idx].Hidden = true
	if cp.Rec != nil && cp.Rec.TopPickReplyID == replyID {
		cp.Rec.TopPickReplyID = ""
		cp.Replies[idx].TopPick = false
	}
	b.updatePost(cp)
	b.mu.Unlock()
	b.markDirty()
}

func replyIndex(p models.Post, replyID string) int {
	for i, r := range p.Replies {
		if r.ID == replyID {
			return i
		}
	}
	return -1
}

// audience builds a de-duplicated audience set.
func audience(ids ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
