package board

import (
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/neighborly/pkg/models"
)

// clonePost deep-copies a post so stored values are never aliased by callers
// or by in-place edits.
func clonePost(p models.Post) models.Post {
	out := p
	out.Replies = make([]models.Reply, len(p.Replies))
	for i, r := range p.Replies {
		cr := r
		cr.Hearts = append([]string(nil), r.Hearts...)
		cr.Comments = append([]models.Comment(nil), r.Comments...)
		out.Replies[i] = cr
	}
	if p.Help != nil {
		h := *p.Help
		h.SelectedUserIDs = append([]string(nil), p.Help.SelectedUserIDs...)
		out.Help = &h
	}
	if p.Rec != nil {
		r := *p.Rec
		r.PrefTags = append([]string(nil), p.Rec.PrefTags...)
		out.Rec = &r
	}
	return out
}

// postsLocked returns a deep copy of all posts in insertion order. Callers
// hold the lock.
func (b *Board) postsLocked() []models.Post {
	out := make([]models.Post, 0, len(b.order))
	for _, id := range b.order {
		if p, ok := b.posts[id]; ok {
			out = append(out, clonePost(p))
		}
	}
	return out
}

// updatePost stores a fresh copy under the post id. Callers hold the lock
// and must have obtained p via clonePost (copy-on-write, never in place).
func (b *Board) updatePost(p models.Post) {
	b.posts[p.ID] = p
}

// Posts returns every post in insertion order.
func (b *Board) Posts() []models.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.postsLocked()
}

// Post looks up one post by id.
func (b *Board) Post(id string) (models.Post, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[id]
	if !ok {
		return models.Post{}, false
	}
	return clonePost(p), true
}

// PostInput is the owner-supplied part of a new post.
type PostInput struct {
	Kind    models.PostKind
	Title   string
	Details string
	Area    string
	TownKey string

	// Help posts.
	HelpersNeeded int
	TimeWindow    string

	// Recommendation posts.
	Category              string
	PrefTags              []string
	AllowChatAfterTopPick bool
}

// CreatePost adds a new request thread owned by ownerID.
func (b *Board) CreatePost(ownerID string, in PostInput) (models.Post, *Rejection) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Post{}, reject(EmptyText, "give your post a title")
	}
	if in.Kind != models.PostHelp && in.Kind != models.PostRec {
		return models.Post{}, reject(InvalidKind, "unknown post kind")
	}

	p := models.Post{
		ID:        uuid.NewString(),
		Kind:      in.Kind,
		OwnerID:   ownerID,
		Title:     title,
		Details:   strings.TrimSpace(in.Details),
		Area:      strings.TrimSpace(in.Area),
		TownKey:   in.TownKey,
		Status:    models.StatusOpen,
		CreatedAt: b.nowMillis(),
		Replies:   []models.Reply{},
	}

	switch in.Kind {
	case models.PostHelp:
		n := in.HelpersNeeded
		if n < 1 {
			n = 1
		}
		if n > 6 {
			n = 6
		}
		p.Help = &models.HelpFields{
			HelpersNeeded:   n,
			SelectedUserIDs: []string{},
			Stage:           models.StageOpen,
			TimeWindow:      strings.TrimSpace(in.TimeWindow),
		}
	case models.PostRec:
		p.Rec = &models.RecFields{
			Category:              strings.TrimSpace(in.Category),
			PrefTags:              append([]string(nil), in.PrefTags...),
			AllowChatAfterTopPick: in.AllowChatAfterTopPick,
		}
	}

	b.mu.Lock()
	b.posts[p.ID] = clonePost(p)
	b.order = append(b.order, p.ID)
	b.push(models.ActivityEvent{
		Type:        "post_created",
		ActorID:     ownerID,
		PostID:      p.ID,
		PostOwnerID: ownerID,
	})
	b.mu.Unlock()
	b.markDirty()

	return p, nil
}

// DeletePost removes a post; owner-only, silent no-op otherwise. The delete
// cascades to chats, read markers, and any expanded-thread view state
// referencing the post.
func (b *Board) DeletePost(actorID, postID string) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.OwnerID != actorID {
		b.mu.Unlock()
		return
	}

	delete(b.posts, postID)
	b.order = remove(b.order, postID)

	prefix := postID + "|"
	for key := range b.chats {
		if strings.HasPrefix(key, prefix) {
			delete(b.chats, key)
		}
	}
	for key := range b.lastRead {
		if strings.HasPrefix(key, prefix) {
			delete(b.lastRead, key)
		}
	}
	b.prefs.ExpandedThreads = remove(b.prefs.ExpandedThreads, postID)
	b.prefs.ExpandedOtherVols = remove(b.prefs.ExpandedOtherVols, postID)
	b.mu.Unlock()
	b.markDirty()
}

// AttachCompletionPhoto stores a proof-of-completion artifact on a help
// post. Only the owner or a selected helper may attach; a new photo clears
// any prior approval. Photo data stays in memory only.
func (b *Board) AttachCompletionPhoto(actorID, postID, photo string) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Help == nil {
		b.mu.Unlock()
		return
	}
	if actorID != p.OwnerID && !contains(p.Help.SelectedUserIDs, actorID) {
		b.mu.Unlock()
		return
	}
	cp := clonePost(p)
	cp.Help.CompletionPhoto = photo
	cp.Help.CompletionPhotoApproved = false
	b.updatePost(cp)
	b.mu.Unlock()
	b.markDirty()
}

// ApproveCompletionPhoto records the owner's review of the proof photo.
func (b *Board) ApproveCompletionPhoto(actorID, postID string) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Help == nil || p.OwnerID != actorID || p.Help.CompletionPhoto == "" {
		b.mu.Unlock()
		return
	}
	cp := clonePost(p)
	cp.Help.CompletionPhotoApproved = true
	b.updatePost(cp)
	b.mu.Unlock()
	b.markDirty()
}
