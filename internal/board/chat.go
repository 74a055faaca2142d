package board

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/neighborly/pkg/models"
)

// ChatKey canonicalizes a thread identity: the post id plus the sorted user
// pair, so either participant resolves the same thread.
func ChatKey(postID, a, b string) string {
	if a > b {
		a, b = b, a
	}
	return postID + "|" + a + "|" + b
}

// CanOpenChat decides whether two users may exchange messages about a post.
// Pure function of post state: help posts authorize the owner with each
// currently-selected helper (never helper-to-helper); recommendation posts
// authorize the owner with the top-pick author only when the post opted in
// and the pick is still visible. Everything else is unauthorized.
//
// The check guards both reads and writes, so deselecting a helper
// retroactively seals the pairing's history without deleting it.
func (b *Board) CanOpenChat(postID, viewerID, counterpartID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canOpenChatLocked(postID, viewerID, counterpartID)
}

func (b *Board) canOpenChatLocked(postID, viewerID, counterpartID string) bool {
	if viewerID == counterpartID {
		return false
	}
	p, ok := b.posts[postID]
	if !ok {
		return false
	}

	switch p.Kind {
	case models.PostHelp:
		if p.Help == nil {
			return false
		}
		if viewerID == p.OwnerID {
			return contains(p.Help.SelectedUserIDs, counterpartID)
		}
		if counterpartID == p.OwnerID {
			return contains(p.Help.SelectedUserIDs, viewerID)
		}
		return false

	case models.PostRec:
		if p.Rec == nil || !p.Rec.AllowChatAfterTopPick || p.Rec.TopPickReplyID == "" {
			return false
		}
		idx := replyIndex(p, p.Rec.TopPickReplyID)
		if idx < 0 || p.Replies[idx].Hidden {
			return false
		}
		author := p.Replies[idx].AuthorID
		return (viewerID == p.OwnerID && counterpartID == author) ||
			(viewerID == author && counterpartID == p.OwnerID)
	}

	return false
}

// SendMessage appends a message to the thread if the gate allows the
// pairing. Gate failures are silent no-ops.
func (b *Board) SendMessage(postID, fromID, toID, text string) (*models.ChatMessage, *Rejection) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, reject(EmptyText, "write something first")
	}

	b.mu.Lock()
	if !b.canOpenChatLocked(postID, fromID, toID) {
		b.mu.Unlock()
		return nil, nil
	}

	msg := models.ChatMessage{
		ID:     uuid.NewString(),
		FromID: fromID,
		Text:   maskPhones(trimmed),
		TS:     b.nowMillis(),
	}
	key := ChatKey(postID, fromID, toID)
	b.chats[key] = append(b.chats[key], msg)

	p := b.posts[postID]
	b.push(models.ActivityEvent{
		Type:        "chat_message",
		ActorID:     fromID,
		PostID:      postID,
		PostOwnerID: p.OwnerID,
		OtherUserID: toID,
		AudienceIDs: audience(fromID, toID),
	})
	b.mu.Unlock()
	b.markDirty()

	return &msg, nil
}

// Messages returns the thread history, or nil when the gate denies the
// pairing. Message rows may well exist for a no-longer-authorized pair.
func (b *Board) Messages(postID, viewerID, counterpartID string) []models.ChatMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.canOpenChatLocked(postID, viewerID, counterpartID) {
		return nil
	}
	key := ChatKey(postID, viewerID, counterpartID)
	return append([]models.ChatMessage(nil), b.chats[key]...)
}

// MarkRead records the viewer's read position for a thread.
func (b *Board) MarkRead(postID, viewerID, counterpartID string) {
	b.mu.Lock()
	if b.canOpenChatLocked(postID, viewerID, counterpartID) {
		key := ChatKey(postID, viewerID, counterpartID)
		b.lastRead[key+"|"+viewerID] = b.nowMillis()
	}
	b.mu.Unlock()
	b.markDirty()
}

// UnreadCount counts messages after the viewer's read position, excluding
// the viewer's own. Zero when the gate denies access.
func (b *Board) UnreadCount(postID, viewerID, counterpartID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.canOpenChatLocked(postID, viewerID, counterpartID) {
		return 0
	}
	key := ChatKey(postID, viewerID, counterpartID)
	since := b.lastRead[key+"|"+viewerID]
	n := 0
	for _, m := range b.chats[key] {
		if m.TS > since && m.FromID != viewerID {
			n++
		}
	}
	return n
}

// ChatSummary describes one reachable thread from a viewer's perspective.
type ChatSummary struct {
	PostID        string `json:"postId"`
	PostTitle     string `json:"postTitle"`
	CounterpartID string `json:"counterpartId"`
	LastTS        int64  `json:"lastTs"`
	Unread        int    `json:"unread"`
}

// ChatsFor lists the viewer's currently-authorized threads, most recent
// first. Threads whose gating has lapsed are omitted, not deleted.
func (b *Board) ChatsFor(viewerID string) []ChatSummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []ChatSummary
	for key, msgs := range b.chats {
		parts := strings.SplitN(key, "|", 3)
		if len(parts) != 3 {
			continue
		}
		postID, ua, ub := parts[0], parts[1], parts[2]
		var other string
		switch viewerID {
		case ua:
			other = ub
		case ub:
			other = ua
		default:
			continue
		}
		if !b.canOpenChatLocked(postID, viewerID, other) {
			continue
		}

		s := ChatSummary{PostID: postID, CounterpartID: other}
		if p, ok := b.posts[postID]; ok {
			s.PostTitle = p.Title
		}
		if len(msgs) > 0 {
			s.LastTS = msgs[len(msgs)-1].TS
		}
		since := b.lastRead[key+"|"+viewerID]
		for _, m := range msgs {
			if m.TS > since && m.FromID != viewerID {
				s.Unread++
			}
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].LastTS > out[j].LastTS })
	return out
}
