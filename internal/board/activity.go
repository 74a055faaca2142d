package board

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/garnizeh/neighborly/pkg/models"
)

// push appends an event to the log, filling in id, timestamp, and a default
// audience of just the actor. Events are immutable once stored. Callers hold
// the lock.
func (b *Board) push(e models.ActivityEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.TS == 0 {
		e.TS = b.nowMillis()
	}
	if len(e.AudienceIDs) == 0 {
		e.AudienceIDs = []string{e.ActorID}
	}
	b.activity = append(b.activity, e)
}

// PushEvent records an external event (referral bonus, check-in milestone)
// with the same defaulting rules as internal ones.
func (b *Board) PushEvent(e models.ActivityEvent) {
	b.mu.Lock()
	b.push(e)
	b.mu.Unlock()
	b.markDirty()
}

// ActivityFor returns the events addressed to a viewer, most recent first.
func (b *Board) ActivityFor(viewerID string) []models.ActivityEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []models.ActivityEvent
	for i := len(b.activity) - 1; i >= 0; i-- {
		e := b.activity[i]
		if contains(e.AudienceIDs, viewerID) {
			out = append(out, e)
		}
	}
	return out
}

// RenderActivity phrases an event for a viewer. Each event type has three
// voices: the actor's own, the named counterpart's, and a bystander's.
func (b *Board) RenderActivity(e models.ActivityEvent, viewerID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	actor := b.userName(e.ActorID)
	other := b.userName(e.OtherUserID)
	owner := b.userName(e.PostOwnerID)
	title := "a post"
	if p, ok := b.posts[e.PostID]; ok {
		title = fmt.Sprintf("%q", p.Title)
	}

	isActor := viewerID == e.ActorID

	switch e.Type {
	case "post_created":
		if isActor {
			return fmt.Sprintf("You posted %s.", title)
		}
		return fmt.Sprintf("%s posted %s.", actor, title)

	case "reply_sent":
		switch {
		case isActor:
			return fmt.Sprintf("You replied to %s.", title)
		case viewerID == e.PostOwnerID:
			return fmt.Sprintf("%s replied to your post %s.", actor, title)
		default:
			return fmt.Sprintf("%s replied to %s's post %s.", actor, owner, title)
		}

	case "chat_unlocked":
		switch {
		case isActor:
			return fmt.Sprintf("You can now chat with %s about %s.", other, title)
		case viewerID == e.OtherUserID:
			return fmt.Sprintf("%s opened a chat with you about %s.", actor, title)
		default:
			return fmt.Sprintf("%s and %s can now chat about %s.", actor, other, title)
		}

	case "chat_message":
		switch {
		case isActor:
			return fmt.Sprintf("You messaged %s about %s.", other, title)
		case viewerID == e.OtherUserID:
			return fmt.Sprintf("%s sent you a message about %s.", actor, title)
		default:
			return fmt.Sprintf("%s messaged %s about %s.", actor, other, title)
		}

	case "post_status":
		switch {
		case isActor:
			return fmt.Sprintf("You updated the status of %s.", title)
		case viewerID == e.PostOwnerID:
			return fmt.Sprintf("%s updated the status of your post %s.", actor, title)
		default:
			return fmt.Sprintf("%s updated the status of %s.", actor, title)
		}

	case "help_confirmed":
		switch {
		case isActor:
			return fmt.Sprintf("You confirmed %s. Your helpers earned %d points each.", title, helpAward)
		case viewerID == e.PostOwnerID:
			return fmt.Sprintf("%s confirmed your post %s.", actor, title)
		default:
			return fmt.Sprintf("%s confirmed %s. Helpers earned %d points each.", actor, title, helpAward)
		}

	case "referral_bonus":
		switch {
		case isActor:
			return fmt.Sprintf("You earned a bonus for inviting %s.", other)
		case viewerID == e.OtherUserID:
			return fmt.Sprintf("%s earned a bonus for inviting you.", actor)
		default:
			return fmt.Sprintf("%s earned an invite bonus.", actor)
		}
	}

	if isActor {
		return "You did something."
	}
	return fmt.Sprintf("%s did something.", actor)
}
