package board

import (
	"github.com/garnizeh/neighborly/pkg/models"
)

// helpAward is the fixed point grant per selected helper on confirmation.
const helpAward = 20

var stageRank = map[models.HelpStage]int{
	models.StageOpen:      0,
	models.StageBooked:    1,
	models.StageStarted:   2,
	models.StageDone:      3,
	models.StageConfirmed: 4,
}

var helperRank = map[models.HelperStatus]int{
	models.HelperOffered: 0,
	models.HelperStarted: 1,
	models.HelperDone:    2,
}

// stageForHelper maps the stage a helper asks for onto their own status.
var stageForHelper = map[models.HelpStage]models.HelperStatus{
	models.StageStarted: models.HelperStarted,
	models.StageDone:    models.HelperDone,
}

// ChooseHelper selects a volunteer on a help post. Owner-only; selecting an
// already-selected helper is a no-op. Selection implies the booked stage and
// unlocks chat between owner and helper.
func (b *Board) ChooseHelper(postID, actorID, helperID string) *Rejection {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Help == nil || p.OwnerID != actorID || helperID == actorID {
		b.mu.Unlock()
		return nil
	}
	if contains(p.Help.SelectedUserIDs, helperID) {
		b.mu.Unlock()
		return nil
	}
	if len(p.Help.SelectedUserIDs) >= p.Help.HelpersNeeded {
		b.mu.Unlock()
		return reject(HelperLimit, "you've already picked all the helpers you need")
	}

	cp := clonePost(p)
	cp.Help.SelectedUserIDs = append(cp.Help.SelectedUserIDs, helperID)
	if cp.Help.Stage == models.StageOpen {
		cp.Help.Stage = models.StageBooked
	}
	b.updatePost(cp)

	b.push(models.ActivityEvent{
		Type:        "chat_unlocked",
		ActorID:     actorID,
		PostID:      postID,
		PostOwnerID: p.OwnerID,
		OtherUserID: helperID,
		AudienceIDs: audience(actorID, helperID),
	})
	b.mu.Unlock()
	b.markDirty()
	return nil
}

// UnchooseHelper removes a helper from the selection. Owner-only. Chat
// history for the pairing is kept but becomes unreachable through the gate.
func (b *Board) UnchooseHelper(postID, actorID, helperID string) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Help == nil || p.OwnerID != actorID {
		b.mu.Unlock()
		return
	}
	if !contains(p.Help.SelectedUserIDs, helperID) || p.Help.Stage == models.StageConfirmed {
		b.mu.Unlock()
		return
	}

	cp := clonePost(p)
	cp.Help.SelectedUserIDs = remove(cp.Help.SelectedUserIDs, helperID)
	b.updatePost(cp)
	b.mu.Unlock()
	b.markDirty()
}

// AdvanceStage moves a help post forward. The owner sets the post's global
// stage directly (started/done only; booked is implied by selection and
// confirmation has its own flow). A selected helper instead advances the
// helperStatus on their own reply, and the post auto-promotes to done once
// every selected helper is done. Anyone else is a silent no-op.
func (b *Board) AdvanceStage(postID, actorID string, next models.HelpStage) {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Help == nil {
		b.mu.Unlock()
		return
	}

	switch {
	case actorID == p.OwnerID:
		if next != models.StageStarted && next != models.StageDone {
			b.mu.Unlock()
			return
		}
		if p.Help.Stage == models.StageConfirmed || stageRank[next] <= stageRank[p.Help.Stage] {
			b.mu.Unlock()
			return
		}
		cp := clonePost(p)
		cp.Help.Stage = next
		b.updatePost(cp)
		b.push(models.ActivityEvent{
			Type:        "post_status",
			ActorID:     actorID,
			PostID:      postID,
			PostOwnerID: p.OwnerID,
			AudienceIDs: audience(append([]string{p.OwnerID}, p.Help.SelectedUserIDs...)...),
		})

	case contains(p.Help.SelectedUserIDs, actorID):
		target, allowed := stageForHelper[next]
		if !allowed || p.Help.Stage == models.StageConfirmed {
			b.mu.Unlock()
			return
		}
		idx := -1
		for i, r := range p.Replies {
			if r.AuthorID == actorID && r.Type == models.ReplyVolunteer {
				idx = i
				break
			}
		}
		if idx < 0 {
			b.mu.Unlock()
			return
		}
		// Forward-only relative to the helper's own status floor.
		if helperRank[target] <= helperRank[p.Replies[idx].HelperStatus] {
			b.mu.Unlock()
			return
		}
		cp := clonePost(p)
		cp.Replies[idx].HelperStatus = target
		if allSelectedDone(cp) && stageRank[cp.Help.Stage] < stageRank[models.StageDone] {
			cp.Help.Stage = models.StageDone
			b.push(models.ActivityEvent{
				Type:        "post_status",
				ActorID:     actorID,
				PostID:      postID,
				PostOwnerID: p.OwnerID,
				AudienceIDs: audience(append([]string{p.OwnerID}, cp.Help.SelectedUserIDs...)...),
			})
		}
		b.updatePost(cp)

	default:
		b.mu.Unlock()
		return
	}

	b.mu.Unlock()
	b.markDirty()
}

// allSelectedDone reports whether every selected helper's reply has reached
// done. False when nobody is selected.
func allSelectedDone(p models.Post) bool {
	if p.Help == nil || len(p.Help.SelectedUserIDs) == 0 {
		return false
	}
	for _, id := range p.Help.SelectedUserIDs {
		done := false
		for _, r := range p.Replies {
			if r.AuthorID == id && r.Type == models.ReplyVolunteer && r.HelperStatus == models.HelperDone {
				done = true
				break
			}
		}
		if !done {
			return false
		}
	}
	return true
}

// ConfirmHelp is the owner's final confirmation: it awards points to every
// selected helper, confirms the stage, and resolves the post. It refuses to
// run before the post is done, and halts for review while an unapproved
// completion photo is attached.
func (b *Board) ConfirmHelp(postID, actorID string) *Rejection {
	b.mu.Lock()
	p, ok := b.posts[postID]
	if !ok || p.Help == nil || p.OwnerID != actorID {
		b.mu.Unlock()
		return nil
	}
	if p.Help.Stage == models.StageConfirmed {
		b.mu.Unlock()
		return nil
	}
	if p.Help.Stage != models.StageDone {
		b.mu.Unlock()
		return reject(StageNotDone, "wait until your helpers have marked this done")
	}
	if p.Help.CompletionPhoto != "" && !p.Help.CompletionPhotoApproved {
		b.mu.Unlock()
		return reject(PhotoPending, "review the completion photo before confirming")
	}

	cp := clonePost(p)
	for _, helperID := range cp.Help.SelectedUserIDs {
		b.awardPoints(helperID, helpAward)
	}
	cp.Help.Stage = models.StageConfirmed
	cp.Status = models.StatusResolved
	b.updatePost(cp)

	b.push(models.ActivityEvent{
		Type:        "help_confirmed",
		ActorID:     actorID,
		PostID:      postID,
		PostOwnerID: p.OwnerID,
		AudienceIDs: audience(append([]string{p.OwnerID}, cp.Help.SelectedUserIDs...)...),
	})
	b.mu.Unlock()
	b.markDirty()
	return nil
}
