package board

// ErrorKind discriminates user-facing rejections. Every rejection is local
// and recoverable: the attempted action is discarded without mutating state.
type ErrorKind string

const (
	EmptyText         ErrorKind = "empty_text"
	TooShort          ErrorKind = "too_short"
	LinksNotSupported ErrorKind = "links_not_supported"
	PostNotFound      ErrorKind = "post_not_found"
	Cooldown          ErrorKind = "cooldown"
	DailyLimitReached ErrorKind = "daily_limit_reached"
	DuplicateReply    ErrorKind = "duplicate_reply"
	InvalidKind       ErrorKind = "invalid_kind"
	HelperLimit       ErrorKind = "helper_limit"
	StageNotDone      ErrorKind = "stage_not_done"
	PhotoPending      ErrorKind = "photo_pending"
	SearchExists      ErrorKind = "search_exists"
	SearchLimit       ErrorKind = "search_limit"
)

// Rejection is the discriminated failure result returned to callers for
// display. Authorization denials and not-found lookups deliberately do not
// produce one; those are silent no-ops per the error policy.
type Rejection struct {
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message"`
}

func (r *Rejection) Error() string { return string(r.Kind) + ": " + r.Message }

func reject(kind ErrorKind, msg string) *Rejection {
	return &Rejection{Kind: kind, Message: msg}
}
