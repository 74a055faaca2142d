package models

// Domain models for the neighborhood board. Timestamps are Unix milliseconds
// unless a field says otherwise.

// User is read-only reference data; the core never mutates it.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	Avatar   string `json:"avatar,omitempty"`
	Location string `json:"location,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
}

type PostKind string

const (
	PostHelp PostKind = "help"
	PostRec  PostKind = "rec"
)

type PostStatus string

const (
	StatusOpen     PostStatus = "open"
	StatusResolved PostStatus = "resolved"
)

// HelpStage is the global lifecycle stage of a help post, forward order:
// open -> booked -> started -> done -> confirmed.
type HelpStage string

const (
	StageOpen      HelpStage = "open"
	StageBooked    HelpStage = "booked"
	StageStarted   HelpStage = "started"
	StageDone      HelpStage = "done"
	StageConfirmed HelpStage = "confirmed"
)

// HelperStatus tracks a selected helper's own progress, recorded on their reply.
type HelperStatus string

const (
	HelperOffered HelperStatus = "offered"
	HelperStarted HelperStatus = "started"
	HelperDone    HelperStatus = "done"
)

type ReplyType string

const (
	ReplySuggestion ReplyType = "suggestion"
	ReplyLead       ReplyType = "lead"
	ReplyVolunteer  ReplyType = "volunteer"
)

// Post is a request thread. Exactly one of Help/Rec is set, matching Kind.
type Post struct {
	ID        string     `json:"id"`
	Kind      PostKind   `json:"kind"`
	OwnerID   string     `json:"ownerId"`
	Title     string     `json:"title"`
	Details   string     `json:"details,omitempty"`
	Area      string     `json:"area,omitempty"`
	TownKey   string     `json:"townKey,omitempty"`
	Status    PostStatus `json:"status"`
	CreatedAt int64      `json:"createdAt"`
	Replies   []Reply    `json:"replies"`

	Help *HelpFields `json:"help,omitempty"`
	Rec  *RecFields  `json:"rec,omitempty"`
}

type HelpFields struct {
	HelpersNeeded           int       `json:"helpersNeeded"`
	SelectedUserIDs         []string  `json:"selectedUserIds"`
	Stage                   HelpStage `json:"stage"`
	TimeWindow              string    `json:"timeWindow,omitempty"`
	CompletionPhoto         string    `json:"completionPhoto,omitempty"`
	CompletionPhotoApproved bool      `json:"completionPhotoApproved,omitempty"`
}

type RecFields struct {
	Category              string   `json:"recCategory,omitempty"`
	PrefTags              []string `json:"prefTags,omitempty"`
	AllowChatAfterTopPick bool     `json:"allowChatAfterTopPick"`
	TopPickReplyID        string   `json:"topPickReplyId,omitempty"`
}

type Reply struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	Type      ReplyType `json:"type"`
	CreatedAt int64     `json:"createdAt"`
	Hearts    []string  `json:"hearts,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
	Helpful   bool      `json:"helpful,omitempty"`
	TopPick   bool      `json:"topPick,omitempty"`
	Hidden    bool      `json:"hidden,omitempty"`

	// Help posts only; owned by the reply's author.
	HelperStatus HelperStatus `json:"helperStatus,omitempty"`
}

type Comment struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// ActivityEvent is an immutable notification record. AudienceIDs decides
// per-viewer visibility and is never empty once stored.
type ActivityEvent struct {
	ID          string   `json:"id"`
	TS          int64    `json:"ts"`
	Type        string   `json:"type"`
	ActorID     string   `json:"actorId"`
	PostID      string   `json:"postId,omitempty"`
	PostOwnerID string   `json:"postOwnerId,omitempty"`
	OtherUserID string   `json:"otherUserId,omitempty"`
	AudienceIDs []string `json:"audienceIds"`
}

type ChatMessage struct {
	ID     string `json:"id"`
	FromID string `json:"fromId"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

type SavedSearch struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Query       string `json:"query"`
	HomeChip    string `json:"homeChip"`
	HomeShowAll bool   `json:"homeShowAll"`
	LastSeenTS  int64  `json:"lastSeenTs"`
	CreatedAt   int64  `json:"createdAt"`
}

// ReplyStat is a per-(user, post-kind) rate-limit bucket. Day is the local
// calendar date in YYYY-MM-DD; the bucket resets when the day changes.
type ReplyStat struct {
	Day    string `json:"day"`
	Count  int    `json:"count"`
	LastTS int64  `json:"lastTs"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SnapshotVersion gates persisted state; any other version is treated as
// "no saved state" and the seed state is used instead.
const SnapshotVersion = 6

// Snapshot is the single versioned document the whole board state persists to.
// Field names match the stored JSON and must stay stable across releases.
type Snapshot struct {
	Version             int                      `json:"version"`
	Posts               []Post                   `json:"posts"`
	Activity            []ActivityEvent          `json:"activity"`
	NPPointsByUser      map[string]int           `json:"npPointsByUser"`
	ReplyStats          map[string]ReplyStat     `json:"replyStats"`
	HomeCenters         map[string]GeoPoint      `json:"homeCenters,omitempty"`
	RadiusByUser        map[string]string        `json:"radiusByUser,omitempty"`
	Chats               map[string][]ChatMessage `json:"chats"`
	LastRead            map[string]int64         `json:"lastRead,omitempty"`
	ActiveTab           string                   `json:"activeTab,omitempty"`
	HomeChip            string                   `json:"homeChip,omitempty"`
	HomeShowAll         bool                     `json:"homeShowAll,omitempty"`
	HomeQuery           string                   `json:"homeQuery,omitempty"`
	ExpandedThreads     []string                 `json:"expandedThreads,omitempty"`
	ExpandedOtherVols   []string                 `json:"expandedOtherVols,omitempty"`
	HomeFollowOnly      bool                     `json:"homeFollowOnly,omitempty"`
	FollowsByUser       map[string][]string      `json:"followsByUser,omitempty"`
	SavedSearches       []SavedSearch            `json:"savedSearches,omitempty"`
	ActiveSavedSearchID string                   `json:"activeSavedSearchId,omitempty"`
}

// Checkin is the per-user daily check-in streak document.
type Checkin struct {
	LastDate string `json:"lastDate"`
	Streak   int    `json:"streak"`
}

// Availability is the per-user "I'm around" toggle; it auto-expires two hours
// after TS.
type Availability struct {
	On   bool   `json:"on"`
	Note string `json:"note,omitempty"`
	TS   int64  `json:"ts"`
}

type Report struct {
	ID         string `json:"id"`
	ReporterID string `json:"reporterId"`
	PostID     string `json:"postId,omitempty"`
	ReplyID    string `json:"replyId,omitempty"`
	Reason     string `json:"reason"`
	TS         int64  `json:"ts"`
}
