package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a work.
//
// Transitions are one-way: Initial -> Published (publish), any non-deleted
// state -> Deleted (soft delete). Declined is set by back-office tooling,
// never through this API.
type Status int

const (
	StatusDeleted   Status = 0
	StatusInitial   Status = 1
	StatusPublished Status = 2
	StatusDeclined  Status = 3
)

func (s Status) Valid() bool {
	switch s {
	case StatusDeleted, StatusInitial, StatusPublished, StatusDeclined:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusDeleted:
		return "deleted"
	case StatusInitial:
		return "initial"
	case StatusPublished:
		return "published"
	case StatusDeclined:
		return "declined"
	}
	return "unknown"
}

// Channel is a uniquely-named attribution tag embedded in a work.
// Its id only needs to be unique within the owning work's channel list.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Work is a user-authored page.
type Work struct {
	// ID is the stable external identifier, assigned monotonically at
	// creation. UUID is the opaque token used in the public render URL.
	ID   int64  `json:"id"`
	UUID string `json:"uuid"`

	Title    string          `json:"title"`
	Desc     string          `json:"desc"`
	CoverImg string          `json:"coverImg"`
	Content  json.RawMessage `json:"content,omitempty"` // page definition, not interpreted here

	IsTemplate bool `json:"isTemplate"`
	IsPublic   bool `json:"isPublic"`
	IsHot      bool `json:"isHot"`

	// UserID is the owner, immutable after creation. Author is the owner's
	// username denormalized at creation time; it may go stale if the owner
	// renames, which is accepted.
	UserID uuid.UUID `json:"userId"`
	Author string    `json:"author"`

	CopiedCount     int        `json:"copiedCount"`
	Status          Status     `json:"status"`
	LatestPublishAt *time.Time `json:"latestPublishAt,omitempty"`

	Channels []Channel `json:"channels"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasChannelName reports whether any channel carries the given name.
// Name comparison is case-sensitive.
func (w *Work) HasChannelName(name string) bool {
	for _, ch := range w.Channels {
		if ch.Name == name {
			return true
		}
	}
	return false
}

// ChannelByID returns the channel with the given id, if present.
func (w *Work) ChannelByID(id string) (Channel, bool) {
	for _, ch := range w.Channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return Channel{}, false
}

// WorkPatch is the set of fields a plain update may touch. Nil means
// "leave unchanged". Status, ownership and counters are deliberately not
// representable here.
type WorkPatch struct {
	Title    *string
	Desc     *string
	CoverImg *string
	Content  json.RawMessage
}
