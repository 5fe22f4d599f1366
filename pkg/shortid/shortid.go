package shortid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// WorkUUIDLength is the length of the public URL identifier of a work.
	WorkUUIDLength = 8

	// ChannelIDLength is the length of channel identifiers. Channels only
	// need uniqueness within one work's channel list, so 6 characters is
	// plenty.
	ChannelIDLength = 6
)

// NewWorkUUID returns a fresh URL-safe identifier for a work.
func NewWorkUUID() (string, error) {
	return gonanoid.New(WorkUUIDLength)
}

// NewChannelID returns a fresh identifier for a channel.
func NewChannelID() (string, error) {
	return gonanoid.New(ChannelIDLength)
}
