package domain

import "time"

// ThreadSummary aggregates the direct replies of a message.
// The zero value describes a message without replies.
type ThreadSummary struct {
	Count     int
	Image     *string
	Timestamp time.Time
	Name      string
}

// EnrichedMessage is a message joined with everything needed to render it.
type EnrichedMessage struct {
	Message
	Author    Author
	ImageURL  *string
	Reactions []ReactionGroup
	Thread    ThreadSummary
}

// AuthorUserID identifies who wrote the message across memberships.
func (m EnrichedMessage) AuthorUserID() string {
	return m.Author.User.ID
}

// Page is one slice of a backward-paginated feed, newest message first.
type Page[T any] struct {
	Items      []T
	NextCursor *string
	HasMore    bool
}
