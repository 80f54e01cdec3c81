// Package domain contains core concepts of the chat system.
// This file defines Message records and the scopes a feed is read from.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"fmt"
	"time"
)

// Message represents one chat post as stored.
// Body holds the serialized rich-text document, Image an attachment storage reference.
type Message struct {
	ID              string
	Body            string
	Image           *string
	WorkspaceID     string
	ChannelID       *string
	ConversationID  *string
	ParentMessageID *string
	MemberID        string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// IsReply reports whether the message belongs to a thread.
func (m Message) IsReply() bool {
	return m.ParentMessageID != nil
}

// Edited reports whether the message body was changed after creation.
func (m Message) Edited() bool {
	return m.UpdatedAt != nil
}

type ScopeKind string

const (
	ScopeChannel      ScopeKind = "channel"
	ScopeConversation ScopeKind = "conversation"
	ScopeThread       ScopeKind = "thread"
)

// Scope selects exactly one feed: a channel, a conversation, or the thread under a parent message.
// A thread scope may also carry the channel or conversation of its parent.
type Scope struct {
	ChannelID       *string
	ConversationID  *string
	ParentMessageID *string
}

func ChannelScope(channelID string) Scope {
	return Scope{ChannelID: &channelID}
}

func ConversationScope(conversationID string) Scope {
	return Scope{ConversationID: &conversationID}
}

func ThreadScope(parentMessageID string) Scope {
	return Scope{ParentMessageID: &parentMessageID}
}

// Kind returns the feed the scope selects.
// A scope naming both a channel and a conversation, or nothing at all, is invalid.
func (s Scope) Kind() (ScopeKind, error) {
	hasChannel := s.ChannelID != nil && *s.ChannelID != ""
	hasConversation := s.ConversationID != nil && *s.ConversationID != ""
	switch {
	case hasChannel && hasConversation:
		return "", fmt.Errorf("scope names both channel %s and conversation %s", *s.ChannelID, *s.ConversationID)
	case s.ParentMessageID != nil && *s.ParentMessageID != "":
		return ScopeThread, nil
	case hasChannel:
		return ScopeChannel, nil
	case hasConversation:
		return ScopeConversation, nil
	default:
		return "", fmt.Errorf("scope names no channel, conversation or parent message")
	}
}

// Key returns a stable identifier of the feed, used for storage indexes and subscriptions.
// Thread scopes are keyed by their parent only.
func (s Scope) Key() string {
	kind, err := s.Kind()
	if err != nil {
		return ""
	}
	switch kind {
	case ScopeThread:
		return "th:" + *s.ParentMessageID
	case ScopeChannel:
		return "ch:" + *s.ChannelID
	default:
		return "cv:" + *s.ConversationID
	}
}

// FeedScope returns the scope a stored message is listed under.
func (m Message) FeedScope() Scope {
	if m.ParentMessageID != nil {
		return Scope{ParentMessageID: m.ParentMessageID, ChannelID: m.ChannelID, ConversationID: m.ConversationID}
	}
	return Scope{ChannelID: m.ChannelID, ConversationID: m.ConversationID}
}

// ParentScope returns the scope of the parent of a reply, where its thread summary is shown.
func (m Message) ParentScope() (Scope, bool) {
	if m.ParentMessageID == nil {
		return Scope{}, false
	}
	return Scope{ChannelID: m.ChannelID, ConversationID: m.ConversationID}, true
}
