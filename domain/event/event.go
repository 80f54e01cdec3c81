// Package event defines the change notifications published after every feed mutation.
// Each event names the scopes whose rendered feed it invalidates.
package event

import (
	"chat-feed/domain"
	"time"
)

type DomainEvent interface {
	Scopes() []domain.Scope
}

type MessageCreated struct {
	Message domain.Message
	At      time.Time
}

func (e MessageCreated) Scopes() []domain.Scope {
	return affected(e.Message)
}

type MessageUpdated struct {
	Message domain.Message
	At      time.Time
}

func (e MessageUpdated) Scopes() []domain.Scope {
	return []domain.Scope{e.Message.FeedScope()}
}

type MessageDeleted struct {
	Message domain.Message
	At      time.Time
}

// Scopes includes the thread of a deleted root, whose view loses its parent.
func (e MessageDeleted) Scopes() []domain.Scope {
	scopes := affected(e.Message)
	if !e.Message.IsReply() {
		scopes = append(scopes, domain.ThreadScope(e.Message.ID))
	}
	return scopes
}

type ReactionToggled struct {
	Message  domain.Message
	MemberID string
	Value    string
	Added    bool
	At       time.Time
}

func (e ReactionToggled) Scopes() []domain.Scope {
	return []domain.Scope{e.Message.FeedScope()}
}

// affected adds the parent feed of a reply: its thread summary changes with the reply count.
func affected(m domain.Message) []domain.Scope {
	scopes := []domain.Scope{m.FeedScope()}
	if parent, ok := m.ParentScope(); ok {
		if _, err := parent.Kind(); err == nil {
			scopes = append(scopes, parent)
		}
	}
	return scopes
}
