package runtime

import (
	"chat-feed/domain"
	"chat-feed/domain/event"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Scope_One_Viewer(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	viewerID := uuid.NewString()
	scope := domain.ChannelScope("general")
	sink := Sink{name: "alice"}

	// Given no feed is open
	req.Empty(registry.ScopeSinks)

	// When a viewer opens a channel feed
	registry.Subscribe(viewerID, scope, sink)

	// Then
	req.Len(registry.ScopeSinks, 1)
	req.Equal(sink, registry.ScopeSinks["ch:general"][viewerID])
	req.Len(registry.GetSinksForScope(scope), 1)
	req.Contains(registry.GetSinksForScope(scope), sink)
}

func TestRegistry_Subscribe_One_Viewer_Multiple_Scopes(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	viewerID := uuid.NewString()
	channel := Sink{name: "channel"}
	thread := Sink{name: "thread"}

	// When a viewer watches a channel and one of its threads
	registry.Subscribe(viewerID, domain.ChannelScope("general"), channel)
	registry.Subscribe(viewerID, domain.ThreadScope("root"), thread)

	// Then each scope reaches its own sink
	req.Equal(2, registry.Len())
	req.Equal([]any{channel}, toAny(registry.GetSinksForScope(domain.ChannelScope("general"))))
	req.Equal([]any{thread}, toAny(registry.GetSinksForScope(domain.ThreadScope("root"))))
}

func TestRegistry_Subscribe_Replaces_Sink_Of_Same_Viewer(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	scope := domain.ConversationScope("dm")

	registry.Subscribe("alice", scope, Sink{name: "old"})
	registry.Subscribe("alice", scope, Sink{name: "new"})

	req.Equal(1, registry.Len())
	req.Equal(Sink{name: "new"}, registry.GetSinksForScope(scope)[0])
}

func TestRegistry_Subscribe_Ignores_Invalid_Scope(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Subscribe("alice", domain.Scope{}, Sink{})

	req.Empty(registry.ScopeSinks)
}

func TestRegistry_UnSubscribe_One_Scope_One_Viewer(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	viewerID := uuid.NewString()
	scope := domain.ChannelScope("general")

	// Given a viewer watches a channel
	registry.Subscribe(viewerID, scope, Sink{})

	// When the feed is closed
	registry.Unsubscribe(viewerID, scope)

	// Then the scope doesn't exist anymore
	req.Empty(registry.ScopeSinks)
	req.Nil(registry.GetSinksForScope(scope))
}

func TestRegistry_UnSubscribe_One_Scope_Multiple_Viewers(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	scope := domain.ChannelScope("general")
	sink1 := Sink{name: "alice"}
	sink2 := Sink{name: "bob"}

	registry.Subscribe("alice", scope, sink1)
	registry.Subscribe("bob", scope, sink2)

	// When one viewer leaves
	registry.Unsubscribe("alice", scope)

	// Then only the other one is left
	req.Len(registry.ScopeSinks["ch:general"], 1)
	req.Len(registry.GetSinksForScope(scope), 1)
	req.Contains(registry.GetSinksForScope(scope), sink2)
}

func toAny[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
