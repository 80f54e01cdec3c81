package runtime

import (
	"chat-feed/contract"
	"chat-feed/domain"
	"sync"
)

// Registry tracks the live feeds currently open, by scope.
// A viewer holds at most one sink per scope but may watch several scopes at once,
// for instance a channel and one of its threads.
type Registry struct {
	mu         sync.RWMutex
	ScopeSinks map[string]map[string]contract.EventSink // scope key -> viewer -> sink
}

func NewRegistry() *Registry {
	return &Registry{
		ScopeSinks: make(map[string]map[string]contract.EventSink),
	}
}

// GetSinksForScope returns the sinks watching scope, nil when nobody does.
func (r *Registry) GetSinksForScope(scope domain.Scope) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	viewers, ok := r.ScopeSinks[scope.Key()]
	if !ok {
		return nil
	}
	activeSinks := make([]contract.EventSink, 0, len(viewers))
	for _, sink := range viewers {
		activeSinks = append(activeSinks, sink)
	}
	return activeSinks
}

// Subscribe registers the sink of a viewer on a scope, replacing any previous one.
// Invalid scopes are ignored.
func (r *Registry) Subscribe(viewerID string, scope domain.Scope, sink contract.EventSink) {
	key := scope.Key()
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ScopeSinks[key]; !ok {
		r.ScopeSinks[key] = make(map[string]contract.EventSink)
	}
	r.ScopeSinks[key][viewerID] = sink
}

// Unsubscribe removes the viewer from the scope.
// Empty scopes are removed so the map does not grow with closed feeds.
func (r *Registry) Unsubscribe(viewerID string, scope domain.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := scope.Key()
	if viewers, ok := r.ScopeSinks[key]; ok {
		delete(viewers, viewerID)
		if len(viewers) == 0 {
			delete(r.ScopeSinks, key)
		}
	}
}

// Len counts the open subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, viewers := range r.ScopeSinks {
		n += len(viewers)
	}
	return n
}
