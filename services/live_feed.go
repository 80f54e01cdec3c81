package services

import (
	"chat-feed/contract"
	"chat-feed/domain"
	"chat-feed/domain/event"
	"chat-feed/errors"
	"chat-feed/pagination"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// LiveFeed keeps a paginator in step with the store: every change event of its scope
// re-fetches the loaded window. It is registered in the registry as the sink of one viewer.
type LiveFeed struct {
	log       *slog.Logger
	viewerID  string
	scope     domain.Scope
	paginator *pagination.Paginator
	registry  contract.IRegistry
	closeOnce sync.Once
}

func NewLiveFeed(log *slog.Logger, viewerID string, scope domain.Scope, paginator *pagination.Paginator, registry contract.IRegistry) *LiveFeed {
	return &LiveFeed{
		log:       log.With("viewer", viewerID, "scope", scope.Key()),
		viewerID:  viewerID,
		scope:     scope,
		paginator: paginator,
		registry:  registry,
	}
}

func (f *LiveFeed) ViewerID() string {
	return f.viewerID
}

func (f *LiveFeed) Paginator() *pagination.Paginator {
	return f.paginator
}

// Consume refreshes the feed. Events reaching a closed feed are ignored.
func (f *LiveFeed) Consume(ctx context.Context, e event.DomainEvent) error {
	f.log.Debug(fmt.Sprintf("Refreshing live feed on %T", e))
	err := f.paginator.Refresh(ctx)
	if errors.Is(err, errors.ErrDisposed) {
		return nil
	}
	return err
}

// Close unsubscribes the feed and disposes its paginator. It is safe to call twice.
func (f *LiveFeed) Close() {
	f.closeOnce.Do(func() {
		f.registry.Unsubscribe(f.viewerID, f.scope)
		f.paginator.Dispose()
	})
}
