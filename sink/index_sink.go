package sink

import (
	"chat-feed/contract"
	"chat-feed/domain/event"
	"context"
	"fmt"
	"log/slog"
)

// IndexSink keeps the search index in step with the message store.
// It is registered as a permanent sink, so it sees every change event.
type IndexSink struct {
	index contract.IMessageIndex
	log   *slog.Logger
}

func NewIndexSink(index contract.IMessageIndex, log *slog.Logger) IndexSink {
	return IndexSink{index: index, log: log}
}

func (s IndexSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageCreated:
		return s.index.Index(evt.Message)
	case event.MessageUpdated:
		return s.index.Index(evt.Message)
	case event.MessageDeleted:
		return s.index.Remove(evt.Message.ID)
	default:
		s.log.Debug(fmt.Sprintf("Not indexed event : %T", evt))
		return nil
	}
}
