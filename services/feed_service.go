package services

import (
	"chat-feed/contract"
	"chat-feed/domain"
	"chat-feed/domain/search"
	"chat-feed/enrichment"
	"chat-feed/errors"
	"chat-feed/observability"
	"chat-feed/pagination"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type FeedService struct {
	log        *slog.Logger
	messages   contract.IMessageStore
	members    contract.IMemberDirectory
	workspaces contract.IWorkspaceStore
	index      contract.IMessageIndex
	registry   contract.IRegistry
	enricher   *enrichment.Enricher
	metrics    *observability.Metrics
	pageSize   int
}

func NewFeedService(
	log *slog.Logger,
	messages contract.IMessageStore,
	members contract.IMemberDirectory,
	workspaces contract.IWorkspaceStore,
	index contract.IMessageIndex,
	registry contract.IRegistry,
	enricher *enrichment.Enricher,
	metrics *observability.Metrics,
	pageSize int,
) *FeedService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &FeedService{
		log:        log,
		messages:   messages,
		members:    members,
		workspaces: workspaces,
		index:      index,
		registry:   registry,
		enricher:   enricher,
		metrics:    metrics,
		pageSize:   pageSize,
	}
}

// GetMessages returns one enriched page of the scope.
// HasMore and NextCursor come from the stored page, before messages of gone authors are dropped.
func (s *FeedService) GetMessages(ctx context.Context, userID string, cmd domain.GetMessagesCommand) (domain.Page[domain.EnrichedMessage], error) {
	kind, err := s.authorize(ctx, userID, cmd)
	if err != nil {
		return domain.Page[domain.EnrichedMessage]{}, err
	}
	return s.fetch(ctx, kind, cmd.Scope, cmd.Cursor, lo.Ternary(cmd.PageSize > 0, cmd.PageSize, s.pageSize))
}

// GetMessage returns a single enriched message, typically a thread root.
// A message whose author cannot be resolved is reported as not found.
func (s *FeedService) GetMessage(ctx context.Context, userID string, messageID string) (domain.EnrichedMessage, error) {
	message, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		return domain.EnrichedMessage{}, err
	}
	if _, err := membership(ctx, s.members, message.WorkspaceID, userID); err != nil {
		return domain.EnrichedMessage{}, err
	}
	enriched, err := s.enricher.Enrich(ctx, message)
	if err != nil {
		return domain.EnrichedMessage{}, err
	}
	if enriched == nil {
		return domain.EnrichedMessage{}, fmt.Errorf("author of message %s: %w", messageID, errors.ErrNotFound)
	}
	return *enriched, nil
}

// Paginate binds a paginator to the scope once the user is authorized to read it.
// The paginator has not loaded anything yet.
func (s *FeedService) Paginate(ctx context.Context, userID string, cmd domain.GetMessagesCommand) (*pagination.Paginator, error) {
	kind, err := s.authorize(ctx, userID, cmd)
	if err != nil {
		return nil, err
	}
	scope := cmd.Scope
	fetch := func(ctx context.Context, cursor *string, pageSize int) (domain.Page[domain.EnrichedMessage], error) {
		return s.fetch(ctx, kind, scope, cursor, pageSize)
	}
	return pagination.NewPaginator(s.log.With("scope", scope.Key()), fetch,
		lo.Ternary(cmd.PageSize > 0, cmd.PageSize, s.pageSize)), nil
}

// Watch returns a started live feed: its first page is loaded and it refreshes on every
// change event of the scope until it is closed.
func (s *FeedService) Watch(ctx context.Context, userID string, cmd domain.GetMessagesCommand) (*LiveFeed, error) {
	paginator, err := s.Paginate(ctx, userID, cmd)
	if err != nil {
		return nil, err
	}
	feed := NewLiveFeed(s.log, uuid.New().String(), cmd.Scope, paginator, s.registry)
	s.registry.Subscribe(feed.ViewerID(), cmd.Scope, feed)
	if err := paginator.Start(ctx); err != nil {
		s.log.Warn("First page of live feed failed", "scope", cmd.Scope.Key(), "error", err)
	}
	return feed, nil
}

// Search returns the enriched messages of the workspace matching input, best match first.
// Hits whose message is gone are skipped.
func (s *FeedService) Search(ctx context.Context, userID string, workspaceID string, input string) ([]domain.EnrichedMessage, error) {
	if _, err := membership(ctx, s.members, workspaceID, userID); err != nil {
		return nil, err
	}
	query := search.NewSearchQuery(input)
	if query.Empty() {
		return []domain.EnrichedMessage{}, nil
	}
	ids, err := s.index.Search(ctx, workspaceID, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFetchFailed, err)
	}

	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.messages.GetMessage(ctx, id)
		if errors.Is(err, errors.ErrNotFound) {
			s.log.Debug("Stale search hit", "message_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return s.enricher.EnrichPage(ctx, messages)
}

func (s *FeedService) fetch(ctx context.Context, kind domain.ScopeKind, scope domain.Scope, cursor *string, pageSize int) (domain.Page[domain.EnrichedMessage], error) {
	raw, err := s.messages.GetPage(ctx, scope, cursor, pageSize)
	if err != nil {
		return domain.Page[domain.EnrichedMessage]{}, fmt.Errorf("%w: %w", errors.ErrFetchFailed, err)
	}
	s.metrics.PageFetched(string(kind))

	items, err := s.enricher.EnrichPage(ctx, raw.Items)
	if err != nil {
		return domain.Page[domain.EnrichedMessage]{}, err
	}
	return domain.Page[domain.EnrichedMessage]{
		Items:      items,
		NextCursor: raw.NextCursor,
		HasMore:    raw.HasMore,
	}, nil
}

// authorize checks the command, the membership of the user and that the scope belongs to the workspace.
func (s *FeedService) authorize(ctx context.Context, userID string, cmd domain.GetMessagesCommand) (domain.ScopeKind, error) {
	if err := validateCommand(cmd); err != nil {
		return "", err
	}
	kind, err := cmd.Scope.Kind()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidScope, err)
	}
	member, err := membership(ctx, s.members, cmd.WorkspaceID, userID)
	if err != nil {
		return "", err
	}

	switch kind {
	case domain.ScopeChannel:
		if err := checkChannel(ctx, s.workspaces, cmd.WorkspaceID, *cmd.Scope.ChannelID); err != nil {
			return "", err
		}
	case domain.ScopeConversation:
		if err := checkConversation(ctx, s.workspaces, cmd.WorkspaceID, member, *cmd.Scope.ConversationID); err != nil {
			return "", err
		}
	case domain.ScopeThread:
		parent, err := s.messages.GetMessage(ctx, *cmd.Scope.ParentMessageID)
		if err != nil {
			return "", err
		}
		if parent.WorkspaceID != cmd.WorkspaceID {
			return "", fmt.Errorf("message %s: %w", parent.ID, errors.ErrNotFound)
		}
		if parent.ConversationID != nil {
			if err := checkConversation(ctx, s.workspaces, cmd.WorkspaceID, member, *parent.ConversationID); err != nil {
				return "", err
			}
		}
	}
	return kind, nil
}
