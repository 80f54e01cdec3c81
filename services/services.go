//go:generate go run go.uber.org/mock/mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks
package services

import (
	"chat-feed/domain"
	"chat-feed/pagination"
	"context"
	"io"
)

// IFeedService reads enriched feeds on behalf of an authenticated user.
type IFeedService interface {
	GetMessages(ctx context.Context, userID string, cmd domain.GetMessagesCommand) (domain.Page[domain.EnrichedMessage], error)
	GetMessage(ctx context.Context, userID string, messageID string) (domain.EnrichedMessage, error)
	Paginate(ctx context.Context, userID string, cmd domain.GetMessagesCommand) (*pagination.Paginator, error)
	Watch(ctx context.Context, userID string, cmd domain.GetMessagesCommand) (*LiveFeed, error)
	Search(ctx context.Context, userID string, workspaceID string, input string) ([]domain.EnrichedMessage, error)
}

// IMessageService performs the writes that invalidate feeds.
// Every successful write publishes a change event.
type IMessageService interface {
	Create(ctx context.Context, userID string, cmd domain.CreateMessageCommand) (string, error)
	Update(ctx context.Context, userID string, cmd domain.UpdateMessageCommand) (domain.Message, error)
	Delete(ctx context.Context, userID string, messageID string) error
	ToggleReaction(ctx context.Context, userID string, cmd domain.ToggleReactionCommand) (bool, error)
}

type IWorkspaceService interface {
	Create(ctx context.Context, userID string, cmd domain.CreateWorkspaceCommand) (string, error)
	Join(ctx context.Context, userID string, cmd domain.JoinWorkspaceCommand) (string, error)
	NewJoinCode(ctx context.Context, userID string, workspaceID string) (string, error)
	CreateChannel(ctx context.Context, userID string, cmd domain.CreateChannelCommand) (string, error)
	GetOrCreateConversation(ctx context.Context, userID string, cmd domain.GetOrCreateConversationCommand) (string, error)
}

type IAttachmentService interface {
	Upload(ctx context.Context, userID string, content io.Reader) (string, error)
	Open(ctx context.Context, storageID string) (io.ReadCloser, string, error)
}

var (
	_ IFeedService       = (*FeedService)(nil)
	_ IMessageService    = (*MessageService)(nil)
	_ IWorkspaceService  = (*WorkspaceService)(nil)
	_ IAttachmentService = (*AttachmentService)(nil)
)
