package services

import (
	"chat-feed/contract"
	"chat-feed/domain"
	"chat-feed/domain/event"
	"chat-feed/errors"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type MessageService struct {
	log         *slog.Logger
	messages    contract.IMessageStore
	members     contract.IMemberDirectory
	workspaces  contract.IWorkspaceStore
	reactions   contract.IReactionStore
	attachments contract.IAttachmentStore
	publisher   contract.IPublisher
	now         func() time.Time
}

func NewMessageService(
	log *slog.Logger,
	messages contract.IMessageStore,
	members contract.IMemberDirectory,
	workspaces contract.IWorkspaceStore,
	reactions contract.IReactionStore,
	attachments contract.IAttachmentStore,
	publisher contract.IPublisher,
) *MessageService {
	return &MessageService{
		log:         log,
		messages:    messages,
		members:     members,
		workspaces:  workspaces,
		reactions:   reactions,
		attachments: attachments,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create posts a message as the member of the user in the workspace.
// The channel must belong to the workspace and a conversation must include the member.
// A thread reply sent without channel nor conversation is listed under its parent's,
// an explicit one must match it.
func (s *MessageService) Create(ctx context.Context, userID string, cmd domain.CreateMessageCommand) (string, error) {
	if err := validateCommand(cmd); err != nil {
		return "", err
	}
	member, err := membership(ctx, s.members, cmd.WorkspaceID, userID)
	if err != nil {
		return "", err
	}

	message := domain.Message{
		ID:              uuid.New().String(),
		Body:            cmd.Body,
		Image:           cmd.Image,
		WorkspaceID:     cmd.WorkspaceID,
		ChannelID:       cmd.ChannelID,
		ConversationID:  cmd.ConversationID,
		ParentMessageID: cmd.ParentMessageID,
		MemberID:        member.ID,
		CreatedAt:       s.now(),
	}

	if cmd.ParentMessageID != nil {
		parent, err := s.messages.GetMessage(ctx, *cmd.ParentMessageID)
		if err != nil {
			return "", fmt.Errorf("parent message: %w", err)
		}
		if parent.WorkspaceID != cmd.WorkspaceID {
			return "", fmt.Errorf("parent message %s: %w", parent.ID, errors.ErrNotFound)
		}
		if parent.IsReply() {
			return "", fmt.Errorf("%w: replies cannot be nested", errors.ErrInvalidCommand)
		}
		if message.ChannelID == nil && message.ConversationID == nil {
			message.ChannelID = parent.ChannelID
			message.ConversationID = parent.ConversationID
		}
		if lo.FromPtr(message.ChannelID) != lo.FromPtr(parent.ChannelID) ||
			lo.FromPtr(message.ConversationID) != lo.FromPtr(parent.ConversationID) {
			return "", fmt.Errorf("%w: reply outside the feed of %s", errors.ErrInvalidScope, parent.ID)
		}
	}
	if _, err := message.FeedScope().Kind(); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidScope, err)
	}
	if channelID := lo.FromPtr(message.ChannelID); channelID != "" {
		if err := checkChannel(ctx, s.workspaces, cmd.WorkspaceID, channelID); err != nil {
			return "", err
		}
	}
	if conversationID := lo.FromPtr(message.ConversationID); conversationID != "" {
		if err := checkConversation(ctx, s.workspaces, cmd.WorkspaceID, member, conversationID); err != nil {
			return "", err
		}
	}

	if cmd.Image != nil {
		url, err := s.attachments.ResolveURL(ctx, *cmd.Image)
		if err != nil {
			return "", err
		}
		if url == nil {
			return "", fmt.Errorf("attachment %s: %w", *cmd.Image, errors.ErrNotFound)
		}
	}

	id, err := s.messages.Create(ctx, message)
	if err != nil {
		return "", err
	}
	message.ID = id
	s.publisher.Publish(event.MessageCreated{Message: message, At: message.CreatedAt})
	s.log.Debug("Message created", "message_id", id, "scope", message.FeedScope().Key())
	return id, nil
}

// Update replaces the body of a message. Only its author may edit it.
func (s *MessageService) Update(ctx context.Context, userID string, cmd domain.UpdateMessageCommand) (domain.Message, error) {
	if err := validateCommand(cmd); err != nil {
		return domain.Message{}, err
	}
	if _, err := s.authorOf(ctx, userID, cmd.MessageID); err != nil {
		return domain.Message{}, err
	}
	updated, err := s.messages.Update(ctx, cmd.MessageID, cmd.Body)
	if err != nil {
		return domain.Message{}, err
	}
	s.publisher.Publish(event.MessageUpdated{Message: updated, At: s.now()})
	return updated, nil
}

// Delete removes a message and its reactions. Only its author may delete it.
func (s *MessageService) Delete(ctx context.Context, userID string, messageID string) error {
	if _, err := s.authorOf(ctx, userID, messageID); err != nil {
		return err
	}
	deleted, err := s.messages.Delete(ctx, messageID)
	if err != nil {
		return err
	}
	s.publisher.Publish(event.MessageDeleted{Message: deleted, At: s.now()})
	return nil
}

// ToggleReaction adds the reaction of the user's member, or removes it when already present.
// It reports whether the reaction exists afterwards.
func (s *MessageService) ToggleReaction(ctx context.Context, userID string, cmd domain.ToggleReactionCommand) (bool, error) {
	if err := validateCommand(cmd); err != nil {
		return false, err
	}
	message, err := s.messages.GetMessage(ctx, cmd.MessageID)
	if err != nil {
		return false, err
	}
	member, err := membership(ctx, s.members, message.WorkspaceID, userID)
	if err != nil {
		return false, err
	}
	added, err := s.reactions.Toggle(ctx, domain.Reaction{
		WorkspaceID: message.WorkspaceID,
		MessageID:   message.ID,
		MemberID:    member.ID,
		Value:       cmd.Value,
	})
	if err != nil {
		return false, err
	}
	s.publisher.Publish(event.ReactionToggled{
		Message:  message,
		MemberID: member.ID,
		Value:    cmd.Value,
		Added:    added,
		At:       s.now(),
	})
	return added, nil
}

func (s *MessageService) authorOf(ctx context.Context, userID string, messageID string) (domain.Message, error) {
	message, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		return domain.Message{}, err
	}
	member, err := membership(ctx, s.members, message.WorkspaceID, userID)
	if err != nil {
		return domain.Message{}, err
	}
	if member.ID != message.MemberID {
		return domain.Message{}, fmt.Errorf("member %s is not the author of %s: %w", member.ID, messageID, errors.ErrUnauthorized)
	}
	return message, nil
}
