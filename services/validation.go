package services

import (
	"chat-feed/contract"
	"chat-feed/domain"
	"chat-feed/errors"
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateCommand(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}
	return nil
}

// membership returns the member of the user in the workspace.
// Not being a member is reported as errors.ErrUnauthorized.
func membership(ctx context.Context, members contract.IMemberDirectory, workspaceID, userID string) (domain.Member, error) {
	if userID == "" {
		return domain.Member{}, errors.ErrUnauthorized
	}
	member, err := members.GetMemberByUser(ctx, workspaceID, userID)
	if errors.Is(err, errors.ErrNotFound) {
		return domain.Member{}, fmt.Errorf("user %s is not a member of %s: %w", userID, workspaceID, errors.ErrUnauthorized)
	}
	if err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

func checkChannel(ctx context.Context, workspaces contract.IWorkspaceStore, workspaceID, channelID string) error {
	channel, err := workspaces.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if channel.WorkspaceID != workspaceID {
		return fmt.Errorf("channel %s: %w", channel.ID, errors.ErrNotFound)
	}
	return nil
}

// checkConversation verifies the conversation lives in the workspace and includes the member.
func checkConversation(ctx context.Context, workspaces contract.IWorkspaceStore, workspaceID string, member domain.Member, conversationID string) error {
	conversation, err := workspaces.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if conversation.WorkspaceID != workspaceID {
		return fmt.Errorf("conversation %s: %w", conversationID, errors.ErrNotFound)
	}
	if !conversation.Includes(member.ID) {
		return fmt.Errorf("member %s outside conversation %s: %w", member.ID, conversationID, errors.ErrUnauthorized)
	}
	return nil
}
