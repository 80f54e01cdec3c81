package services

import (
	"chat-feed/domain"
	"chat-feed/domain/event"
	"chat-feed/errors"
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMessageService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("should post as the member of the user and publish the creation", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		f.channel("general")
		var stored domain.Message
		f.messages.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m domain.Message) (string, error) {
			stored = m
			return m.ID, nil
		})
		var published event.DomainEvent
		f.publisher.EXPECT().Publish(gomock.Any()).Do(func(e event.DomainEvent) { published = e })

		id, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID: workspaceID,
			Body:        "hello",
			ChannelID:   lo.ToPtr("general"),
		})

		req.NoError(err)
		req.Equal(stored.ID, id)
		req.Equal(memberID, stored.MemberID)
		req.Nil(stored.UpdatedAt)
		created, ok := published.(event.MessageCreated)
		req.True(ok)
		req.Equal(id, created.Message.ID)
		req.Equal([]domain.Scope{domain.ChannelScope("general")}, created.Scopes())
	})

	t.Run("should list a direct message thread reply under the parent conversation", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		parent := channelMessage("root", "alice")
		parent.ChannelID = nil
		parent.ConversationID = lo.ToPtr("dm-1")
		f.messages.EXPECT().GetMessage(gomock.Any(), "root").Return(parent, nil)
		f.conversation("dm-1", "alice", memberID)
		var stored domain.Message
		f.messages.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m domain.Message) (string, error) {
			stored = m
			return m.ID, nil
		})
		f.publisher.EXPECT().Publish(gomock.Any())

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID:     workspaceID,
			Body:            "reply",
			ParentMessageID: lo.ToPtr("root"),
		})

		req.NoError(err)
		req.Equal("dm-1", *stored.ConversationID)
		req.Nil(stored.ChannelID)
		req.Equal("root", *stored.ParentMessageID)
	})

	t.Run("should fail on a missing parent", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		f.messages.EXPECT().GetMessage(gomock.Any(), "root").Return(domain.Message{}, errors.ErrNotFound)

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID:     workspaceID,
			Body:            "reply",
			ParentMessageID: lo.ToPtr("root"),
		})

		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("should not nest replies", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		reply := channelMessage("r1", "alice")
		reply.ParentMessageID = lo.ToPtr("root")
		f.messages.EXPECT().GetMessage(gomock.Any(), "r1").Return(reply, nil)

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID:     workspaceID,
			Body:            "reply",
			ParentMessageID: lo.ToPtr("r1"),
		})

		req.ErrorIs(err, errors.ErrInvalidCommand)
	})

	t.Run("should require a feed", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{WorkspaceID: workspaceID, Body: "lost"})

		req.ErrorIs(err, errors.ErrInvalidScope)
	})

	t.Run("should reject an empty body", func(t *testing.T) {
		_, err := newFixture(t).messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID: workspaceID,
			ChannelID:   lo.ToPtr("general"),
		})
		require.ErrorIs(t, err, errors.ErrInvalidCommand)
	})

	t.Run("should refuse users outside the workspace", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.stranger(userID)

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID: workspaceID,
			Body:        "hello",
			ChannelID:   lo.ToPtr("general"),
		})

		req.ErrorIs(err, errors.ErrUnauthorized)
	})

	t.Run("should refuse an image reference with nothing stored", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		f.channel("general")
		f.attachments.EXPECT().ResolveURL(gomock.Any(), "blob-1").Return(nil, nil)

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID: workspaceID,
			Body:        "look",
			ChannelID:   lo.ToPtr("general"),
			Image:       lo.ToPtr("blob-1"),
		})

		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("should refuse a channel of another workspace", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		f.workspaces.EXPECT().GetChannel(gomock.Any(), "elsewhere").
			Return(domain.Channel{ID: "elsewhere", WorkspaceID: "ws-other", Name: "elsewhere"}, nil)

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID: workspaceID,
			Body:        "hello",
			ChannelID:   lo.ToPtr("elsewhere"),
		})

		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("should refuse a conversation the member is not part of", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		f.conversation("dm-1", "alice", "bob")

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID:    workspaceID,
			Body:           "psst",
			ConversationID: lo.ToPtr("dm-1"),
		})

		req.ErrorIs(err, errors.ErrUnauthorized)
	})

	t.Run("should refuse a reply to a direct message thread of others", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		parent := channelMessage("root", "alice")
		parent.ChannelID = nil
		parent.ConversationID = lo.ToPtr("dm-1")
		f.messages.EXPECT().GetMessage(gomock.Any(), "root").Return(parent, nil)
		f.conversation("dm-1", "alice", "bob")

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID:     workspaceID,
			Body:            "reply",
			ParentMessageID: lo.ToPtr("root"),
		})

		req.ErrorIs(err, errors.ErrUnauthorized)
	})

	t.Run("should refuse a reply naming another feed than its parent", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		f.messages.EXPECT().GetMessage(gomock.Any(), "root").Return(channelMessage("root", "alice"), nil)

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID:     workspaceID,
			Body:            "reply",
			ChannelID:       lo.ToPtr("random"),
			ParentMessageID: lo.ToPtr("root"),
		})

		req.ErrorIs(err, errors.ErrInvalidScope)
	})

	t.Run("should accept a reply naming the feed of its parent", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		f.channel("general")
		f.messages.EXPECT().GetMessage(gomock.Any(), "root").Return(channelMessage("root", "alice"), nil)
		f.messages.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m domain.Message) (string, error) {
			return m.ID, nil
		})
		f.publisher.EXPECT().Publish(gomock.Any())

		_, err := f.messageService().Create(ctx, userID, domain.CreateMessageCommand{
			WorkspaceID:     workspaceID,
			Body:            "reply",
			ChannelID:       lo.ToPtr("general"),
			ParentMessageID: lo.ToPtr("root"),
		})

		req.NoError(err)
	})
}

func TestMessageService_Update_Delete(t *testing.T) {
	ctx := context.Background()
	own := channelMessage("m1", memberID)

	t.Run("should let the author edit and publish the update", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		edited := own
		edited.Body = "fixed"
		edited.UpdatedAt = lo.ToPtr(own.CreatedAt)
		f.messages.EXPECT().GetMessage(gomock.Any(), "m1").Return(own, nil)
		f.messages.EXPECT().Update(gomock.Any(), "m1", "fixed").Return(edited, nil)
		f.publisher.EXPECT().Publish(event.MessageUpdated{Message: edited, At: f.messageService().now()})

		updated, err := f.messageService().Update(ctx, userID, domain.UpdateMessageCommand{MessageID: "m1", Body: "fixed"})

		req.NoError(err)
		req.True(updated.Edited())
	})

	t.Run("should refuse edits by someone else", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member("user-other", "member-other", domain.RoleAdmin)
		f.messages.EXPECT().GetMessage(gomock.Any(), "m1").Return(own, nil)

		_, err := f.messageService().Update(ctx, "user-other", domain.UpdateMessageCommand{MessageID: "m1", Body: "hacked"})

		req.ErrorIs(err, errors.ErrUnauthorized)
	})

	t.Run("should let the author delete and publish the deletion", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member(userID, memberID, domain.RoleMember)
		f.messages.EXPECT().GetMessage(gomock.Any(), "m1").Return(own, nil)
		f.messages.EXPECT().Delete(gomock.Any(), "m1").Return(own, nil)
		f.publisher.EXPECT().Publish(gomock.AssignableToTypeOf(event.MessageDeleted{}))

		req.NoError(f.messageService().Delete(ctx, userID, "m1"))
	})

	t.Run("should refuse deletes by someone else", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.member("user-other", "member-other", domain.RoleMember)
		f.messages.EXPECT().GetMessage(gomock.Any(), "m1").Return(own, nil)

		req.ErrorIs(f.messageService().Delete(ctx, "user-other", "m1"), errors.ErrUnauthorized)
	})
}

func TestMessageService_ToggleReaction(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	f.member(userID, memberID, domain.RoleMember)
	msg := channelMessage("m1", "alice")
	f.messages.EXPECT().GetMessage(gomock.Any(), "m1").Return(msg, nil).Times(2)
	want := domain.Reaction{WorkspaceID: workspaceID, MessageID: "m1", MemberID: memberID, Value: "🔥"}
	gomock.InOrder(
		f.reactions.EXPECT().Toggle(gomock.Any(), want).Return(true, nil),
		f.reactions.EXPECT().Toggle(gomock.Any(), want).Return(false, nil),
	)
	var toggles []event.ReactionToggled
	f.publisher.EXPECT().Publish(gomock.Any()).Do(func(e event.DomainEvent) {
		toggles = append(toggles, e.(event.ReactionToggled))
	}).Times(2)
	service := f.messageService()

	added, err := service.ToggleReaction(ctx, userID, domain.ToggleReactionCommand{MessageID: "m1", Value: "🔥"})
	req.NoError(err)
	req.True(added)

	added, err = service.ToggleReaction(ctx, userID, domain.ToggleReactionCommand{MessageID: "m1", Value: "🔥"})
	req.NoError(err)
	req.False(added)

	req.Len(toggles, 2)
	req.True(toggles[0].Added)
	req.False(toggles[1].Added)
	req.Equal(memberID, toggles[1].MemberID)
}
