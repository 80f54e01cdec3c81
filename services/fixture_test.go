package services

import (
	"chat-feed/domain"
	"chat-feed/enrichment"
	"chat-feed/errors"
	"chat-feed/mocks"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/lo"
	"go.uber.org/mock/gomock"
)

const (
	workspaceID = "ws-1"
	userID      = "user-me"
	memberID    = "member-me"
)

type fixture struct {
	messages    *mocks.MockIMessageStore
	members     *mocks.MockIMemberDirectory
	reactions   *mocks.MockIReactionStore
	attachments *mocks.MockIAttachmentStore
	workspaces  *mocks.MockIWorkspaceStore
	index       *mocks.MockIMessageIndex
	registry    *mocks.MockIRegistry
	publisher   *mocks.MockIPublisher
	log         *slog.Logger
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	return fixture{
		messages:    mocks.NewMockIMessageStore(ctrl),
		members:     mocks.NewMockIMemberDirectory(ctrl),
		reactions:   mocks.NewMockIReactionStore(ctrl),
		attachments: mocks.NewMockIAttachmentStore(ctrl),
		workspaces:  mocks.NewMockIWorkspaceStore(ctrl),
		index:       mocks.NewMockIMessageIndex(ctrl),
		registry:    mocks.NewMockIRegistry(ctrl),
		publisher:   mocks.NewMockIPublisher(ctrl),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (f fixture) feedService() *FeedService {
	enricher := enrichment.NewEnricher(f.log, f.messages, f.members, f.reactions, f.attachments, nil)
	return NewFeedService(f.log, f.messages, f.members, f.workspaces, f.index, f.registry, enricher, nil, 20)
}

func (f fixture) messageService() *MessageService {
	s := NewMessageService(f.log, f.messages, f.members, f.workspaces, f.reactions, f.attachments, f.publisher)
	s.now = func() time.Time { return time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC) }
	return s
}

// member makes userID a member of the workspace under id.
func (f fixture) member(user, id string, role domain.Role) {
	f.members.EXPECT().GetMemberByUser(gomock.Any(), workspaceID, user).
		Return(domain.Member{ID: id, UserID: user, WorkspaceID: workspaceID, Role: role}, nil).AnyTimes()
}

func (f fixture) stranger(user string) {
	f.members.EXPECT().GetMemberByUser(gomock.Any(), workspaceID, user).
		Return(domain.Member{}, fmt.Errorf("user %s: %w", user, errors.ErrNotFound)).AnyTimes()
}

// knownAuthor makes an author member resolvable during enrichment.
func (f fixture) knownAuthor(id string) {
	f.members.EXPECT().GetMember(gomock.Any(), id).
		Return(domain.Member{ID: id, UserID: "user-" + id, WorkspaceID: workspaceID}, nil).AnyTimes()
	f.members.EXPECT().GetUser(gomock.Any(), "user-"+id).
		Return(domain.User{ID: "user-" + id, Name: "Name " + id}, nil).AnyTimes()
}

func (f fixture) goneAuthor(id string) {
	f.members.EXPECT().GetMember(gomock.Any(), id).
		Return(domain.Member{}, fmt.Errorf("member %s: %w", id, errors.ErrNotFound)).AnyTimes()
}

// bare removes reactions and replies from the enrichment of every message.
func (f fixture) bare() {
	f.reactions.EXPECT().ListReactions(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	f.messages.EXPECT().ListReplies(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
}

func (f fixture) channel(id string) {
	f.workspaces.EXPECT().GetChannel(gomock.Any(), id).
		Return(domain.Channel{ID: id, WorkspaceID: workspaceID, Name: id}, nil).AnyTimes()
}

func (f fixture) conversation(id, one, two string) {
	f.workspaces.EXPECT().GetConversation(gomock.Any(), id).
		Return(domain.Conversation{ID: id, WorkspaceID: workspaceID, MemberOneID: one, MemberTwoID: two}, nil).AnyTimes()
}

func channelMessage(id, author string) domain.Message {
	return domain.Message{
		ID:          id,
		Body:        "body of " + id,
		WorkspaceID: workspaceID,
		ChannelID:   lo.ToPtr("general"),
		MemberID:    author,
		CreatedAt:   time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}
