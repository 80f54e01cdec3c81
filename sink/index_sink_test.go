package sink_test

import (
	"chat-feed/domain"
	"chat-feed/domain/event"
	"chat-feed/mocks"
	"chat-feed/sink"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIndexSink_Consume(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIndex := mocks.NewMockIMessageIndex(ctrl)
	// Silencing logs for clean test output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := sink.NewIndexSink(mockIndex, logger)
	ctx := context.Background()
	msg := domain.Message{ID: "msg-1", Body: "hello", WorkspaceID: "ws-1", ChannelID: lo.ToPtr("general")}

	t.Run("should index created and updated messages", func(t *testing.T) {
		req := require.New(t)
		mockIndex.EXPECT().Index(msg).Return(nil).Times(2)

		req.NoError(s.Consume(ctx, event.MessageCreated{Message: msg, At: time.Now()}))
		req.NoError(s.Consume(ctx, event.MessageUpdated{Message: msg, At: time.Now()}))
	})

	t.Run("should remove deleted messages", func(t *testing.T) {
		req := require.New(t)
		mockIndex.EXPECT().Remove("msg-1").Return(nil)

		req.NoError(s.Consume(ctx, event.MessageDeleted{Message: msg}))
	})

	t.Run("should ignore reactions", func(t *testing.T) {
		req := require.New(t)
		mockIndex.EXPECT().Index(gomock.Any()).Times(0)

		req.NoError(s.Consume(ctx, event.ReactionToggled{Message: msg, Value: "🔥"}))
	})

	t.Run("should surface index failures", func(t *testing.T) {
		req := require.New(t)
		mockIndex.EXPECT().Index(msg).Return(fmt.Errorf("writer closed"))

		req.Error(s.Consume(ctx, event.MessageCreated{Message: msg}))
	})
}
