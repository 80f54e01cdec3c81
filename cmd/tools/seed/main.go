package main

import (
	"bytes"
	"chat-feed/auth"
	"chat-feed/contract"
	"chat-feed/domain"
	"chat-feed/domain/event"
	"chat-feed/internal"
	"chat-feed/repositories"
	"chat-feed/services"
	"chat-feed/sink"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	colors "github.com/gookit/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
)

// indexPublisher applies change events to the search index right away,
// there is no refresh runtime while seeding.
type indexPublisher struct {
	sink contract.EventSink
	log  *slog.Logger
}

func (p indexPublisher) Publish(e event.DomainEvent) {
	if err := p.sink.Consume(context.Background(), e); err != nil {
		p.log.Warn("Indexing failed", "error", err)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer db.Close()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer writer.Close()

	messageRepository := repositories.NewMessageRepository(db, log, nil)
	userRepository := repositories.NewUserRepository(db)
	reactionRepository := repositories.NewReactionRepository(db, log)
	workspaceRepository := repositories.NewWorkspaceRepository(db, log)
	attachmentRepository := repositories.NewAttachmentRepository(db, log, config.PublicURL(), config.MaxAttachmentBytes)
	publisher := indexPublisher{sink: sink.NewIndexSink(repositories.NewMessageIndex(writer, log), log), log: log}

	workspaces := services.NewWorkspaceService(log, workspaceRepository, userRepository)
	messages := services.NewMessageService(log, messageRepository, userRepository, workspaceRepository,
		reactionRepository, attachmentRepository, publisher)
	attachments := services.NewAttachmentService(log, attachmentRepository)

	// 1. Users, a workspace both belong to and a channel
	suffix := uuid.New().String()[:8]
	alice, err := userRepository.CreateUser(ctx, domain.User{Name: "Alice", Email: fmt.Sprintf("alice+%s@example.com", suffix)})
	if err != nil {
		return err
	}
	bob, err := userRepository.CreateUser(ctx, domain.User{Name: "Bob", Email: fmt.Sprintf("bob+%s@example.com", suffix)})
	if err != nil {
		return err
	}
	workspaceID, err := workspaces.Create(ctx, alice, domain.CreateWorkspaceCommand{Name: "Chat Feed " + suffix})
	if err != nil {
		return err
	}
	workspace, err := workspaceRepository.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	if _, err := workspaces.Join(ctx, bob, domain.JoinWorkspaceCommand{WorkspaceID: workspaceID, JoinCode: workspace.JoinCode}); err != nil {
		return err
	}
	channelID, err := workspaces.CreateChannel(ctx, alice, domain.CreateChannelCommand{WorkspaceID: workspaceID, Name: "Release Notes"})
	if err != nil {
		return err
	}

	// 2. History spread over the previous days, written with explicit timestamps
	aliceMember, err := userRepository.GetMemberByUser(ctx, workspaceID, alice)
	if err != nil {
		return err
	}
	bobMember, err := userRepository.GetMemberByUser(ctx, workspaceID, bob)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	history := []struct {
		member string
		body   string
		ago    time.Duration
	}{
		{aliceMember.ID, "Kick-off for the feed rewrite", 50 * time.Hour},
		{aliceMember.ID, "Pagination goes first", 50*time.Hour - 2*time.Minute},
		{bobMember.ID, "I will take the enrichment part", 49 * time.Hour},
		{bobMember.ID, "Reactions are grouped by emoji now", 26 * time.Hour},
		{aliceMember.ID, "Search works on message bodies", 25 * time.Hour},
	}
	for _, h := range history {
		message := domain.Message{
			ID:          uuid.New().String(),
			Body:        h.body,
			WorkspaceID: workspaceID,
			ChannelID:   lo.ToPtr(channelID),
			MemberID:    h.member,
			CreatedAt:   now.Add(-h.ago),
		}
		if _, err := messageRepository.Create(ctx, message); err != nil {
			return err
		}
		publisher.Publish(event.MessageCreated{Message: message, At: message.CreatedAt})
	}

	// 3. Today: an image, a thread, reactions and a direct conversation
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(320, 200)); err != nil {
		return err
	}
	storageID, err := attachments.Upload(ctx, alice, &buf)
	if err != nil {
		return err
	}
	root, err := messages.Create(ctx, alice, domain.CreateMessageCommand{
		WorkspaceID: workspaceID,
		Body:        "Screenshot of the new timeline",
		Image:       lo.ToPtr(storageID),
		ChannelID:   lo.ToPtr(channelID),
	})
	if err != nil {
		return err
	}
	for _, body := range []string{"Looks great", "Ship it"} {
		if _, err := messages.Create(ctx, bob, domain.CreateMessageCommand{
			WorkspaceID:     workspaceID,
			Body:            body,
			ParentMessageID: lo.ToPtr(root),
		}); err != nil {
			return err
		}
	}
	for _, reaction := range []struct{ user, value string }{{bob, "🎉"}, {alice, "🎉"}, {bob, "👀"}} {
		if _, err := messages.ToggleReaction(ctx, reaction.user, domain.ToggleReactionCommand{MessageID: root, Value: reaction.value}); err != nil {
			return err
		}
	}
	conversationID, err := workspaces.GetOrCreateConversation(ctx, alice, domain.GetOrCreateConversationCommand{
		WorkspaceID: workspaceID,
		MemberID:    bobMember.ID,
	})
	if err != nil {
		return err
	}
	if _, err := messages.Create(ctx, bob, domain.CreateMessageCommand{
		WorkspaceID:    workspaceID,
		Body:           "Can you review my branch?",
		ConversationID: lo.ToPtr(conversationID),
	}); err != nil {
		return err
	}

	// 4. Print what a client needs to connect
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	token, err := issuer.GenerateToken(alice, []string{string(domain.RoleAdmin)})
	if err != nil {
		return err
	}
	colors.Green.Println("Seeded workspace " + workspace.Name)
	fmt.Printf("workspace_id    %s (join code %s)\n", workspaceID, workspace.JoinCode)
	fmt.Printf("channel_id      %s\n", channelID)
	fmt.Printf("conversation_id %s\n", conversationID)
	fmt.Printf("thread root     %s\n", root)
	colors.Yellow.Println("Token for Alice:")
	fmt.Println(token)
	return nil
}

func gradient(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: 100, B: 200, A: 0xff})
		}
	}
	return img
}
