package main

import (
	"chat-feed/domain"
	"chat-feed/enrichment"
	"chat-feed/internal"
	"chat-feed/pagination"
	"chat-feed/projection"
	"chat-feed/repositories"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	BaseURL        string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	PageSize       int    `envconfig:"PAGE_SIZE" default:"20"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"WARN"`
	// VIEWER_COLOURS enables colorized day dividers
	Colours bool `envconfig:"VIEWER_COLOURS" default:"true"`
}

func main() {
	channelID := flag.String("channel", "", "Channel to read")
	conversationID := flag.String("conversation", "", "Conversation to read")
	parentID := flag.String("thread", "", "Parent message whose replies are read")
	pages := flag.Int("pages", 1, "Number of pages to load")
	tz := flag.String("tz", "Local", "Time zone used to cut days")
	prefix := flag.String("inspect", "", "Dump raw keys under this prefix instead of a feed")
	limit := flag.Int("limit", 200, "Maximum number of inspected keys")
	flag.Parse()

	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. Open Badger in Read-Only mode
	// BypassLockGuard allows opening while the server holds the lock
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if *prefix != "" {
		if err := inspect(db, *prefix, *limit); err != nil {
			log.Fatal(err)
		}
		return
	}

	location, err := time.LoadLocation(*tz)
	if err != nil {
		log.Fatalf("Unknown time zone %q: %v", *tz, err)
	}
	scope := domain.Scope{
		ChannelID:       lo.EmptyableToPtr(*channelID),
		ConversationID:  lo.EmptyableToPtr(*conversationID),
		ParentMessageID: lo.EmptyableToPtr(*parentID),
	}
	if _, err := scope.Kind(); err != nil {
		log.Fatalf("Invalid scope: %v", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	paginator := newPaginator(logger, db, config, scope)
	ctx := context.Background()
	if err := paginator.Start(ctx); err != nil {
		log.Fatalf("Failed to load feed: %v", err)
	}
	for i := 1; i < *pages && paginator.Snapshot().HasMore(); i++ {
		if err := paginator.Trigger(ctx, pagination.TriggerExplicit); err != nil {
			log.Fatalf("Failed to load more: %v", err)
		}
	}

	render(projection.NewTimeline(location), paginator.Results(), config.Colours)
	fmt.Printf("\n%d messages, status %s\n", len(paginator.Results()), paginator.Status())
}

// newPaginator reads the scope straight from the stores, without the membership checks of the API.
func newPaginator(log *slog.Logger, db *badger.DB, config Config, scope domain.Scope) *pagination.Paginator {
	messages := repositories.NewMessageRepository(db, log, nil)
	users := repositories.NewUserRepository(db)
	reactions := repositories.NewReactionRepository(db, log)
	attachments := repositories.NewAttachmentRepository(db, log, config.BaseURL, 0)
	enricher := enrichment.NewEnricher(log, messages, users, reactions, attachments, nil)

	fetch := func(ctx context.Context, cursor *string, pageSize int) (domain.Page[domain.EnrichedMessage], error) {
		raw, err := messages.GetPage(ctx, scope, cursor, pageSize)
		if err != nil {
			return domain.Page[domain.EnrichedMessage]{}, err
		}
		items, err := enricher.EnrichPage(ctx, raw.Items)
		if err != nil {
			return domain.Page[domain.EnrichedMessage]{}, err
		}
		return domain.Page[domain.EnrichedMessage]{Items: items, NextCursor: raw.NextCursor, HasMore: raw.HasMore}, nil
	}
	return pagination.NewPaginator(log, fetch, config.PageSize)
}

func render(timeline *projection.Timeline, messages []domain.EnrichedMessage, colours bool) {
	for _, group := range timeline.Build(messages) {
		header := fmt.Sprintf("  ====== %s ======", group.Label)
		if colours {
			header = color.New(color.BgBlack, color.FgGreen).Render(header)
		}
		fmt.Println(header)

		table := newTable()
		table.SetHeader([]string{"Time", "Author", "Message", "Reactions", "Thread"})
		for _, entry := range group.Entries {
			at, author := "", ""
			if !entry.Compact {
				at = entry.CreatedAt.In(timeline.Location()).Format("15:04")
				author = entry.Author.User.Name
			}
			body := shorten(entry.Body, 60)
			if entry.Edited() {
				body += " (edited)"
			}
			if entry.ImageURL != nil {
				body += " [image]"
			}
			table.Append([]string{at, author, body, reactions(entry.Reactions), timeline.ThreadLabel(entry.Thread)})
		}
		table.Render()
		fmt.Println()
	}
}

func inspect(db *badger.DB, prefix string, limit int) error {
	rows, err := internal.Inspect(db, prefix, limit, nil)
	if err != nil {
		return err
	}
	table := newTable()
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Namespace", "Detail"})
	for _, row := range rows {
		table.Append([]string{row.Key, row.Type, row.Timestamp, row.EntityID, row.Namespace, row.Detail})
	}
	table.Render()
	return nil
}

func newTable() *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func reactions(groups []domain.ReactionGroup) string {
	return strings.Join(lo.Map(groups, func(g domain.ReactionGroup, _ int) string {
		return fmt.Sprintf("%s %d", g.Value, g.Count)
	}), " ")
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
