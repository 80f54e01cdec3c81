package repositories

import (
	"chat-feed/domain"
	"chat-feed/domain/search"
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
)

const (
	fieldBody      = "body"
	fieldWorkspace = "workspace"
	fieldChannel   = "channel"
	fieldMember    = "member"
	fieldCreatedAt = "created_at"
	fieldID        = "_id"
)

// MessageIndex keeps message bodies searchable per workspace.
// The bluge writer is owned by the caller.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) MessageIndex {
	return MessageIndex{writer: writer, log: log}
}

// Index adds or replaces the document of a message.
func (i MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID).
		AddField(bluge.NewTextField(fieldBody, message.Body)).
		AddField(bluge.NewKeywordField(fieldWorkspace, message.WorkspaceID)).
		AddField(bluge.NewKeywordField(fieldMember, message.MemberID)).
		AddField(bluge.NewDateTimeField(fieldCreatedAt, message.CreatedAt))
	if message.ChannelID != nil {
		doc.AddField(bluge.NewKeywordField(fieldChannel, *message.ChannelID))
	}
	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s: %w", message.ID, err)
	}
	return nil
}

func (i MessageIndex) Remove(messageID string) error {
	if err := i.writer.Delete(bluge.Identifier(messageID)); err != nil {
		return fmt.Errorf("remove message %s: %w", messageID, err)
	}
	return nil
}

// Search matches the query terms against bodies of one workspace, best score first.
func (i MessageIndex) Search(ctx context.Context, workspaceID string, query search.Query) ([]string, error) {
	if query.Empty() {
		return nil, nil
	}
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField(fieldBody)).
		AddMust(bluge.NewTermQuery(workspaceID).SetField(fieldWorkspace))
	if query.ChannelID != "" {
		q.AddMust(bluge.NewTermQuery(query.ChannelID).SetField(fieldChannel))
	}
	if query.MemberID != "" {
		q.AddMust(bluge.NewTermQuery(query.MemberID).SetField(fieldMember))
	}

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(search.ClampLimit(query.Limit), q))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query.Terms, err)
	}

	var ids []string
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == fieldID {
				ids = append(ids, string(value))
				return false
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("read search results: %w", err)
	}
	i.log.Debug("Search done", "workspace", workspaceID, "terms", query.Terms, "hits", len(ids))
	return ids, nil
}
