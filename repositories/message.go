package repositories

import (
	"chat-feed/domain"
	"chat-feed/errors"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const DefaultPageSize = 50

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

// NewMessageRepository caps every page at limitMessages when it is set.
func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID              string  `json:"id"`
	Body            string  `json:"body"`
	Image           *string `json:"image,omitempty"`
	WorkspaceID     string  `json:"workspace_id"`
	ChannelID       *string `json:"channel_id,omitempty"`
	ConversationID  *string `json:"conversation_id,omitempty"`
	ParentMessageID *string `json:"parent_message_id,omitempty"`
	MemberID        string  `json:"member_id"`
	At              int64   `json:"at"`
	UpdatedAt       *int64  `json:"updated_at,omitempty"`
}

func messageKey(id string) []byte {
	return []byte("msg:" + id)
}

func feedPrefix(scopeKey string) string {
	return fmt.Sprintf("idx:feed:%s:", scopeKey)
}

// feedKey is formatted as "idx:feed:{scope}:{timestamp_padded}:{id}" so that a prefix scan
// returns a feed in creation order. The id breaks ties between messages of the same nanosecond.
func feedKey(scopeKey string, at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", feedPrefix(scopeKey), at.UnixNano(), id))
}

// Create stores the message and indexes it under its feed.
func (m MessageRepository) Create(_ context.Context, message domain.Message) (string, error) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	scopeKey := message.FeedScope().Key()
	if scopeKey == "" {
		return "", fmt.Errorf("message %s: %w", message.ID, errors.ErrInvalidScope)
	}
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return "", err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(message.ID), bytes); err != nil {
			return err
		}
		return txn.Set(feedKey(scopeKey, message.CreatedAt, message.ID), []byte(message.ID))
	})
	if err != nil {
		return "", err
	}
	return message.ID, nil
}

func (m MessageRepository) GetMessage(_ context.Context, id string) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = getMessage(txn, id)
		return err
	})
	return message, err
}

// Update replaces the body and stamps the edit time.
func (m MessageRepository) Update(_ context.Context, id string, body string) (domain.Message, error) {
	var message domain.Message
	err := m.db.Update(func(txn *badger.Txn) error {
		var err error
		if message, err = getMessage(txn, id); err != nil {
			return err
		}
		message.Body = body
		message.UpdatedAt = lo.ToPtr(time.Now().UTC())
		bytes, err := json.Marshal(fromMessage(message))
		if err != nil {
			return err
		}
		return txn.Set(messageKey(id), bytes)
	})
	return message, err
}

// Delete removes the message, its feed entry and its reactions.
func (m MessageRepository) Delete(_ context.Context, id string) (domain.Message, error) {
	var message domain.Message
	err := m.db.Update(func(txn *badger.Txn) error {
		var err error
		if message, err = getMessage(txn, id); err != nil {
			return err
		}
		if err = txn.Delete(messageKey(id)); err != nil {
			return err
		}
		if err = txn.Delete(feedKey(message.FeedScope().Key(), message.CreatedAt, id)); err != nil {
			return err
		}
		return deletePrefix(txn, []byte(reactionPrefix(id)))
	})
	return message, err
}

// GetPage retrieves one page of a feed, newest first, using a reverse prefix scan.
// The cursor is the "{timestamp}:{id}" suffix of the last key returned by the previous page.
// One extra key is read to know whether an older page exists.
func (m MessageRepository) GetPage(_ context.Context, scope domain.Scope, cursor *string, pageSize int) (domain.Page[domain.Message], error) {
	scopeKey := scope.Key()
	if scopeKey == "" {
		return domain.Page[domain.Message]{}, errors.ErrInvalidScope
	}
	pageSize = m.pageSize(pageSize)

	var page domain.Page[domain.Message]
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := feedPrefix(scopeKey)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// 0xFF sorts after every digit, so the scan starts from the newest entry
			seekKey = append([]byte(prefixStr), 0xFF)
		default:
			seekKey = []byte(prefixStr + *cursor)
		}
		it.Seek(seekKey)

		// The cursor entry itself was returned by the previous page.
		// If it has been deleted since, Seek already landed on the next older one.
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		var lastKey string
		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(page.Items) == pageSize {
				page.HasMore = true
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			id, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			message, err := getMessage(txn, string(id))
			if errors.Is(err, errors.ErrNotFound) {
				m.log.Warn("Dangling feed entry", "scope", scopeKey, "id", string(id))
				continue
			}
			if err != nil {
				return err
			}
			page.Items = append(page.Items, message)
		}
		if lastKey != "" {
			page.NextCursor = &lastKey
		}
		return nil
	})
	if err != nil {
		return domain.Page[domain.Message]{}, err
	}
	return page, nil
}

// ListReplies returns every direct reply of a message in storage order, oldest first.
func (m MessageRepository) ListReplies(_ context.Context, parentMessageID string) ([]domain.Message, error) {
	var replies []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(feedPrefix(domain.ThreadScope(parentMessageID).Key()))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			message, err := getMessage(txn, string(id))
			if errors.Is(err, errors.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			replies = append(replies, message)
		}
		return nil
	})
	return replies, err
}

func (m MessageRepository) pageSize(requested int) int {
	size := requested
	if size <= 0 {
		size = DefaultPageSize
	}
	if m.limitMessages != nil && size > *m.limitMessages {
		m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
		size = *m.limitMessages
	}
	return size
}

func getMessage(txn *badger.Txn, id string) (domain.Message, error) {
	item, err := txn.Get(messageKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, fmt.Errorf("message %s: %w", id, errors.ErrNotFound)
	}
	if err != nil {
		return domain.Message{}, err
	}
	var diskMessage DiskMessage
	err = item.Value(func(value []byte) error {
		return json.Unmarshal(value, &diskMessage)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(diskMessage), nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()
	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func fromMessage(message domain.Message) DiskMessage {
	var updatedAt *int64
	if message.UpdatedAt != nil {
		updatedAt = lo.ToPtr(message.UpdatedAt.UnixNano())
	}
	return DiskMessage{
		ID:              message.ID,
		Body:            message.Body,
		Image:           message.Image,
		WorkspaceID:     message.WorkspaceID,
		ChannelID:       message.ChannelID,
		ConversationID:  message.ConversationID,
		ParentMessageID: message.ParentMessageID,
		MemberID:        message.MemberID,
		At:              message.CreatedAt.UnixNano(),
		UpdatedAt:       updatedAt,
	}
}

func toMessage(diskMessage DiskMessage) domain.Message {
	var updatedAt *time.Time
	if diskMessage.UpdatedAt != nil {
		updatedAt = lo.ToPtr(time.Unix(0, *diskMessage.UpdatedAt).UTC())
	}
	return domain.Message{
		ID:              diskMessage.ID,
		Body:            diskMessage.Body,
		Image:           diskMessage.Image,
		WorkspaceID:     diskMessage.WorkspaceID,
		ChannelID:       diskMessage.ChannelID,
		ConversationID:  diskMessage.ConversationID,
		ParentMessageID: diskMessage.ParentMessageID,
		MemberID:        diskMessage.MemberID,
		CreatedAt:       time.Unix(0, diskMessage.At).UTC(),
		UpdatedAt:       updatedAt,
	}
}
