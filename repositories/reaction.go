package repositories

import (
	"chat-feed/domain"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type ReactionRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewReactionRepository(db *badger.DB, log *slog.Logger) ReactionRepository {
	return ReactionRepository{db: db, log: log}
}

type DiskReaction struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	MessageID   string `json:"message_id"`
	MemberID    string `json:"member_id"`
	Value       string `json:"value"`
	At          int64  `json:"at"`
}

func reactionPrefix(messageID string) string {
	return fmt.Sprintf("rct:%s:", messageID)
}

// reactionKey keeps the reactions of a message in the order they were added.
func reactionKey(messageID string, at int64, id string) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", reactionPrefix(messageID), at, id))
}

// ListReactions returns the raw reaction rows of a message, oldest first.
func (r ReactionRepository) ListReactions(_ context.Context, messageID string) ([]domain.Reaction, error) {
	var reactions []domain.Reaction
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(reactionPrefix(messageID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var diskReaction DiskReaction
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &diskReaction)
			})
			if err != nil {
				return err
			}
			reactions = append(reactions, toReaction(diskReaction))
		}
		return nil
	})
	return reactions, err
}

// Toggle deletes every row of the member with this value, or inserts one when none exists.
// Both happen in one transaction so concurrent toggles cannot leave two rows behind.
func (r ReactionRepository) Toggle(_ context.Context, reaction domain.Reaction) (bool, error) {
	added := false
	err := r.db.Update(func(txn *badger.Txn) error {
		prefix := []byte(reactionPrefix(reaction.MessageID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		var existing [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var diskReaction DiskReaction
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &diskReaction)
			})
			if err != nil {
				it.Close()
				return err
			}
			if diskReaction.MemberID == reaction.MemberID && diskReaction.Value == reaction.Value {
				existing = append(existing, it.Item().KeyCopy(nil))
			}
		}
		it.Close()

		if len(existing) > 0 {
			for _, key := range existing {
				if err := txn.Delete(key); err != nil {
					return err
				}
			}
			return nil
		}

		if reaction.ID == "" {
			reaction.ID = uuid.New().String()
		}
		diskReaction := fromReaction(reaction, time.Now().UTC().UnixNano())
		bytes, err := json.Marshal(diskReaction)
		if err != nil {
			return err
		}
		added = true
		return txn.Set(reactionKey(reaction.MessageID, diskReaction.At, reaction.ID), bytes)
	})
	if err != nil {
		return false, err
	}
	r.log.Debug("Reaction toggled", "message", reaction.MessageID, "value", reaction.Value, "added", added)
	return added, nil
}

func fromReaction(reaction domain.Reaction, at int64) DiskReaction {
	return DiskReaction{
		ID:          reaction.ID,
		WorkspaceID: reaction.WorkspaceID,
		MessageID:   reaction.MessageID,
		MemberID:    reaction.MemberID,
		Value:       reaction.Value,
		At:          at,
	}
}

func toReaction(diskReaction DiskReaction) domain.Reaction {
	return domain.Reaction{
		ID:          diskReaction.ID,
		WorkspaceID: diskReaction.WorkspaceID,
		MessageID:   diskReaction.MessageID,
		MemberID:    diskReaction.MemberID,
		Value:       diskReaction.Value,
	}
}
