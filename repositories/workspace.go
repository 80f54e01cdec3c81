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
)

// WorkspaceRepository stores workspaces, channels and direct conversations.
type WorkspaceRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewWorkspaceRepository(db *badger.DB, log *slog.Logger) WorkspaceRepository {
	return WorkspaceRepository{db: db, log: log}
}

type DiskWorkspace struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserID   string `json:"user_id"`
	JoinCode string `json:"join_code"`
}

type DiskChannel struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	At          int64  `json:"at"`
}

type DiskConversation struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	MemberOneID string `json:"member_one_id"`
	MemberTwoID string `json:"member_two_id"`
}

func workspaceKey(id string) []byte    { return []byte("ws:" + id) }
func channelKey(id string) []byte      { return []byte("channel:" + id) }
func conversationKey(id string) []byte { return []byte("conv:" + id) }

// pairKey orders the two members so that both directions of a conversation share one key.
func pairKey(workspaceID, memberOneID, memberTwoID string) []byte {
	if memberTwoID < memberOneID {
		memberOneID, memberTwoID = memberTwoID, memberOneID
	}
	return []byte(fmt.Sprintf("idx:conv:%s:%s:%s", workspaceID, memberOneID, memberTwoID))
}

// CreateWorkspace stores the workspace, replacing the record when its id already exists.
func (w WorkspaceRepository) CreateWorkspace(_ context.Context, workspace domain.Workspace) (string, error) {
	if workspace.ID == "" {
		workspace.ID = uuid.New().String()
	}
	err := w.put(workspaceKey(workspace.ID), DiskWorkspace{
		ID:       workspace.ID,
		Name:     workspace.Name,
		UserID:   workspace.UserID,
		JoinCode: workspace.JoinCode,
	})
	if err != nil {
		return "", err
	}
	return workspace.ID, nil
}

func (w WorkspaceRepository) GetWorkspace(_ context.Context, id string) (domain.Workspace, error) {
	var diskWorkspace DiskWorkspace
	if err := w.get(workspaceKey(id), &diskWorkspace); err != nil {
		return domain.Workspace{}, fmt.Errorf("workspace %s: %w", id, err)
	}
	return domain.Workspace{
		ID:       diskWorkspace.ID,
		Name:     diskWorkspace.Name,
		UserID:   diskWorkspace.UserID,
		JoinCode: diskWorkspace.JoinCode,
	}, nil
}

func (w WorkspaceRepository) CreateChannel(_ context.Context, channel domain.Channel) (string, error) {
	if channel.ID == "" {
		channel.ID = uuid.New().String()
	}
	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = time.Now().UTC()
	}
	err := w.put(channelKey(channel.ID), DiskChannel{
		ID:          channel.ID,
		WorkspaceID: channel.WorkspaceID,
		Name:        channel.Name,
		At:          channel.CreatedAt.UnixNano(),
	})
	if err != nil {
		return "", err
	}
	return channel.ID, nil
}

func (w WorkspaceRepository) GetChannel(_ context.Context, id string) (domain.Channel, error) {
	var diskChannel DiskChannel
	if err := w.get(channelKey(id), &diskChannel); err != nil {
		return domain.Channel{}, fmt.Errorf("channel %s: %w", id, err)
	}
	return domain.Channel{
		ID:          diskChannel.ID,
		WorkspaceID: diskChannel.WorkspaceID,
		Name:        diskChannel.Name,
		CreatedAt:   time.Unix(0, diskChannel.At).UTC(),
	}, nil
}

func (w WorkspaceRepository) GetConversation(_ context.Context, id string) (domain.Conversation, error) {
	var diskConversation DiskConversation
	if err := w.get(conversationKey(id), &diskConversation); err != nil {
		return domain.Conversation{}, fmt.Errorf("conversation %s: %w", id, err)
	}
	return toConversation(diskConversation), nil
}

// FindConversation looks the pair up in either order.
func (w WorkspaceRepository) FindConversation(ctx context.Context, workspaceID, memberOneID, memberTwoID string) (domain.Conversation, error) {
	var id string
	err := w.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey(workspaceID, memberOneID, memberTwoID))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		id = string(value)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Conversation{}, fmt.Errorf("conversation between %s and %s: %w", memberOneID, memberTwoID, errors.ErrNotFound)
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return w.GetConversation(ctx, id)
}

// CreateConversation returns the id of the existing conversation when the pair already has one.
func (w WorkspaceRepository) CreateConversation(_ context.Context, conversation domain.Conversation) (string, error) {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	data, err := json.Marshal(DiskConversation{
		ID:          conversation.ID,
		WorkspaceID: conversation.WorkspaceID,
		MemberOneID: conversation.MemberOneID,
		MemberTwoID: conversation.MemberTwoID,
	})
	if err != nil {
		return "", err
	}
	key := pairKey(conversation.WorkspaceID, conversation.MemberOneID, conversation.MemberTwoID)
	err = w.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			value, err := item.ValueCopy(nil)
			conversation.ID = string(value)
			return err
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(conversationKey(conversation.ID), data); err != nil {
			return err
		}
		return txn.Set(key, []byte(conversation.ID))
	})
	if err != nil {
		return "", err
	}
	return conversation.ID, nil
}

func (w WorkspaceRepository) put(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return w.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (w WorkspaceRepository) get(key []byte, target any) error {
	return w.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, key, target)
	})
}

func toConversation(diskConversation DiskConversation) domain.Conversation {
	return domain.Conversation{
		ID:          diskConversation.ID,
		WorkspaceID: diskConversation.WorkspaceID,
		MemberOneID: diskConversation.MemberOneID,
		MemberTwoID: diskConversation.MemberTwoID,
	}
}
