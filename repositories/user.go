package repositories

import (
	"chat-feed/domain"
	"chat-feed/errors"
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// UserRepository stores user profiles and their workspace memberships.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

type DiskUser struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image,omitempty"`
}

type DiskMember struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
	Role        string `json:"role"`
}

func userKey(id string) []byte { return []byte("user:" + id) }

func userEmailKey(email string) []byte {
	return []byte("idx:user:email:" + strings.ToLower(email))
}

func memberKey(id string) []byte { return []byte("member:" + id) }

func membershipKey(workspaceID, userID string) []byte {
	return []byte(fmt.Sprintf("idx:member:%s:%s", workspaceID, userID))
}

// CreateUser persists a profile. Emails are unique, compared case-insensitively.
// It returns the user ID, generated when empty.
func (u UserRepository) CreateUser(_ context.Context, user domain.User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	data, err := json.Marshal(fromUser(user))
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}
	err = u.db.Update(func(txn *badger.Txn) error {
		if user.Email != "" {
			if _, err := txn.Get(userEmailKey(user.Email)); err == nil {
				return fmt.Errorf("email %s: %w", user.Email, errors.ErrInvalidCommand)
			}
			if err := txn.Set(userEmailKey(user.Email), []byte(user.ID)); err != nil {
				return err
			}
		}
		return txn.Set(userKey(user.ID), data)
	})
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (u UserRepository) GetUser(_ context.Context, userID string) (domain.User, error) {
	var diskUser DiskUser
	err := u.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(userID), &diskUser)
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, err)
	}
	return toUser(diskUser), nil
}

func (u UserRepository) GetMember(_ context.Context, memberID string) (domain.Member, error) {
	var diskMember DiskMember
	err := u.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, memberKey(memberID), &diskMember)
	})
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %s: %w", memberID, err)
	}
	return toMember(diskMember), nil
}

func (u UserRepository) GetMemberByUser(ctx context.Context, workspaceID, userID string) (domain.Member, error) {
	var memberID string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(membershipKey(workspaceID, userID))
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		memberID = string(id)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Member{}, fmt.Errorf("user %s in workspace %s: %w", userID, workspaceID, errors.ErrNotFound)
	}
	if err != nil {
		return domain.Member{}, err
	}
	return u.GetMember(ctx, memberID)
}

// AddMember is idempotent per (workspace, user).
func (u UserRepository) AddMember(_ context.Context, member domain.Member) (string, error) {
	err := u.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(membershipKey(member.WorkspaceID, member.UserID))
		if err == nil {
			id, err := item.ValueCopy(nil)
			member.ID = string(id)
			return err
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if member.ID == "" {
			member.ID = uuid.New().String()
		}
		if member.Role == "" {
			member.Role = domain.RoleMember
		}
		data, err := json.Marshal(fromMember(member))
		if err != nil {
			return err
		}
		if err := txn.Set(memberKey(member.ID), data); err != nil {
			return err
		}
		return txn.Set(membershipKey(member.WorkspaceID, member.UserID), []byte(member.ID))
	})
	if err != nil {
		return "", err
	}
	return member.ID, nil
}

// RemoveMember deletes a membership. Messages of the member stay stored
// but can no longer be enriched.
func (u UserRepository) RemoveMember(_ context.Context, memberID string) error {
	return u.db.Update(func(txn *badger.Txn) error {
		var diskMember DiskMember
		if err := getJSON(txn, memberKey(memberID), &diskMember); err != nil {
			return fmt.Errorf("member %s: %w", memberID, err)
		}
		if err := txn.Delete(membershipKey(diskMember.WorkspaceID, diskMember.UserID)); err != nil {
			return err
		}
		return txn.Delete(memberKey(memberID))
	})
}

// getJSON decodes the value under key, mapping a missing key to errors.ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, target any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(value []byte) error {
		return json.Unmarshal(value, target)
	})
}

func fromUser(user domain.User) DiskUser {
	return DiskUser{ID: user.ID, Name: user.Name, Email: user.Email, Image: user.Image}
}

func toUser(diskUser DiskUser) domain.User {
	return domain.User{ID: diskUser.ID, Name: diskUser.Name, Email: diskUser.Email, Image: diskUser.Image}
}

func fromMember(member domain.Member) DiskMember {
	return DiskMember{ID: member.ID, UserID: member.UserID, WorkspaceID: member.WorkspaceID, Role: string(member.Role)}
}

func toMember(diskMember DiskMember) domain.Member {
	return domain.Member{
		ID:          diskMember.ID,
		UserID:      diskMember.UserID,
		WorkspaceID: diskMember.WorkspaceID,
		Role:        domain.Role(diskMember.Role),
	}
}
