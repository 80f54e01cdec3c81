package repositories

import (
	"chat-feed/domain"
	"chat-feed/errors"
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should resolve a member and its user", func(t *testing.T) {
		req := require.New(t)
		repo := NewUserRepository(openDB(t))

		userID, err := repo.CreateUser(ctx, domain.User{Name: "Alice", Email: "alice@example.com", Image: lo.ToPtr("https://img/alice.png")})
		req.NoError(err)
		memberID, err := repo.AddMember(ctx, domain.Member{UserID: userID, WorkspaceID: "ws-1", Role: domain.RoleAdmin})
		req.NoError(err)

		member, err := repo.GetMember(ctx, memberID)
		req.NoError(err)
		req.Equal(userID, member.UserID)
		req.Equal(domain.RoleAdmin, member.Role)

		byUser, err := repo.GetMemberByUser(ctx, "ws-1", userID)
		req.NoError(err)
		req.Equal(member, byUser)

		user, err := repo.GetUser(ctx, userID)
		req.NoError(err)
		req.Equal("Alice", user.Name)
		req.Equal("https://img/alice.png", *user.Image)
	})

	t.Run("should keep a single membership per workspace", func(t *testing.T) {
		req := require.New(t)
		repo := NewUserRepository(openDB(t))

		first, err := repo.AddMember(ctx, domain.Member{UserID: "u1", WorkspaceID: "ws-1"})
		req.NoError(err)
		second, err := repo.AddMember(ctx, domain.Member{UserID: "u1", WorkspaceID: "ws-1"})
		req.NoError(err)
		req.Equal(first, second)

		member, err := repo.GetMember(ctx, first)
		req.NoError(err)
		req.Equal(domain.RoleMember, member.Role)
	})

	t.Run("should report unknown and removed members as not found", func(t *testing.T) {
		req := require.New(t)
		repo := NewUserRepository(openDB(t))

		_, err := repo.GetMember(ctx, "ghost")
		req.ErrorIs(err, errors.ErrNotFound)
		_, err = repo.GetUser(ctx, "ghost")
		req.ErrorIs(err, errors.ErrNotFound)

		memberID, err := repo.AddMember(ctx, domain.Member{UserID: "u1", WorkspaceID: "ws-1"})
		req.NoError(err)
		req.NoError(repo.RemoveMember(ctx, memberID))

		_, err = repo.GetMember(ctx, memberID)
		req.ErrorIs(err, errors.ErrNotFound)
		_, err = repo.GetMemberByUser(ctx, "ws-1", "u1")
		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("should refuse a duplicated email", func(t *testing.T) {
		req := require.New(t)
		repo := NewUserRepository(openDB(t))

		_, err := repo.CreateUser(ctx, domain.User{Name: "Alice", Email: "alice@example.com"})
		req.NoError(err)
		_, err = repo.CreateUser(ctx, domain.User{Name: "Other", Email: "ALICE@example.com"})
		req.ErrorIs(err, errors.ErrInvalidCommand)
	})
}
