package services

import (
	"chat-feed/contract"
	"chat-feed/domain"
	"chat-feed/errors"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	joinCodeLength = 6
	defaultChannel = "general"
)

var joinCodeCharset = append(append([]rune{}, lo.LowerCaseLettersCharset...), lo.NumbersCharset...)

type WorkspaceService struct {
	log        *slog.Logger
	workspaces contract.IWorkspaceStore
	members    contract.IMemberDirectory
}

func NewWorkspaceService(log *slog.Logger, workspaces contract.IWorkspaceStore, members contract.IMemberDirectory) *WorkspaceService {
	return &WorkspaceService{log: log, workspaces: workspaces, members: members}
}

// Create makes the user the admin of a new workspace holding a general channel.
func (s *WorkspaceService) Create(ctx context.Context, userID string, cmd domain.CreateWorkspaceCommand) (string, error) {
	if userID == "" {
		return "", errors.ErrUnauthorized
	}
	if err := validateCommand(cmd); err != nil {
		return "", err
	}
	workspaceID, err := s.workspaces.CreateWorkspace(ctx, domain.Workspace{
		Name:     strings.TrimSpace(cmd.Name),
		UserID:   userID,
		JoinCode: NewJoinCode(),
	})
	if err != nil {
		return "", err
	}
	if _, err := s.members.AddMember(ctx, domain.Member{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        domain.RoleAdmin,
	}); err != nil {
		return "", err
	}
	if _, err := s.workspaces.CreateChannel(ctx, domain.Channel{
		WorkspaceID: workspaceID,
		Name:        defaultChannel,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		return "", err
	}
	s.log.Info("Workspace created", "workspace_id", workspaceID, "owner", userID)
	return workspaceID, nil
}

// Join adds the user to the workspace when the join code matches.
// Joining twice returns the existing membership.
func (s *WorkspaceService) Join(ctx context.Context, userID string, cmd domain.JoinWorkspaceCommand) (string, error) {
	if userID == "" {
		return "", errors.ErrUnauthorized
	}
	if err := validateCommand(cmd); err != nil {
		return "", err
	}
	workspace, err := s.workspaces.GetWorkspace(ctx, cmd.WorkspaceID)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(workspace.JoinCode, cmd.JoinCode) {
		return "", errors.ErrInvalidJoinCode
	}
	return s.members.AddMember(ctx, domain.Member{
		UserID:      userID,
		WorkspaceID: workspace.ID,
		Role:        domain.RoleMember,
	})
}

// NewJoinCode rotates the join code of the workspace. Admins only.
func (s *WorkspaceService) NewJoinCode(ctx context.Context, userID string, workspaceID string) (string, error) {
	if _, err := s.admin(ctx, workspaceID, userID); err != nil {
		return "", err
	}
	workspace, err := s.workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	workspace.JoinCode = NewJoinCode()
	if _, err := s.workspaces.CreateWorkspace(ctx, workspace); err != nil {
		return "", err
	}
	return workspace.JoinCode, nil
}

// CreateChannel adds a channel with a normalized name. Admins only.
func (s *WorkspaceService) CreateChannel(ctx context.Context, userID string, cmd domain.CreateChannelCommand) (string, error) {
	if err := validateCommand(cmd); err != nil {
		return "", err
	}
	if _, err := s.admin(ctx, cmd.WorkspaceID, userID); err != nil {
		return "", err
	}
	return s.workspaces.CreateChannel(ctx, domain.Channel{
		WorkspaceID: cmd.WorkspaceID,
		Name:        NormalizeChannelName(cmd.Name),
		CreatedAt:   time.Now().UTC(),
	})
}

// GetOrCreateConversation returns the direct conversation between the user's member and
// another member of the workspace, creating it on first use.
func (s *WorkspaceService) GetOrCreateConversation(ctx context.Context, userID string, cmd domain.GetOrCreateConversationCommand) (string, error) {
	if err := validateCommand(cmd); err != nil {
		return "", err
	}
	current, err := membership(ctx, s.members, cmd.WorkspaceID, userID)
	if err != nil {
		return "", err
	}
	other, err := s.members.GetMember(ctx, cmd.MemberID)
	if err != nil {
		return "", err
	}
	if other.WorkspaceID != cmd.WorkspaceID {
		return "", fmt.Errorf("member %s: %w", cmd.MemberID, errors.ErrNotFound)
	}

	existing, err := s.workspaces.FindConversation(ctx, cmd.WorkspaceID, current.ID, other.ID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return "", err
	}
	return s.workspaces.CreateConversation(ctx, domain.Conversation{
		WorkspaceID: cmd.WorkspaceID,
		MemberOneID: current.ID,
		MemberTwoID: other.ID,
	})
}

func (s *WorkspaceService) admin(ctx context.Context, workspaceID, userID string) (domain.Member, error) {
	member, err := membership(ctx, s.members, workspaceID, userID)
	if err != nil {
		return domain.Member{}, err
	}
	if member.Role != domain.RoleAdmin {
		return domain.Member{}, fmt.Errorf("member %s is not an admin: %w", member.ID, errors.ErrUnauthorized)
	}
	return member, nil
}

// NewJoinCode returns a random code of lowercase letters and digits.
func NewJoinCode() string {
	return lo.RandomString(joinCodeLength, joinCodeCharset)
}

// NormalizeChannelName lowercases the name and joins its words with dashes.
func NormalizeChannelName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
