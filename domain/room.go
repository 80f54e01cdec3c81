package domain

import "time"

// Workspace is the top-level tenant grouping channels, members and conversations.
type Workspace struct {
	ID       string
	Name     string
	UserID   string
	JoinCode string
}

// Channel is a named multi-member scope within a workspace.
type Channel struct {
	ID          string
	WorkspaceID string
	Name        string
	CreatedAt   time.Time
}

// Conversation is the direct-message scope between two members.
type Conversation struct {
	ID          string
	WorkspaceID string
	MemberOneID string
	MemberTwoID string
}

// Includes reports whether memberID takes part in the conversation.
func (c Conversation) Includes(memberID string) bool {
	return c.MemberOneID == memberID || c.MemberTwoID == memberID
}
