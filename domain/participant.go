// Package domain contains core concepts of the chat system.
// This file defines Member and User entities.
// No runtime, network, or UI logic should be added here.
package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Member binds a user identity to a workspace.
type Member struct {
	ID          string
	UserID      string
	WorkspaceID string
	Role        Role
}

// User holds the profile fields shown next to a message.
type User struct {
	ID    string
	Name  string
	Email string
	Image *string
}

// Author is a member resolved with its user profile.
type Author struct {
	Member Member
	User   User
}
