package domain

// GetMessagesCommand reads one page of a feed.
type GetMessagesCommand struct {
	WorkspaceID string `validate:"required"`
	Scope       Scope
	Cursor      *string
	PageSize    int `validate:"gte=0,lte=200"`
}

// CreateMessageCommand posts a message or a thread reply.
type CreateMessageCommand struct {
	WorkspaceID     string  `validate:"required"`
	Body            string  `validate:"required,max=20000"`
	Image           *string `validate:"omitempty,min=1"`
	ChannelID       *string `validate:"omitempty,min=1"`
	ConversationID  *string `validate:"omitempty,min=1"`
	ParentMessageID *string `validate:"omitempty,min=1"`
}

type UpdateMessageCommand struct {
	MessageID string `validate:"required"`
	Body      string `validate:"required,max=20000"`
}

type ToggleReactionCommand struct {
	MessageID string `validate:"required"`
	Value     string `validate:"required,max=64"`
}

type CreateWorkspaceCommand struct {
	Name string `validate:"required,min=3,max=80"`
}

type JoinWorkspaceCommand struct {
	WorkspaceID string `validate:"required"`
	JoinCode    string `validate:"required,len=6"`
}

type CreateChannelCommand struct {
	WorkspaceID string `validate:"required"`
	Name        string `validate:"required,min=3,max=80"`
}

type GetOrCreateConversationCommand struct {
	WorkspaceID string `validate:"required"`
	MemberID    string `validate:"required"`
}
