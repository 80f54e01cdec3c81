package domain

// Reaction is one raw row linking a message, a reacting member and an emoji value.
type Reaction struct {
	ID          string
	WorkspaceID string
	MessageID   string
	MemberID    string
	Value       string
}

// ReactionGroup merges every reaction with the same value on a message.
// Count is the number of distinct members in MemberIDs.
type ReactionGroup struct {
	Value     string
	Count     int
	MemberIDs []string
}

// ReactedBy reports whether memberID is part of the group.
func (g ReactionGroup) ReactedBy(memberID string) bool {
	for _, id := range g.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}
