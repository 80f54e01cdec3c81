package api

import (
	"chat-feed/domain"
	"chat-feed/pagination"
	"chat-feed/projection"
	"time"

	"github.com/samber/lo"
)

type AuthorResponse struct {
	MemberID string  `json:"member_id"`
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Image    *string `json:"image,omitempty"`
}

type ReactionResponse struct {
	Value     string   `json:"value"`
	Count     int      `json:"count"`
	MemberIDs []string `json:"member_ids"`
}

type ThreadResponse struct {
	Count     int        `json:"count"`
	Image     *string    `json:"image,omitempty"`
	Name      string     `json:"name,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Label     string     `json:"label,omitempty"`
}

type MessageResponse struct {
	ID              string             `json:"id"`
	Body            string             `json:"body"`
	ImageURL        *string            `json:"image_url,omitempty"`
	WorkspaceID     string             `json:"workspace_id"`
	ChannelID       *string            `json:"channel_id,omitempty"`
	ConversationID  *string            `json:"conversation_id,omitempty"`
	ParentMessageID *string            `json:"parent_message_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
	Author          AuthorResponse     `json:"author"`
	Reactions       []ReactionResponse `json:"reactions"`
	Thread          ThreadResponse     `json:"thread"`
	Compact         bool               `json:"compact,omitempty"`
}

type PageResponse struct {
	Items      []MessageResponse `json:"items"`
	NextCursor *string           `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

type DateGroupResponse struct {
	Key     string            `json:"key"`
	Label   string            `json:"label"`
	Entries []MessageResponse `json:"entries"`
}

type TimelineResponse struct {
	Groups     []DateGroupResponse `json:"groups"`
	NextCursor *string             `json:"next_cursor,omitempty"`
	HasMore    bool                `json:"has_more"`
}

// FeedStateResponse is pushed to live feed subscribers after every refresh.
type FeedStateResponse struct {
	Status  string              `json:"status"`
	HasMore bool                `json:"has_more"`
	Error   string              `json:"error,omitempty"`
	Groups  []DateGroupResponse `json:"groups"`
}

func toMessageResponse(m domain.EnrichedMessage, timeline *projection.Timeline) MessageResponse {
	thread := ThreadResponse{Count: m.Thread.Count}
	if m.Thread.Count > 0 {
		thread.Image = m.Thread.Image
		thread.Name = m.Thread.Name
		thread.Timestamp = lo.ToPtr(m.Thread.Timestamp)
		thread.Label = timeline.ThreadLabel(m.Thread)
	}
	return MessageResponse{
		ID:              m.ID,
		Body:            m.Body,
		ImageURL:        m.ImageURL,
		WorkspaceID:     m.WorkspaceID,
		ChannelID:       m.ChannelID,
		ConversationID:  m.ConversationID,
		ParentMessageID: m.ParentMessageID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Author: AuthorResponse{
			MemberID: m.Author.Member.ID,
			UserID:   m.Author.User.ID,
			Name:     m.Author.User.Name,
			Image:    m.Author.User.Image,
		},
		Reactions: lo.Map(m.Reactions, func(g domain.ReactionGroup, _ int) ReactionResponse {
			return ReactionResponse{Value: g.Value, Count: g.Count, MemberIDs: g.MemberIDs}
		}),
		Thread: thread,
	}
}

func toPageResponse(page domain.Page[domain.EnrichedMessage], timeline *projection.Timeline) PageResponse {
	return PageResponse{
		Items: lo.Map(page.Items, func(m domain.EnrichedMessage, _ int) MessageResponse {
			return toMessageResponse(m, timeline)
		}),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
}

func toGroupResponses(messages []domain.EnrichedMessage, timeline *projection.Timeline) []DateGroupResponse {
	return lo.Map(timeline.Build(messages), func(g projection.DateGroup, _ int) DateGroupResponse {
		return DateGroupResponse{
			Key:   g.Key,
			Label: g.Label,
			Entries: lo.Map(g.Entries, func(e projection.Entry, _ int) MessageResponse {
				response := toMessageResponse(e.EnrichedMessage, timeline)
				response.Compact = e.Compact
				return response
			}),
		}
	})
}

func toFeedStateResponse(snapshot pagination.Snapshot, timeline *projection.Timeline) FeedStateResponse {
	state := FeedStateResponse{
		Status:  snapshot.Status.String(),
		HasMore: snapshot.HasMore(),
		Groups:  toGroupResponses(snapshot.Items, timeline),
	}
	if snapshot.Err != nil {
		state.Error = snapshot.Err.Error()
	}
	return state
}
