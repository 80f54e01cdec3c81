package api

import (
	"chat-feed/auth"
	"chat-feed/domain"
	"chat-feed/errors"
	"chat-feed/pagination"
	"chat-feed/projection"
	"chat-feed/services"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// Handler exposes the services over JSON. Every route except attachment downloads
// runs behind auth.Authenticate.
type Handler struct {
	log         *slog.Logger
	feeds       services.IFeedService
	messages    services.IMessageService
	workspaces  services.IWorkspaceService
	attachments services.IAttachmentService
	now         func() time.Time
}

func NewHandler(
	log *slog.Logger,
	feeds services.IFeedService,
	messages services.IMessageService,
	workspaces services.IWorkspaceService,
	attachments services.IAttachmentService,
) *Handler {
	return &Handler{
		log:         log,
		feeds:       feeds,
		messages:    messages,
		workspaces:  workspaces,
		attachments: attachments,
		now:         time.Now,
	}
}

type createMessageRequest struct {
	Body            string  `json:"body"`
	Image           *string `json:"image"`
	ChannelID       *string `json:"channel_id"`
	ConversationID  *string `json:"conversation_id"`
	ParentMessageID *string `json:"parent_message_id"`
}

type updateMessageRequest struct {
	Body string `json:"body"`
}

type reactionRequest struct {
	Value string `json:"value"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type joinRequest struct {
	JoinCode string `json:"join_code"`
}

type conversationRequest struct {
	MemberID string `json:"member_id"`
}

func (h *Handler) GetMessages(c *gin.Context) {
	cmd, err := messagesCommand(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	page, err := h.feeds.GetMessages(c.Request.Context(), userID(c), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, h.timeline(c)))
}

// GetTimeline returns the same page as GetMessages grouped by day with compact rows flagged.
func (h *Handler) GetTimeline(c *gin.Context) {
	cmd, err := messagesCommand(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	page, err := h.feeds.GetMessages(c.Request.Context(), userID(c), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, TimelineResponse{
		Groups:     toGroupResponses(page.Items, h.timeline(c)),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// WatchFeed streams the loaded window of a feed as server-sent events, once at start
// and again after every change of the scope.
func (h *Handler) WatchFeed(c *gin.Context) {
	cmd, err := messagesCommand(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	feed, err := h.feeds.Watch(ctx, userID(c), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer feed.Close()

	updates := make(chan pagination.Snapshot, 1)
	feed.Paginator().OnChange(func(s pagination.Snapshot) { latest(updates, s) })
	latest(updates, feed.Paginator().Snapshot())

	timeline := h.timeline(c)
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snapshot := <-updates:
			c.SSEvent("feed", toFeedStateResponse(snapshot, timeline))
			return true
		}
	})
	h.log.Debug("Live feed closed", "viewer", feed.ViewerID())
}

func (h *Handler) GetMessage(c *gin.Context) {
	message, err := h.feeds.GetMessage(c.Request.Context(), userID(c), c.Param("messageID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponse(message, h.timeline(c)))
}

func (h *Handler) Search(c *gin.Context) {
	hits, err := h.feeds.Search(c.Request.Context(), userID(c), c.Param("workspaceID"), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	timeline := h.timeline(c)
	c.JSON(http.StatusOK, gin.H{"items": lo.Map(hits, func(m domain.EnrichedMessage, _ int) MessageResponse {
		return toMessageResponse(m, timeline)
	})})
}

func (h *Handler) CreateMessage(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err))
		return
	}
	id, err := h.messages.Create(c.Request.Context(), userID(c), domain.CreateMessageCommand{
		WorkspaceID:     c.Param("workspaceID"),
		Body:            req.Body,
		Image:           req.Image,
		ChannelID:       req.ChannelID,
		ConversationID:  req.ConversationID,
		ParentMessageID: req.ParentMessageID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) UpdateMessage(c *gin.Context) {
	var req updateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err))
		return
	}
	message, err := h.messages.Update(c.Request.Context(), userID(c), domain.UpdateMessageCommand{
		MessageID: c.Param("messageID"),
		Body:      req.Body,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": message.ID, "updated_at": message.UpdatedAt})
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	if err := h.messages.Delete(c.Request.Context(), userID(c), c.Param("messageID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ToggleReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err))
		return
	}
	added, err := h.messages.ToggleReaction(c.Request.Context(), userID(c), domain.ToggleReactionCommand{
		MessageID: c.Param("messageID"),
		Value:     req.Value,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *Handler) CreateWorkspace(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err))
		return
	}
	id, err := h.workspaces.Create(c.Request.Context(), userID(c), domain.CreateWorkspaceCommand{Name: req.Name})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) JoinWorkspace(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err))
		return
	}
	memberID, err := h.workspaces.Join(c.Request.Context(), userID(c), domain.JoinWorkspaceCommand{
		WorkspaceID: c.Param("workspaceID"),
		JoinCode:    req.JoinCode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_id": memberID})
}

func (h *Handler) NewJoinCode(c *gin.Context) {
	code, err := h.workspaces.NewJoinCode(c.Request.Context(), userID(c), c.Param("workspaceID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"join_code": code})
}

func (h *Handler) CreateChannel(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err))
		return
	}
	id, err := h.workspaces.CreateChannel(c.Request.Context(), userID(c), domain.CreateChannelCommand{
		WorkspaceID: c.Param("workspaceID"),
		Name:        req.Name,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) GetOrCreateConversation(c *gin.Context) {
	var req conversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err))
		return
	}
	id, err := h.workspaces.GetOrCreateConversation(c.Request.Context(), userID(c), domain.GetOrCreateConversationCommand{
		WorkspaceID: c.Param("workspaceID"),
		MemberID:    req.MemberID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// UploadAttachment accepts a multipart "file" field or a raw request body.
func (h *Handler) UploadAttachment(c *gin.Context) {
	content := io.Reader(c.Request.Body)
	if file, err := c.FormFile("file"); err == nil {
		opened, err := file.Open()
		if err != nil {
			h.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err))
			return
		}
		defer func() { _ = opened.Close() }()
		content = opened
	}
	storageID, err := h.attachments.Upload(c.Request.Context(), userID(c), content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"storage_id": storageID})
}

func (h *Handler) ServeAttachment(c *gin.Context) {
	content, contentType, err := h.attachments.Open(c.Request.Context(), c.Param("storageID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer func() { _ = content.Close() }()
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.DataFromReader(http.StatusOK, -1, contentType, content, nil)
}

// timeline renders dates in the "tz" location of the caller, UTC by default.
func (h *Handler) timeline(c *gin.Context) *projection.Timeline {
	location := time.UTC
	if tz := c.Query("tz"); tz != "" {
		if loaded, err := time.LoadLocation(tz); err == nil {
			location = loaded
		}
	}
	return projection.NewTimeline(location).WithClock(h.now)
}

// messagesCommand reads the scope and the page window from the query string.
func messagesCommand(c *gin.Context) (domain.GetMessagesCommand, error) {
	cmd := domain.GetMessagesCommand{
		WorkspaceID: c.Param("workspaceID"),
		Scope: domain.Scope{
			ChannelID:       optional(c, "channel_id"),
			ConversationID:  optional(c, "conversation_id"),
			ParentMessageID: optional(c, "parent_message_id"),
		},
		Cursor: optional(c, "cursor"),
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return cmd, fmt.Errorf("%w: page_size %q", errors.ErrInvalidCommand, raw)
		}
		cmd.PageSize = size
	}
	return cmd, nil
}

func optional(c *gin.Context, key string) *string {
	if value := c.Query(key); value != "" {
		return &value
	}
	return nil
}

func userID(c *gin.Context) string {
	id, _ := auth.UserIDFromContext(c.Request.Context())
	return id
}

// latest replaces any snapshot still waiting in ch, so a slow client only gets the newest state.
func latest(ch chan pagination.Snapshot, s pagination.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
