package api

import (
	"chat-feed/errors"
	"chat-feed/pagination"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	// socketQueueSize bounds the requests waiting for the connection worker.
	// Requests arriving on a full queue are dropped.
	socketQueueSize = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already filtered by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketRequest is sent by the client: {"type":"load_more","trigger":"bottom_sentinel"} or {"type":"refresh"}.
type socketRequest struct {
	Type    string `json:"type"`
	Trigger string `json:"trigger"`
}

// WatchFeedSocket is the websocket flavor of WatchFeed. Besides receiving feed states,
// the client reports its viewport signals so older pages load over the same connection.
func (h *Handler) WatchFeedSocket(c *gin.Context) {
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

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "viewer", feed.ViewerID(), "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	paginator := feed.Paginator()
	updates := make(chan pagination.Snapshot, 1)
	paginator.OnChange(func(s pagination.Snapshot) { latest(updates, s) })
	latest(updates, paginator.Snapshot())

	done := make(chan struct{})
	defer close(done)
	requests := make(chan socketRequest)
	go h.readSocket(conn, requests, done)
	queue := make(chan socketRequest, socketQueueSize)
	defer close(queue)
	go h.work(ctx, paginator, queue)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	timeline := h.timeline(c)
	for {
		select {
		case <-ctx.Done():
			return
		case request, ok := <-requests:
			if !ok {
				h.log.Debug("Live socket closed", "viewer", feed.ViewerID())
				return
			}
			select {
			case queue <- request:
			default:
				h.log.Debug("Live socket request dropped", "viewer", feed.ViewerID(), "type", request.Type)
			}
		case snapshot := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(toFeedStateResponse(snapshot, timeline)); err != nil {
				h.log.Debug("Live socket write failed", "viewer", feed.ViewerID(), "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

// readSocket forwards client requests until the connection fails or done is closed.
func (h *Handler) readSocket(conn *websocket.Conn, requests chan<- socketRequest, done <-chan struct{}) {
	defer close(requests)
	for {
		var request socketRequest
		if err := conn.ReadJSON(&request); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("Live socket read failed", "error", err)
			}
			return
		}
		select {
		case requests <- request:
		case <-done:
			return
		}
	}
}

// work applies the requests of one connection in order until queue is closed.
func (h *Handler) work(ctx context.Context, paginator *pagination.Paginator, queue <-chan socketRequest) {
	for request := range queue {
		h.apply(ctx, paginator, request)
	}
}

func (h *Handler) apply(ctx context.Context, paginator *pagination.Paginator, request socketRequest) {
	var err error
	switch request.Type {
	case "load_more":
		err = paginator.Trigger(ctx, triggerOf(request.Trigger))
	case "refresh":
		err = paginator.Refresh(ctx)
	default:
		h.log.Debug("Unknown live socket request", "type", request.Type)
		return
	}
	// Fetch failures reach the client through the next snapshot.
	if err != nil && !errors.Is(err, errors.ErrDisposed) {
		h.log.Debug("Live socket request failed", "type", request.Type, "error", err)
	}
}

func triggerOf(name string) pagination.TriggerKind {
	switch name {
	case pagination.TriggerBottomSentinel.String():
		return pagination.TriggerBottomSentinel
	case pagination.TriggerLoadMore.String():
		return pagination.TriggerLoadMore
	default:
		return pagination.TriggerExplicit
	}
}
