package pagination

import (
	"chat-feed/domain"
	"chat-feed/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// memoryFeed serves newest-first pages over an in-memory list.
type memoryFeed struct {
	mu    sync.Mutex
	items []domain.EnrichedMessage
	calls atomic.Int32
}

func newMemoryFeed(n int) *memoryFeed {
	f := &memoryFeed{}
	for i := n; i >= 1; i-- {
		f.items = append(f.items, item(fmt.Sprintf("msg-%02d", i)))
	}
	return f
}

func item(id string) domain.EnrichedMessage {
	return domain.EnrichedMessage{Message: domain.Message{ID: id, CreatedAt: time.Now()}}
}

func (f *memoryFeed) prepend(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]domain.EnrichedMessage{item(id)}, f.items...)
}

func (f *memoryFeed) fetch(_ context.Context, cursor *string, pageSize int) (domain.Page[domain.EnrichedMessage], error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	start := 0
	if cursor != nil {
		_, idx, _ := lo.FindIndexOf(f.items, func(m domain.EnrichedMessage) bool { return m.ID == *cursor })
		start = idx + 1
	}
	end := min(start+pageSize, len(f.items))
	page := domain.Page[domain.EnrichedMessage]{Items: f.items[start:end], HasMore: end < len(f.items)}
	if end > start {
		page.NextCursor = lo.ToPtr(f.items[end-1].ID)
	}
	return page, nil
}

func ids(items []domain.EnrichedMessage) []string {
	return lo.Map(items, func(m domain.EnrichedMessage, _ int) string { return m.ID })
}

func TestPaginator_LoadMore(t *testing.T) {
	ctx := context.Background()

	t.Run("should load pages until exhausted without duplicates or reordering", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(10)
		p := NewPaginator(slog.Default(), feed.fetch, 4)
		req.Equal(LoadingFirstPage, p.Status())

		req.NoError(p.Start(ctx))
		req.Equal(CanLoadMore, p.Status())
		req.Equal([]string{"msg-10", "msg-09", "msg-08", "msg-07"}, ids(p.Results()))

		req.NoError(p.LoadMore(ctx))
		req.Equal(CanLoadMore, p.Status())
		req.NoError(p.LoadMore(ctx))
		req.Equal(Exhausted, p.Status())

		all := ids(p.Results())
		req.Len(all, 10)
		req.Equal(lo.Uniq(all), all)
		req.Equal("msg-10", all[0])
		req.Equal("msg-01", all[9])

		calls := feed.calls.Load()
		req.NoError(p.LoadMore(ctx))
		req.Equal(calls, feed.calls.Load())
	})

	t.Run("should be exhausted after a short first page", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(3)
		p := NewPaginator(slog.Default(), feed.fetch, 4)

		req.NoError(p.Start(ctx))

		req.Equal(Exhausted, p.Status())
		req.False(p.Snapshot().HasMore())
	})

	t.Run("should ignore load more before the first page", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(10)
		p := NewPaginator(slog.Default(), feed.fetch, 4)

		req.NoError(p.LoadMore(ctx))

		req.Equal(int32(0), feed.calls.Load())
		req.Equal(LoadingFirstPage, p.Status())
	})

	t.Run("should skip ids already received", func(t *testing.T) {
		req := require.New(t)
		pages := []domain.Page[domain.EnrichedMessage]{
			{Items: []domain.EnrichedMessage{item("a"), item("b")}, NextCursor: lo.ToPtr("b"), HasMore: true},
			{Items: []domain.EnrichedMessage{item("b"), item("c")}, NextCursor: lo.ToPtr("c"), HasMore: false},
		}
		var call int
		p := NewPaginator(slog.Default(), func(context.Context, *string, int) (domain.Page[domain.EnrichedMessage], error) {
			page := pages[call]
			call++
			return page, nil
		}, 2)

		req.NoError(p.Start(ctx))
		req.NoError(p.LoadMore(ctx))

		req.Equal([]string{"a", "b", "c"}, ids(p.Results()))
		req.Equal(Exhausted, p.Status())
	})

	t.Run("should map every trigger to load more", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(10)
		p := NewPaginator(slog.Default(), feed.fetch, 3)
		req.NoError(p.Start(ctx))

		req.NoError(p.Trigger(ctx, TriggerBottomSentinel))
		req.NoError(p.Trigger(ctx, TriggerLoadMore))
		req.NoError(p.Trigger(ctx, TriggerExplicit))

		req.Len(p.Results(), 10)
		req.Equal(Exhausted, p.Status())
	})
}

func TestPaginator_Concurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("should keep a single fetch in flight", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(10)
		release := make(chan struct{})
		entered := make(chan struct{}, 1)
		var calls atomic.Int32
		p := NewPaginator(slog.Default(), func(ctx context.Context, cursor *string, size int) (domain.Page[domain.EnrichedMessage], error) {
			if calls.Add(1) > 1 {
				entered <- struct{}{}
				<-release
			}
			return feed.fetch(ctx, cursor, size)
		}, 4)
		req.NoError(p.Start(ctx))

		done := make(chan error)
		go func() { done <- p.LoadMore(ctx) }()
		<-entered
		req.Equal(LoadingMore, p.Status())

		// Then every other request is ignored
		req.NoError(p.LoadMore(ctx))
		req.NoError(p.Trigger(ctx, TriggerBottomSentinel))
		req.NoError(p.Start(ctx))

		close(release)
		req.NoError(<-done)
		req.Equal(int32(2), calls.Load())
		req.Len(p.Results(), 8)
	})

	t.Run("should discard a page resolving after dispose", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(10)
		release := make(chan struct{})
		entered := make(chan struct{})
		p := NewPaginator(slog.Default(), func(ctx context.Context, cursor *string, size int) (domain.Page[domain.EnrichedMessage], error) {
			close(entered)
			<-release
			return feed.fetch(ctx, cursor, size)
		}, 4)

		done := make(chan error)
		go func() { done <- p.Start(ctx) }()
		<-entered
		p.Dispose()
		close(release)

		req.ErrorIs(<-done, errors.ErrDisposed)
		req.Empty(p.Results())
		req.ErrorIs(p.LoadMore(ctx), errors.ErrDisposed)
		req.ErrorIs(p.Refresh(ctx), errors.ErrDisposed)
	})
}

func TestPaginator_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("should surface the error and keep prior pages", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(10)
		failing := true
		var calls int
		p := NewPaginator(slog.Default(), func(ctx context.Context, cursor *string, size int) (domain.Page[domain.EnrichedMessage], error) {
			calls++
			if calls == 2 && failing {
				return domain.Page[domain.EnrichedMessage]{}, errors.ErrFetchFailed
			}
			return feed.fetch(ctx, cursor, size)
		}, 4)
		req.NoError(p.Start(ctx))

		err := p.LoadMore(ctx)

		req.ErrorIs(err, errors.ErrFetchFailed)
		req.ErrorIs(p.Err(), errors.ErrFetchFailed)
		req.Equal(CanLoadMore, p.Status())
		req.Len(p.Results(), 4)

		// And an explicit retry recovers
		failing = false
		req.NoError(p.LoadMore(ctx))
		req.NoError(p.Err())
		req.Equal([]string{"msg-10", "msg-09", "msg-08", "msg-07", "msg-06", "msg-05", "msg-04", "msg-03"}, ids(p.Results()))
	})

	t.Run("should allow restarting after a failed first page", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(2)
		var calls int
		p := NewPaginator(slog.Default(), func(ctx context.Context, cursor *string, size int) (domain.Page[domain.EnrichedMessage], error) {
			calls++
			if calls == 1 {
				return domain.Page[domain.EnrichedMessage]{}, errors.ErrFetchFailed
			}
			return feed.fetch(ctx, cursor, size)
		}, 4)

		req.ErrorIs(p.Start(ctx), errors.ErrFetchFailed)
		req.Equal(LoadingFirstPage, p.Status())

		req.NoError(p.Start(ctx))
		req.Equal(Exhausted, p.Status())
		req.Len(p.Results(), 2)
	})
}

func TestPaginator_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("should add new messages on top and keep every received one", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(10)
		p := NewPaginator(slog.Default(), feed.fetch, 4)
		req.NoError(p.Start(ctx))
		req.NoError(p.LoadMore(ctx))
		loaded := ids(p.Results())

		feed.prepend("msg-11")
		var notified Snapshot
		p.OnChange(func(s Snapshot) { notified = s })
		req.NoError(p.Refresh(ctx))

		refreshed := ids(p.Results())
		req.Equal("msg-11", refreshed[0])
		req.Equal(loaded, refreshed[1:len(loaded)+1])
		req.Equal(ids(p.Results()), ids(notified.Items))
	})

	t.Run("should stay exhausted when a message arrives in a fully loaded feed", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(3)
		p := NewPaginator(slog.Default(), feed.fetch, 3)
		req.NoError(p.Start(ctx))
		req.Equal(Exhausted, p.Status())

		feed.prepend("msg-04")
		req.NoError(p.Refresh(ctx))

		req.Equal([]string{"msg-04", "msg-03", "msg-02", "msg-01"}, ids(p.Results()))
		req.Equal(Exhausted, p.Status())
	})

	t.Run("should keep the view stable when enrichment drops messages", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(12)
		gone := map[string]bool{"msg-11": true, "msg-10": true}
		fetch := func(ctx context.Context, cursor *string, size int) (domain.Page[domain.EnrichedMessage], error) {
			page, err := feed.fetch(ctx, cursor, size)
			page.Items = lo.Reject(page.Items, func(m domain.EnrichedMessage, _ int) bool { return gone[m.ID] })
			return page, err
		}
		p := NewPaginator(slog.Default(), fetch, 4)
		req.NoError(p.Start(ctx))
		req.NoError(p.LoadMore(ctx))
		loaded := ids(p.Results())
		req.Equal([]string{"msg-12", "msg-09", "msg-08", "msg-07", "msg-06", "msg-05"}, loaded)

		for range 3 {
			req.NoError(p.Refresh(ctx))
			req.Equal(loaded, ids(p.Results()))
			req.Equal(CanLoadMore, p.Status())
		}

		// The cursor still points after the oldest loaded message
		req.NoError(p.LoadMore(ctx))
		req.Equal(append(loaded, "msg-04", "msg-03", "msg-02", "msg-01"), ids(p.Results()))
		req.Equal(Exhausted, p.Status())
	})

	t.Run("should drop a deleted message and keep the rest in place", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(6)
		p := NewPaginator(slog.Default(), feed.fetch, 2)
		req.NoError(p.Start(ctx))
		req.NoError(p.LoadMore(ctx))

		feed.mu.Lock()
		feed.items = lo.Reject(feed.items, func(m domain.EnrichedMessage, _ int) bool { return m.ID == "msg-05" })
		feed.mu.Unlock()
		req.NoError(p.Refresh(ctx))

		// The last page walked may reach past the old boundary
		req.Equal([]string{"msg-06", "msg-04", "msg-03", "msg-02"}, ids(p.Results()))
		req.Equal(CanLoadMore, p.Status())
	})

	t.Run("should fail when the cursor does not move", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(6)
		var stuck atomic.Bool
		p := NewPaginator(slog.Default(), func(ctx context.Context, cursor *string, size int) (domain.Page[domain.EnrichedMessage], error) {
			if stuck.Load() && cursor != nil {
				return domain.Page[domain.EnrichedMessage]{Items: []domain.EnrichedMessage{item("msg-04")}, NextCursor: cursor, HasMore: true}, nil
			}
			return feed.fetch(ctx, cursor, size)
		}, 2)
		req.NoError(p.Start(ctx))
		req.NoError(p.LoadMore(ctx))

		stuck.Store(true)
		req.ErrorIs(p.Refresh(ctx), errors.ErrFetchFailed)
		req.Equal([]string{"msg-06", "msg-05", "msg-04", "msg-03"}, ids(p.Results()))
		req.Equal(CanLoadMore, p.Status())
	})

	t.Run("should run a refresh requested during a fetch right after it", func(t *testing.T) {
		req := require.New(t)
		feed := newMemoryFeed(10)
		release := make(chan struct{})
		entered := make(chan struct{}, 1)
		var calls atomic.Int32
		p := NewPaginator(slog.Default(), func(ctx context.Context, cursor *string, size int) (domain.Page[domain.EnrichedMessage], error) {
			if calls.Add(1) == 2 {
				entered <- struct{}{}
				<-release
			}
			return feed.fetch(ctx, cursor, size)
		}, 4)
		req.NoError(p.Start(ctx))

		done := make(chan error)
		go func() { done <- p.LoadMore(ctx) }()
		<-entered
		feed.prepend("msg-11")
		req.NoError(p.Refresh(ctx))
		req.Equal(int32(2), calls.Load())

		close(release)
		req.NoError(<-done)

		// Three pages to walk back to msg-03, the last one reaching the end of the feed
		req.Equal(int32(5), calls.Load())
		req.Equal("msg-11", p.Results()[0].ID)
		req.Len(p.Results(), 11)
		req.Equal(Exhausted, p.Status())
	})
}
