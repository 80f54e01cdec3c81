// Package pagination drives a backward-paginated view over one feed scope.
//
// A Paginator owns the messages received so far, in the order the store returned them
// (newest first). It guarantees that at most one fetch is in flight, that pages are appended
// without reordering what was already received, and that no message id appears twice.
package pagination

import (
	"chat-feed/domain"
	"chat-feed/errors"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

type Status int

const (
	LoadingFirstPage Status = iota
	CanLoadMore
	LoadingMore
	Exhausted
)

func (s Status) String() string {
	switch s {
	case LoadingFirstPage:
		return "LoadingFirstPage"
	case CanLoadMore:
		return "CanLoadMore"
	case LoadingMore:
		return "LoadingMore"
	case Exhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// TriggerKind tells where a load request comes from.
type TriggerKind int

const (
	TriggerExplicit TriggerKind = iota
	// TriggerBottomSentinel fires when the end of the rendered list enters the viewport.
	TriggerBottomSentinel
	// TriggerLoadMore fires when the "load more" affordance becomes visible.
	TriggerLoadMore
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerBottomSentinel:
		return "bottom_sentinel"
	case TriggerLoadMore:
		return "load_more"
	default:
		return "explicit"
	}
}

// Fetcher returns the page of size pageSize that comes right after cursor.
// A nil cursor asks for the newest page. Cursors compare in feed order: the cursor closing an
// older page sorts lower than the one closing a newer page.
type Fetcher func(ctx context.Context, cursor *string, pageSize int) (domain.Page[domain.EnrichedMessage], error)

// Snapshot is a consistent copy of the paginator state.
type Snapshot struct {
	Items  []domain.EnrichedMessage
	Status Status
	Err    error
}

func (s Snapshot) HasMore() bool {
	return s.Status == CanLoadMore || s.Status == LoadingMore
}

type Paginator struct {
	mu             sync.Mutex
	log            *slog.Logger
	fetch          Fetcher
	pageSize       int
	status         Status
	items          []domain.EnrichedMessage
	seen           map[string]struct{}
	cursor         *string
	err            error
	inFlight       bool
	refreshPending bool
	disposed       bool
	listener       func(Snapshot)
}

func NewPaginator(log *slog.Logger, fetch Fetcher, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 1
	}
	return &Paginator{
		log:      log,
		fetch:    fetch,
		pageSize: pageSize,
		status:   LoadingFirstPage,
		seen:     make(map[string]struct{}),
	}
}

// OnChange registers fn to be called with a snapshot after every applied fetch.
// fn runs outside the paginator lock.
func (p *Paginator) OnChange(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = fn
}

// Start loads the first page. It does nothing once the first page has been received
// or while it is being fetched. After a failed first fetch Start can be called again.
func (p *Paginator) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return errors.ErrDisposed
	}
	if p.status != LoadingFirstPage || p.inFlight {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	p.mu.Unlock()

	return p.run(ctx, p.page(nil, p.pageSize), p.appendPage)
}

// LoadMore fetches the page following the last received one.
// It is a no-op unless the status is CanLoadMore.
func (p *Paginator) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return errors.ErrDisposed
	}
	if p.status != CanLoadMore || p.inFlight {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	p.status = LoadingMore
	cursor := p.cursor
	p.mu.Unlock()

	return p.run(ctx, p.page(cursor, p.pageSize), p.appendPage)
}

// Trigger maps a viewport signal or an explicit call to LoadMore.
func (p *Paginator) Trigger(ctx context.Context, kind TriggerKind) error {
	p.log.Debug("Load triggered", "trigger", kind.String(), "status", p.Status().String())
	return p.LoadMore(ctx)
}

// Refresh re-fetches every page from the newest one down to the oldest loaded boundary and
// replaces the result set with it, so new messages are added on top and nothing already received
// falls out of the view. An exhausted feed is re-read to its end.
// A refresh requested while a fetch is in flight runs right after it.
func (p *Paginator) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return errors.ErrDisposed
	}
	if p.inFlight {
		p.refreshPending = true
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	first := p.status == LoadingFirstPage
	boundary := p.cursor
	p.mu.Unlock()

	if first {
		return p.run(ctx, p.page(nil, p.pageSize), p.replacePage)
	}
	return p.run(ctx, p.window(boundary), p.replacePage)
}

// Dispose detaches the paginator from its scope. Fetches resolving afterwards are discarded
// and every further call fails with errors.ErrDisposed.
func (p *Paginator) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disposed = true
	p.refreshPending = false
	p.listener = nil
}

func (p *Paginator) Results() []domain.EnrichedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items)
}

func (p *Paginator) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Err returns the error of the last fetch, nil once a later fetch succeeded.
func (p *Paginator) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Paginator) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *Paginator) snapshot() Snapshot {
	return Snapshot{Items: slices.Clone(p.items), Status: p.status, Err: p.err}
}

type loader func(ctx context.Context) (domain.Page[domain.EnrichedMessage], error)

func (p *Paginator) page(cursor *string, size int) loader {
	return func(ctx context.Context) (domain.Page[domain.EnrichedMessage], error) {
		return p.fetch(ctx, cursor, size)
	}
}

// window walks pages from the newest one until the page closing at or below boundary.
// A nil boundary walks to the end of the feed. The window keeps the cursor of its last page,
// so the boundary only moves towards older messages.
func (p *Paginator) window(boundary *string) loader {
	return func(ctx context.Context) (domain.Page[domain.EnrichedMessage], error) {
		var window domain.Page[domain.EnrichedMessage]
		var cursor *string
		for {
			page, err := p.fetch(ctx, cursor, p.pageSize)
			if err != nil {
				return domain.Page[domain.EnrichedMessage]{}, err
			}
			window.Items = append(window.Items, page.Items...)
			window.NextCursor, window.HasMore = page.NextCursor, page.HasMore
			if !page.HasMore || page.NextCursor == nil {
				return window, nil
			}
			if boundary != nil && *page.NextCursor <= *boundary {
				return window, nil
			}
			if cursor != nil && *page.NextCursor >= *cursor {
				return domain.Page[domain.EnrichedMessage]{}, fmt.Errorf("%w: cursor %q does not move past %q",
					errors.ErrFetchFailed, *page.NextCursor, *cursor)
			}
			cursor = page.NextCursor
		}
	}
}

// run performs one load then applies or reverts under the lock.
// apply is called with the lock held.
func (p *Paginator) run(ctx context.Context, load loader, apply func(domain.Page[domain.EnrichedMessage])) error {
	page, err := load(ctx)

	p.mu.Lock()
	p.inFlight = false
	if p.disposed {
		p.mu.Unlock()
		p.log.Debug("Late page discarded")
		return errors.ErrDisposed
	}
	if err != nil {
		p.err = err
		if p.status == LoadingMore {
			p.status = CanLoadMore
		}
	} else {
		p.err = nil
		apply(page)
	}
	listener, snapshot := p.listener, p.snapshot()
	pending := p.refreshPending
	p.refreshPending = false
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("Page fetch failed", "error", err)
	}
	if listener != nil {
		listener(snapshot)
	}
	if pending {
		if refreshErr := p.Refresh(ctx); err == nil {
			err = refreshErr
		}
	}
	return err
}

func (p *Paginator) appendPage(page domain.Page[domain.EnrichedMessage]) {
	for _, item := range page.Items {
		if _, ok := p.seen[item.ID]; ok {
			continue
		}
		p.seen[item.ID] = struct{}{}
		p.items = append(p.items, item)
	}
	p.advance(page)
}

func (p *Paginator) replacePage(page domain.Page[domain.EnrichedMessage]) {
	p.items = nil
	p.seen = make(map[string]struct{})
	p.appendPage(page)
}

// advance moves the cursor and decides whether more pages exist.
// HasMore is computed by the store on raw rows: enrichment may drop messages, so a short
// enriched page does not mean the feed is exhausted.
func (p *Paginator) advance(page domain.Page[domain.EnrichedMessage]) {
	p.cursor = page.NextCursor
	if !page.HasMore || page.NextCursor == nil {
		p.status = Exhausted
		return
	}
	p.status = CanLoadMore
}
