// Package enrichment joins raw messages with their author, reactions, thread summary and
// attachment URL. It only reads from its collaborators.
package enrichment

import (
	"chat-feed/contract"
	"chat-feed/domain"
	"chat-feed/errors"
	"chat-feed/observability"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 16

type Enricher struct {
	log         *slog.Logger
	messages    contract.IMessageStore
	members     contract.IMemberDirectory
	reactions   contract.IReactionStore
	attachments contract.IAttachmentStore
	metrics     *observability.Metrics
	concurrency int
}

func NewEnricher(log *slog.Logger, messages contract.IMessageStore, members contract.IMemberDirectory,
	reactions contract.IReactionStore, attachments contract.IAttachmentStore, metrics *observability.Metrics) *Enricher {
	return &Enricher{
		log:         log,
		messages:    messages,
		members:     members,
		reactions:   reactions,
		attachments: attachments,
		metrics:     metrics,
		concurrency: defaultConcurrency,
	}
}

// WithConcurrency bounds how many messages of a page are enriched at once.
func (e *Enricher) WithConcurrency(n int) *Enricher {
	if n > 0 {
		e.concurrency = n
	}
	return e
}

// Enrich runs the four joins of a message concurrently.
// It returns nil without error when the author member or user no longer exists:
// such a message must be left out of the page. Any other failing join fails the call.
func (e *Enricher) Enrich(ctx context.Context, message domain.Message) (*domain.EnrichedMessage, error) {
	var (
		author   domain.Author
		resolved bool
		groups   []domain.ReactionGroup
		summary  domain.ThreadSummary
		imageURL *string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := e.ResolveAuthor(gctx, message.MemberID)
		if errors.Is(err, errors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("author of %s: %w", message.ID, err)
		}
		author, resolved = a, true
		return nil
	})
	g.Go(func() error {
		reactions, err := e.reactions.ListReactions(gctx, message.ID)
		if err != nil {
			return fmt.Errorf("reactions of %s: %w", message.ID, err)
		}
		groups = AggregateReactions(reactions)
		return nil
	})
	g.Go(func() error {
		replies, err := e.messages.ListReplies(gctx, message.ID)
		if err != nil {
			return fmt.Errorf("replies of %s: %w", message.ID, err)
		}
		summary, err = summarizeThread(gctx, replies, e.ResolveAuthor)
		return err
	})
	if message.Image != nil {
		g.Go(func() error {
			url, err := e.attachments.ResolveURL(gctx, *message.Image)
			if err != nil {
				return fmt.Errorf("attachment of %s: %w", message.ID, err)
			}
			imageURL = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !resolved {
		e.metrics.MessageDropped()
		e.log.Debug("Message dropped, author not found", "message", message.ID, "member", message.MemberID)
		return nil, nil
	}
	e.metrics.MessageEnriched()
	return &domain.EnrichedMessage{
		Message:   message,
		Author:    author,
		ImageURL:  imageURL,
		Reactions: groups,
		Thread:    summary,
	}, nil
}

// EnrichPage enriches every message of a page concurrently and returns them in input order,
// without the dropped ones.
func (e *Enricher) EnrichPage(ctx context.Context, messages []domain.Message) ([]domain.EnrichedMessage, error) {
	defer e.metrics.ObserveEnrichment(time.Now())

	results := make([]*domain.EnrichedMessage, len(messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, message := range messages {
		g.Go(func() error {
			enriched, err := e.Enrich(gctx, message)
			if err != nil {
				return err
			}
			results[i] = enriched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lo.FilterMap(results, func(m *domain.EnrichedMessage, _ int) (domain.EnrichedMessage, bool) {
		if m == nil {
			return domain.EnrichedMessage{}, false
		}
		return *m, true
	}), nil
}

// ResolveAuthor fetches a member then its user profile.
// Either one missing is reported as errors.ErrNotFound.
func (e *Enricher) ResolveAuthor(ctx context.Context, memberID string) (domain.Author, error) {
	member, err := e.members.GetMember(ctx, memberID)
	if err != nil {
		return domain.Author{}, err
	}
	user, err := e.members.GetUser(ctx, member.UserID)
	if err != nil {
		return domain.Author{}, err
	}
	return domain.Author{Member: member, User: user}, nil
}
