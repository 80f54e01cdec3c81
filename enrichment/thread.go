package enrichment

import (
	"chat-feed/domain"
	"chat-feed/errors"
	"context"
)

type authorResolver func(ctx context.Context, memberID string) (domain.Author, error)

// summarizeThread reports on the replies of a message.
// The last reply is the last one in storage order. When its author cannot be resolved
// anymore the count is kept and the author fields stay empty.
func summarizeThread(ctx context.Context, replies []domain.Message, resolve authorResolver) (domain.ThreadSummary, error) {
	if len(replies) == 0 {
		return domain.ThreadSummary{}, nil
	}
	last := replies[len(replies)-1]
	summary := domain.ThreadSummary{
		Count:     len(replies),
		Timestamp: last.CreatedAt,
	}
	author, err := resolve(ctx, last.MemberID)
	if errors.Is(err, errors.ErrNotFound) {
		return summary, nil
	}
	if err != nil {
		return domain.ThreadSummary{}, err
	}
	summary.Name = author.User.Name
	summary.Image = author.User.Image
	return summary, nil
}
