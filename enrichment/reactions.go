package enrichment

import (
	"chat-feed/domain"
	"slices"

	"github.com/samber/lo"
)

// AggregateReactions merges raw reaction rows into one group per emoji value.
// Groups keep the order in which each value first appears. A member reacting twice with the
// same value counts once: Count is the size of the deduplicated, sorted member set.
func AggregateReactions(reactions []domain.Reaction) []domain.ReactionGroup {
	values := lo.Uniq(lo.Map(reactions, func(r domain.Reaction, _ int) string { return r.Value }))
	byValue := lo.GroupBy(reactions, func(r domain.Reaction) string { return r.Value })

	return lo.Map(values, func(value string, _ int) domain.ReactionGroup {
		memberIDs := lo.Uniq(lo.Map(byValue[value], func(r domain.Reaction, _ int) string { return r.MemberID }))
		slices.Sort(memberIDs)
		return domain.ReactionGroup{
			Value:     value,
			Count:     len(memberIDs),
			MemberIDs: memberIDs,
		}
	})
}
