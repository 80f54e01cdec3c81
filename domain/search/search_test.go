package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSearchQuery(t *testing.T) {
	t.Run("should split terms and filters", func(t *testing.T) {
		req := require.New(t)

		query := NewSearchQuery(`/find "invoice" march --in general --from m1 --limit 5`)

		req.Equal("invoice march", query.Terms)
		req.Equal("general", query.ChannelID)
		req.Equal("m1", query.MemberID)
		req.Equal(5, query.Limit)
		req.False(query.Empty())
	})

	t.Run("should drop unknown flags with their value", func(t *testing.T) {
		req := require.New(t)

		query := NewSearchQuery("deploy --business 0.8")

		req.Equal("deploy", query.Terms)
		req.Equal(DefaultLimit, query.Limit)
	})

	t.Run("should clamp the limit", func(t *testing.T) {
		req := require.New(t)

		req.Equal(MaxLimit, NewSearchQuery("a --limit 1000").Limit)
		req.Equal(DefaultLimit, NewSearchQuery("a --limit -3").Limit)
		req.Equal(DefaultLimit, NewSearchQuery("a --limit x").Limit)
	})

	t.Run("should be empty without terms", func(t *testing.T) {
		req := require.New(t)
		req.True(NewSearchQuery("/find --in general").Empty())
	})
}
