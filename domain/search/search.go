package search

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query represents the structured parameters of a message search.
// It decouples the raw input typed in the search box from the index requirements.
type Query struct {
	RawInput  string // The original input of the user
	Terms     string // The text matched against message bodies
	ChannelID string // Restricts matches to one channel
	MemberID  string // Restricts matches to one author
	Limit     int
}

// NewSearchQuery parses a raw string to extract command-line style arguments.
// Example: /find "invoice" --in general --from m1 --limit 5
// Unknown flags are dropped together with their value.
func NewSearchQuery(input string) Query {
	query := Query{
		RawInput: input,
		Limit:    DefaultLimit,
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			val := parts[i+1]
			switch strings.TrimPrefix(part, "--") {
			case "in":
				query.ChannelID = val
			case "from":
				query.MemberID = val
			case "limit":
				if limit, err := strconv.Atoi(val); err == nil {
					query.Limit = limit
				}
			}
			i++ // Skip the value part in next iteration
			continue
		}

		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, strings.Trim(part, `"`))
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	query.Limit = ClampLimit(query.Limit)
	return query
}

// ClampLimit keeps a requested result count within [1, MaxLimit], DefaultLimit when unset.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Empty reports whether the query has no text to match.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Terms) == ""
}
