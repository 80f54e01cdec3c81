// Package projection turns a newest-first feed into the structure a viewer renders:
// date buckets with their divider labels and per-message compact flags.
// It does not fetch anything and never mutates its input.
package projection

import (
	"chat-feed/domain"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// CompactThreshold is the gap under which consecutive messages of one author share a header.
	CompactThreshold = 5 * time.Minute
	dateKeyLayout    = "2006-01-02"
	dateLabelLayout  = "Monday, January 2"
)

// Entry is a message placed in a bucket.
// A compact entry is rendered without repeating its author header.
type Entry struct {
	domain.EnrichedMessage
	Compact bool
}

// DateGroup holds the messages of one local calendar day, oldest first.
type DateGroup struct {
	Key     string
	Label   string
	Entries []Entry
}

// Timeline holds the location used to cut days and the clock used for labels.
type Timeline struct {
	location *time.Location
	now      func() time.Time
}

func NewTimeline(location *time.Location) *Timeline {
	if location == nil {
		location = time.Local
	}
	return &Timeline{location: location, now: time.Now}
}

func (t *Timeline) WithClock(now func() time.Time) *Timeline {
	t.now = now
	return t
}

func (t *Timeline) Location() *time.Location {
	return t.location
}

// Build groups a newest-first list. Buckets come newest day first and
// messages inside a bucket oldest first.
func (t *Timeline) Build(messages []domain.EnrichedMessage) []DateGroup {
	var groups []DateGroup
	index := make(map[string]int)

	for _, message := range messages {
		key := message.CreatedAt.In(t.location).Format(dateKeyLayout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Key: key, Label: t.Label(message.CreatedAt)})
		}
		groups[i].Entries = append([]Entry{{EnrichedMessage: message}}, groups[i].Entries...)
	}

	for i := range groups {
		entries := groups[i].Entries
		for j := 1; j < len(entries); j++ {
			entries[j].Compact = compact(entries[j-1], entries[j])
		}
	}
	return groups
}

// compact compares a message to the one displayed right before it in the same bucket.
func compact(previous, current Entry) bool {
	if previous.AuthorUserID() != current.AuthorUserID() {
		return false
	}
	return current.CreatedAt.Sub(previous.CreatedAt) < CompactThreshold
}

// Label is "Today", "Yesterday" or the full weekday, month and day.
func (t *Timeline) Label(at time.Time) string {
	day := startOfDay(at.In(t.location))
	today := startOfDay(t.now().In(t.location))
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format(dateLabelLayout)
	}
}

// RelativeTime renders at relative to the timeline clock, as in "3 minutes ago".
func (t *Timeline) RelativeTime(at time.Time) string {
	return humanize.RelTime(at, t.now(), "ago", "from now")
}

// ThreadLabel describes a thread bar, empty when the message has no reply.
func (t *Timeline) ThreadLabel(thread domain.ThreadSummary) string {
	if thread.Count == 0 {
		return ""
	}
	replies := "replies"
	if thread.Count == 1 {
		replies = "reply"
	}
	return fmt.Sprintf("%d %s, last reply %s", thread.Count, replies, t.RelativeTime(thread.Timestamp))
}

func startOfDay(at time.Time) time.Time {
	year, month, day := at.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, at.Location())
}
